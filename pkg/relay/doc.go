// Package relay implements the HTTP surface shared by the chat and
// summarize endpoints: request parsing and validation, flat JSON error
// bodies, and the server-sent-event framing used by the streaming relay.
//
// Validation runs strictly before any stream header is written, so caller
// faults always surface as well-formed JSON 4xx responses. Once a stream has
// been declared, every failure becomes exactly one error frame; the
// StreamWriter serializes writes and guarantees the terminal frame is the
// last thing on the wire.
package relay
