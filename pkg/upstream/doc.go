// Package upstream wraps the vendor completion SDK behind a narrow session
// capability.
//
// The relay never talks to the vendor SDK directly. It obtains a Session from
// a Factory using a per-request SessionConfig, subscribes to incremental
// content, sends exactly one prompt, and waits for the session's terminal
// signal. The production Factory is backed by the OpenAI-compatible client;
// tests substitute a scripted emitter.
//
// Key types:
//   - SessionConfig: immutable per-request upstream configuration
//   - Session: the capability interface (SendPrompt, Subscribe, Done, Close)
//   - Factory: creates sessions from a SessionConfig
package upstream
