// Package handlers implements the HTTP endpoints of the relay: the streaming
// chat endpoint, the one-shot summarize endpoint, and the health and config
// inspection endpoints.
//
// The chat endpoint commits to an event stream as soon as the request body
// validates, so every later failure (path resolution, upstream errors,
// timeouts) is reported as an in-stream error frame rather than an HTTP
// status. The summarize endpoint buffers the whole upstream response and
// answers with a single JSON body.
package handlers
