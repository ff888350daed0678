// Package middleware provides the HTTP middleware chain for the relay
// server: panic recovery, request logging, request ID propagation, and CORS.
//
// The response writer wrapper used for status capture passes http.Flusher
// through, so the event-stream endpoints keep flushing frame by frame under
// the full chain.
package middleware
