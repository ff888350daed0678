package upstream

import (
	"fmt"
	"time"
)

// TimeoutError is synthesized locally when a bounded wait for the session's
// terminal signal elapses. The message states the bound.
type TimeoutError struct {
	// Bound is the wait bound that elapsed.
	Bound time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response from upstream within %s", e.Bound)
}

// SendError wraps a failure to create a session or transmit the prompt.
type SendError struct {
	// Cause is the underlying client error.
	Cause error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return fmt.Sprintf("upstream send failed: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *SendError) Unwrap() error {
	return e.Cause
}
