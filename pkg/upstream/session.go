package upstream

import "context"

// Session is one upstream conversation context. A session is created per
// inbound request, driven to its terminal signal, and released on every exit
// path. At most one live session exists per request and no session outlives
// its HTTP response.
//
// Content callbacks registered with Subscribe are invoked sequentially, in
// upstream arrival order, and always before the terminal signal is delivered
// on Done.
type Session interface {
	// SendPrompt begins transmission of the prompt. It returns once the
	// prompt has been handed to the upstream client; completion is reported
	// through Done, not through the return value.
	SendPrompt(ctx context.Context, prompt string) error

	// Subscribe registers a callback for incremental content and returns a
	// cancel function that unregisters it. After cancel returns, the
	// callback is never invoked again.
	Subscribe(cb func(delta string)) (cancel func())

	// Done delivers the session's terminal signal exactly once: nil when the
	// upstream reaches its idle/complete state, or the upstream error.
	Done() <-chan error

	// Close releases the session. It is safe to call more than once and
	// after Done has fired.
	Close() error
}

// Factory creates sessions from a per-request configuration. The production
// implementation wraps the OpenAI-compatible client; tests use a scripted
// emitter.
type Factory interface {
	NewSession(ctx context.Context, cfg SessionConfig) (Session, error)
}
