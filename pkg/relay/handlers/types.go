package handlers

import (
	"context"
	"strconv"
	"time"

	"mercator-hq/callisto/pkg/upstream"
)

// RelayTimeout bounds how long a relay waits for the upstream session to
// finish after the prompt is sent.
const RelayTimeout = 120 * time.Second

// PathResolver resolves the per-request model path into a session
// configuration.
type PathResolver interface {
	// Resolve returns the session configuration for one request. streaming
	// selects between incremental delivery and a single buffered response.
	Resolve(ctx context.Context, streaming bool) (upstream.SessionConfig, error)
}

// statusLabel formats an HTTP status code as a metrics label.
func statusLabel(status int) string {
	return strconv.Itoa(status)
}
