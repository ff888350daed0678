package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/callisto/pkg/relay"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// Recovery recovers from handler panics and answers with a 500 JSON error.
// The panic and stack are logged; the client sees no internal detail. A
// panic after the response started (mid-stream) cannot be converted and the
// connection is simply dropped.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log := logging.FromContext(r.Context(), logger)
					log.Error("panic in handler",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					relay.WriteError(w, http.StatusInternalServerError,
						"An internal error occurred. Please try again later.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
