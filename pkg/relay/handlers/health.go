package handlers

import (
	"net/http"

	"mercator-hq/callisto/pkg/relay"
)

// healthPayload is the health check response body.
type healthPayload struct {
	Status string `json:"status"`
}

// HealthHandler answers liveness probes. It carries no dependency checks;
// a process that can serve it is alive.
type HealthHandler struct{}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		relay.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	relay.WriteJSON(w, http.StatusOK, &healthPayload{Status: "ok"})
}
