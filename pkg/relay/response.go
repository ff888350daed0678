package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorPayload is the flat JSON error body used by non-stream failure
// responses.
type ErrorPayload struct {
	Error string `json:"error"`
}

// SummaryPayload is the summarize success body.
type SummaryPayload struct {
	Summary string `json:"summary"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteError writes a flat {"error": message} body with the given status.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, &ErrorPayload{Error: message})
}

// WriteErrorFor writes the error with the status StatusForError maps it to.
func WriteErrorFor(w http.ResponseWriter, err error) error {
	return WriteError(w, StatusForError(err), err.Error())
}

// SetSSEHeaders sets the event-stream headers. They are flushed immediately
// after validation succeeds and before any upstream call, which is why every
// later failure is a stream error frame rather than an HTTP status.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}
