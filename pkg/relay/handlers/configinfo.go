package handlers

import (
	"net/http"
	"strings"

	"mercator-hq/callisto/pkg/modelpath"
	"mercator-hq/callisto/pkg/relay"
)

// configPayload is the config inspection response body.
type configPayload struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// ConfigInfoHandler reports the model path a request made right now would
// take. Inputs are re-read per request, so the answer tracks environment
// changes without a restart.
type ConfigInfoHandler struct {
	inputs       func() modelpath.Inputs
	defaultModel string
}

// NewConfigInfoHandler creates the config inspection handler. defaultModel
// is reported when no model name is configured.
func NewConfigInfoHandler(inputs func() modelpath.Inputs, defaultModel string) *ConfigInfoHandler {
	return &ConfigInfoHandler{inputs: inputs, defaultModel: defaultModel}
}

// ServeHTTP implements http.Handler.
func (h *ConfigInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		relay.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	in := h.inputs()

	payload := &configPayload{
		Model:    in.ModelName,
		Provider: "github",
	}
	if payload.Model == "" {
		payload.Model = h.defaultModel
	}
	if strings.EqualFold(strings.TrimSpace(in.Provider), modelpath.ProviderAzure) {
		payload.Provider = modelpath.ProviderAzure
	}

	relay.WriteJSON(w, http.StatusOK, payload)
}
