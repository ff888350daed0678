package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/callisto/pkg/modelpath"
)

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("body %q is not JSON: %v", rec.Body.String(), err)
	}
	if payload.Status != "ok" {
		t.Errorf("status = %q, want %q", payload.Status, "ok")
	}
}

func TestHealthMethodNotAllowed(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestConfigInfoHandler(t *testing.T) {
	tests := []struct {
		name         string
		inputs       modelpath.Inputs
		wantModel    string
		wantProvider string
	}{
		{
			name:         "defaults",
			inputs:       modelpath.Inputs{},
			wantModel:    "gpt-4.1",
			wantProvider: "github",
		},
		{
			name:         "named hosted model",
			inputs:       modelpath.Inputs{ModelName: "gpt-5-mini"},
			wantModel:    "gpt-5-mini",
			wantProvider: "github",
		},
		{
			name: "azure path",
			inputs: modelpath.Inputs{
				Provider:      "azure",
				ModelName:     "gpt-4.1",
				AzureEndpoint: "https://example.openai.azure.com",
			},
			wantModel:    "gpt-4.1",
			wantProvider: "azure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewConfigInfoHandler(func() modelpath.Inputs { return tt.inputs }, "gpt-4.1")

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var payload struct {
				Model    string `json:"model"`
				Provider string `json:"provider"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("body %q is not JSON: %v", rec.Body.String(), err)
			}
			if payload.Model != tt.wantModel {
				t.Errorf("model = %q, want %q", payload.Model, tt.wantModel)
			}
			if payload.Provider != tt.wantProvider {
				t.Errorf("provider = %q, want %q", payload.Provider, tt.wantProvider)
			}
		})
	}
}

func TestConfigInfoTracksChanges(t *testing.T) {
	inputs := modelpath.Inputs{}
	h := NewConfigInfoHandler(func() modelpath.Inputs { return inputs }, "gpt-4.1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	first := rec.Body.String()

	inputs = modelpath.Inputs{Provider: "azure", ModelName: "o4-mini"}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	if rec.Body.String() == first {
		t.Error("config response did not track input changes")
	}
}
