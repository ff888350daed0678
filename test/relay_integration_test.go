//go:build integration

package test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/modelpath"
	"mercator-hq/callisto/pkg/server"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/upstream"
)

// fakeCompletions is an OpenAI-compatible upstream that streams the given
// deltas for streaming requests and returns the joined content otherwise.
func fakeCompletions(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stream bool `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			for _, delta := range deltas {
				payload, _ := json.Marshal(map[string]any{
					"id":      "chatcmpl-it",
					"object":  "chat.completion.chunk",
					"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": delta}}},
				})
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			flusher.Flush()
			return
		}

		payload, _ := json.Marshal(map[string]any{
			"id":     "chatcmpl-it",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]string{"role": "assistant", "content": strings.Join(deltas, "")},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}))
}

type staticTokens struct{}

func (staticTokens) Bearer(context.Context) (string, error) { return "integration-token", nil }

func newRelay(t *testing.T, upstreamURL string) *httptest.Server {
	t.Helper()

	cfg := config.NewDefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := modelpath.NewResolver(staticTokens{}, func() modelpath.Inputs { return modelpath.Inputs{} }, logger)
	factory := upstream.NewOpenAIFactory(upstream.ClientConfig{
		BaseURL:      upstreamURL + "/v1",
		APIKey:       "integration-key",
		DefaultModel: "gpt-4.1",
	})
	collector := metrics.NewCollector("callisto_it")

	srv := server.NewServer(cfg, resolver, factory, logger, collector)
	relay := httptest.NewServer(srv.Handler())
	t.Cleanup(relay.Close)
	return relay
}

func TestRelayChatEndToEnd(t *testing.T) {
	up := fakeCompletions(t, []string{"Hello", ", ", "world"})
	defer up.Close()
	relay := newRelay(t, up.URL)

	resp, err := http.Post(relay.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"say hello","history":[{"role":"user","content":"earlier"}]}`))
	if err != nil {
		t.Fatalf("POST /chat error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}

	var frames []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			frames = append(frames, strings.TrimPrefix(line, "data: "))
		}
	}

	if len(frames) != 4 {
		t.Fatalf("frames = %v, want 3 deltas plus [DONE]", frames)
	}
	if frames[len(frames)-1] != "[DONE]" {
		t.Errorf("last frame = %q, want [DONE]", frames[len(frames)-1])
	}

	var assembled strings.Builder
	for _, frame := range frames[:len(frames)-1] {
		var chunk struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(frame), &chunk); err != nil {
			t.Fatalf("frame %q is not JSON: %v", frame, err)
		}
		assembled.WriteString(chunk.Content)
	}
	if assembled.String() != "Hello, world" {
		t.Errorf("assembled = %q", assembled.String())
	}
}

func TestRelaySummarizeEndToEnd(t *testing.T) {
	up := fakeCompletions(t, []string{"A concise summary."})
	defer up.Close()
	relay := newRelay(t, up.URL)

	resp, err := http.Post(relay.URL+"/summarize", "application/json",
		strings.NewReader(`{"text":"a long document that needs summarizing"}`))
	if err != nil {
		t.Fatalf("POST /summarize error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Summary != "A concise summary." {
		t.Errorf("summary = %q", payload.Summary)
	}
}

func TestRelayValidationErrors(t *testing.T) {
	up := fakeCompletions(t, nil)
	defer up.Close()
	relay := newRelay(t, up.URL)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"chat empty message", "/chat", `{"message":""}`, http.StatusBadRequest},
		{"chat malformed json", "/chat", `{"message":`, http.StatusBadRequest},
		{"summarize missing text", "/summarize", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(relay.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST %s error = %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var payload struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if payload.Error == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestRelayUpstreamFailureBeforeStream(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Encrypted content is not supported by this model"}}`, http.StatusBadRequest)
	}))
	defer up.Close()
	relay := newRelay(t, up.URL)

	resp, err := http.Post(relay.URL+"/chat", "application/json", strings.NewReader(`{"message":"hi"}`))
	if err != nil {
		t.Fatalf("POST /chat error = %v", err)
	}
	defer resp.Body.Close()

	// Headers are committed before the upstream is contacted, so the failure
	// arrives as an SSE error event on a 200 response.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with error event", resp.StatusCode)
	}

	var sawErrorEvent bool
	var errorPayload string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: error" {
			sawErrorEvent = true
		}
		if sawErrorEvent && strings.HasPrefix(line, "data: ") {
			errorPayload = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if !sawErrorEvent {
		t.Fatal("no error event on stream")
	}
	if !strings.Contains(errorPayload, "does not support encrypted content") {
		t.Errorf("error payload = %q, want enhanced capability message", errorPayload)
	}
}

func TestRelayMetricsExposed(t *testing.T) {
	up := fakeCompletions(t, []string{"ok"})
	defer up.Close()
	relay := newRelay(t, up.URL)

	if _, err := http.Post(relay.URL+"/summarize", "application/json", strings.NewReader(`{"text":"doc"}`)); err != nil {
		t.Fatalf("POST /summarize error = %v", err)
	}

	resp, err := http.Get(relay.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteByte('\n')
	}
	if !strings.Contains(body.String(), "callisto_it_requests_total") {
		t.Error("requests_total metric not exposed")
	}
}
