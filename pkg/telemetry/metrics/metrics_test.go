package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/callisto/pkg/credential"
)

func TestRelayMetricsRecording(t *testing.T) {
	c := NewCollector("test")
	rm := c.Relay

	rm.RecordRequest("chat", "200", 50*time.Millisecond)
	rm.RecordRequest("chat", "200", 70*time.Millisecond)
	rm.RecordRequest("summarize", "400", time.Millisecond)
	rm.RecordChunks(3)
	rm.RecordChunks(0)
	rm.RecordTermination(OutcomeDone)
	rm.RecordTermination(OutcomeTimeout)

	if got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("chat", "200")); got != 2 {
		t.Errorf("requests_total{chat,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("summarize", "400")); got != 1 {
		t.Errorf("requests_total{summarize,400} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.streamChunks); got != 3 {
		t.Errorf("stream_chunks_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(rm.streamTerminations.WithLabelValues(OutcomeDone)); got != 1 {
		t.Errorf("stream_terminations_total{done} = %v, want 1", got)
	}
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	c := NewCollector("test")
	c.Relay.RecordRequest("chat", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, "test_requests_total") {
		t.Errorf("exposition missing test_requests_total:\n%s", got)
	}
}

type scriptedFetcher struct {
	token credential.Token
	err   error
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func (f *scriptedFetcher) Fetch(context.Context) (credential.Token, error) {
	if f.err != nil {
		return credential.Token{}, f.err
	}
	return f.token, nil
}

func TestInstrumentFetcherCountsResults(t *testing.T) {
	c := NewCollector("test")
	rm := c.Relay

	ok := InstrumentFetcher(&scriptedFetcher{token: credential.Token{Value: "t"}}, rm)
	if _, err := ok.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	failing := InstrumentFetcher(&scriptedFetcher{err: errors.New("no identity")}, rm)
	if _, err := failing.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() error = nil, want failure")
	}

	if got := testutil.ToFloat64(rm.credentialRefresh.WithLabelValues("success")); got != 1 {
		t.Errorf("credential_refreshes_total{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.credentialRefresh.WithLabelValues("error")); got != 1 {
		t.Errorf("credential_refreshes_total{error} = %v, want 1", got)
	}
}
