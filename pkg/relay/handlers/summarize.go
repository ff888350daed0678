package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"mercator-hq/callisto/pkg/modelpath"
	"mercator-hq/callisto/pkg/relay"
	"mercator-hq/callisto/pkg/telemetry/logging"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/upstream"
)

// SummarizeHandler produces a one-shot summary of caller-supplied text. The
// upstream response is buffered in full and returned as a single JSON body.
type SummarizeHandler struct {
	resolver PathResolver
	factory  upstream.Factory
	logger   *slog.Logger
	metrics  *metrics.RelayMetrics

	// timeout bounds the wait for upstream completion. Tests shorten it.
	timeout time.Duration
}

// NewSummarizeHandler creates the summarize endpoint handler.
func NewSummarizeHandler(resolver PathResolver, factory upstream.Factory, logger *slog.Logger, rm *metrics.RelayMetrics) *SummarizeHandler {
	return &SummarizeHandler{
		resolver: resolver,
		factory:  factory,
		logger:   logger,
		metrics:  rm,
		timeout:  RelayTimeout,
	}
}

// ServeHTTP implements http.Handler.
func (h *SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context(), h.logger)

	if r.Method != http.MethodPost {
		relay.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		h.record("405", start)
		return
	}

	req, err := relay.ParseSummarizeRequest(r)
	if err != nil {
		status := relay.StatusForError(err)
		relay.WriteError(w, status, err.Error())
		h.record(statusLabel(status), start)
		return
	}

	summary, err := h.summarize(r, req.Text, logger)
	if err != nil {
		relay.WriteError(w, http.StatusInternalServerError, err.Error())
		h.record("500", start)
		return
	}

	// An empty summary is a valid result; the response shape does not change.
	relay.WriteJSON(w, http.StatusOK, &relay.SummaryPayload{Summary: summary})
	h.record("200", start)
}

// summarize runs one buffered upstream round trip and returns the
// accumulated text.
func (h *SummarizeHandler) summarize(r *http.Request, text string, logger *slog.Logger) (string, error) {
	ctx := r.Context()

	cfg, err := h.resolver.Resolve(ctx, false)
	if err != nil {
		logger.Error("model path resolution failed", "error", err)
		return "", err
	}
	logger = logger.With("model", cfg.Model)

	sess, err := h.factory.NewSession(ctx, cfg)
	if err != nil {
		logger.Error("failed to open upstream session", "error", err)
		return "", modelpath.EnhanceError(cfg.Model, err)
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Debug("session close failed", "error", closeErr)
		}
	}()

	var mu sync.Mutex
	var b strings.Builder
	unsubscribe := sess.Subscribe(func(delta string) {
		mu.Lock()
		b.WriteString(delta)
		mu.Unlock()
	})
	defer unsubscribe()

	prompt := relay.SummaryPrompt(text)
	if err := sess.SendPrompt(ctx, prompt); err != nil {
		logger.Error("failed to send prompt upstream", "error", err)
		return "", modelpath.EnhanceError(cfg.Model, err)
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	select {
	case err := <-sess.Done():
		if err != nil {
			logger.Error("upstream session failed", "error", err)
			return "", modelpath.EnhanceError(cfg.Model, err)
		}
	case <-timer.C:
		logger.Error("summarize timed out", "bound", h.timeout)
		return "", &upstream.TimeoutError{Bound: h.timeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return b.String(), nil
}

// record observes one completed request on the metrics, if configured.
func (h *SummarizeHandler) record(status string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordRequest("summarize", status, time.Since(start))
	}
}
