package handlers

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"mercator-hq/callisto/pkg/modelpath"
	"mercator-hq/callisto/pkg/relay"
	"mercator-hq/callisto/pkg/telemetry/logging"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/upstream"
)

// ChatHandler relays a chat request to the upstream session and streams the
// response back as server-sent events.
type ChatHandler struct {
	resolver PathResolver
	factory  upstream.Factory
	logger   *slog.Logger
	metrics  *metrics.RelayMetrics

	// timeout bounds the wait for upstream completion. Tests shorten it.
	timeout time.Duration
}

// NewChatHandler creates the chat endpoint handler.
func NewChatHandler(resolver PathResolver, factory upstream.Factory, logger *slog.Logger, rm *metrics.RelayMetrics) *ChatHandler {
	return &ChatHandler{
		resolver: resolver,
		factory:  factory,
		logger:   logger,
		metrics:  rm,
		timeout:  RelayTimeout,
	}
}

// ServeHTTP implements http.Handler.
//
// Validation failures are plain JSON error responses. Once the request
// validates the handler commits to an event stream, so every later failure
// is delivered as an in-stream error frame followed by nothing else.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context(), h.logger)

	if r.Method != http.MethodPost {
		relay.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		h.record("chat", "405", start)
		return
	}

	req, err := relay.ParseChatRequest(r)
	if err != nil {
		status := relay.StatusForError(err)
		relay.WriteError(w, status, err.Error())
		h.record("chat", statusLabel(status), start)
		return
	}

	prompt := relay.BuildChatPrompt(req.History, req.Message)

	sw := relay.NewStreamWriter(w, r)
	sw.Begin()
	h.record("chat", "200", start)

	outcome := h.relay(r, sw, prompt, logger)
	if h.metrics != nil {
		h.metrics.RecordTermination(outcome)
	}
}

// relay resolves the model path, opens an upstream session, and pumps its
// deltas into the stream until completion, error, timeout, or caller
// disconnect. It returns the termination outcome label.
func (h *ChatHandler) relay(r *http.Request, sw *relay.StreamWriter, prompt string, logger *slog.Logger) string {
	ctx := r.Context()
	start := time.Now()

	cfg, err := h.resolver.Resolve(ctx, true)
	if err != nil {
		logger.Error("model path resolution failed", "error", err)
		sw.Error(err)
		return metrics.OutcomeError
	}
	logger = logger.With("model", cfg.Model)

	sess, err := h.factory.NewSession(ctx, cfg)
	if err != nil {
		logger.Error("failed to open upstream session", "error", err)
		sw.Error(modelpath.EnhanceError(cfg.Model, err))
		return metrics.OutcomeError
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Debug("session close failed", "error", closeErr)
		}
	}()

	var chunks atomic.Int64
	unsubscribe := sess.Subscribe(func(delta string) {
		if sw.Content(delta) {
			chunks.Add(1)
		}
	})

	if err := sess.SendPrompt(ctx, prompt); err != nil {
		unsubscribe()
		logger.Error("failed to send prompt upstream", "error", err)
		sw.Error(modelpath.EnhanceError(cfg.Model, err))
		return metrics.OutcomeError
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	var outcome string
	select {
	case err := <-sess.Done():
		// Unsubscribe before the terminal frame so no content callback can
		// land after it.
		unsubscribe()
		if err != nil {
			logger.Error("upstream session failed", "error", err, "chunks", chunks.Load())
			sw.Error(modelpath.EnhanceError(cfg.Model, err))
			outcome = metrics.OutcomeError
		} else {
			logger.Info("relay complete", "chunks", chunks.Load(), "duration", time.Since(start))
			sw.Done()
			outcome = metrics.OutcomeDone
		}

	case <-timer.C:
		unsubscribe()
		err := &upstream.TimeoutError{Bound: h.timeout}
		logger.Error("relay timed out", "bound", h.timeout, "chunks", chunks.Load())
		sw.Error(err)
		outcome = metrics.OutcomeTimeout

	case <-ctx.Done():
		unsubscribe()
		logger.Info("caller disconnected", "chunks", chunks.Load())
		outcome = metrics.OutcomeDisconnect
	}

	if h.metrics != nil {
		h.metrics.RecordChunks(int(chunks.Load()))
	}
	return outcome
}

// record observes one completed request on the metrics, if configured.
func (h *ChatHandler) record(endpoint, status string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordRequest(endpoint, status, time.Since(start))
	}
}
