package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// contentFrame is the wire shape of one incremental content frame.
type contentFrame struct {
	Content string `json:"content"`
}

// errorFrame is the wire shape of the stream error frame payload.
type errorFrame struct {
	Error string `json:"error"`
}

// StreamWriter writes a well-formed outgoing event stream: zero or more
// content frames followed by exactly one terminal frame ([DONE] or an error
// event), never both, never more than one.
//
// All writes are serialized under one mutex so content callbacks firing from
// the session pump can never interleave with, or follow, the terminal frame.
// Writes after the caller's transport has gone away are silently skipped;
// the response is already unsalvageable at that point.
type StreamWriter struct {
	mu         sync.Mutex
	w          http.ResponseWriter
	flusher    http.Flusher
	ctx        context.Context
	terminated bool
}

// NewStreamWriter creates a stream writer bound to the request's context for
// disconnect detection.
func NewStreamWriter(w http.ResponseWriter, r *http.Request) *StreamWriter {
	flusher, _ := w.(http.Flusher)
	return &StreamWriter{w: w, flusher: flusher, ctx: r.Context()}
}

// Begin declares the response as an event stream and flushes the headers.
// After Begin, failures can no longer downgrade to a JSON error response.
func (sw *StreamWriter) Begin() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	SetSSEHeaders(sw.w)
	sw.w.WriteHeader(http.StatusOK)
	sw.flush()
}

// Content writes one incremental content frame. It reports whether the frame
// was written (false after termination or caller disconnect).
func (sw *StreamWriter) Content(delta string) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.terminated || sw.ctx.Err() != nil {
		return false
	}

	data, err := json.Marshal(&contentFrame{Content: delta})
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return false
	}
	sw.flush()
	return true
}

// Done writes the terminal success marker and closes the stream to further
// writes.
func (sw *StreamWriter) Done() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.terminated {
		return
	}
	sw.terminated = true

	if sw.ctx.Err() != nil {
		return
	}
	fmt.Fprint(sw.w, "data: [DONE]\n\n")
	sw.flush()
}

// Error writes the terminal error event and closes the stream to further
// writes.
func (sw *StreamWriter) Error(err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.terminated {
		return
	}
	sw.terminated = true

	if sw.ctx.Err() != nil {
		return
	}

	data, marshalErr := json.Marshal(&errorFrame{Error: err.Error()})
	if marshalErr != nil {
		data = []byte(`{"error":"internal error"}`)
	}
	fmt.Fprintf(sw.w, "event: error\ndata: %s\n\n", data)
	sw.flush()
}

// Terminated reports whether a terminal frame has been written.
func (sw *StreamWriter) Terminated() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.terminated
}

// flush pushes buffered frames to the transport. Callers hold sw.mu.
func (sw *StreamWriter) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}
