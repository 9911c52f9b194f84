package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ShayonX/LLM-Playground/internal/chat"
)

// sseWriter serializes frames onto an open Server-Sent Events response.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter sets the event-stream headers and returns a writer, or an
// error when the underlying ResponseWriter cannot flush.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return &sseWriter{w: w, flusher: flusher}, nil
}

// Send writes one frame as an SSE data line and flushes it immediately.
func (s *sseWriter) Send(frame chat.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}
