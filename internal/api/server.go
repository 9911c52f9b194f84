package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ShayonX/LLM-Playground/config"
	"github.com/ShayonX/LLM-Playground/internal/chat"
	"github.com/ShayonX/LLM-Playground/internal/responses"
	"github.com/ShayonX/LLM-Playground/internal/tools"
)

// ChatRunner drives one orchestrated model exchange. *chat.Orchestrator
// satisfies it; tests substitute a scripted runner.
type ChatRunner interface {
	Run(ctx context.Context, input []responses.InputItem, opts chat.RunOptions, emit chat.EmitFunc) (*chat.Result, error)
}

// Server exposes the chat backend over HTTP.
type Server struct {
	cfg      *config.Config
	runner   ChatRunner
	registry *tools.Registry

	startTime      time.Time
	requestsServed *int64
}

// NewServer wires the HTTP layer.
func NewServer(cfg *config.Config, runner ChatRunner, registry *tools.Registry) *Server {
	var counter int64
	return &Server{
		cfg:            cfg,
		runner:         runner,
		registry:       registry,
		startTime:      time.Now(),
		requestsServed: &counter,
	}
}

// Handler returns the fully routed handler, CORS included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/api/chat/stream", s.handleChatStream)
	mux.HandleFunc("/chat/cot-stream", s.handleCotStream)
	mux.HandleFunc("/chat/upload", s.handleUpload)
	mux.HandleFunc("/chat/upload-cot-stream", s.handleUploadCotStream)
	mux.HandleFunc("/api/cot/info", s.handleCotInfo)
	mux.HandleFunc("/api/user/", s.handleUserInfo)

	cors := NewCORSMiddleware(s.cfg.Server.AllowedOrigins)
	return cors.Wrap(s.counting(mux))
}

// counting tags each request with an id and tracks requests served,
// mirroring what the health surface reports elsewhere.
func (s *Server) counting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(s.requestsServed, 1)
		if r.Header.Get("X-Request-ID") == "" {
			r.Header.Set("X-Request-ID", uuid.NewString())
		}
		w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

// RequestsServed returns the number of requests handled since startup.
func (s *Server) RequestsServed() int64 {
	return atomic.LoadInt64(s.requestsServed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
