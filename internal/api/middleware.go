package api

import (
	"net/http"
)

// CORSMiddleware adds cross-origin headers for the browser frontend.
type CORSMiddleware struct {
	origins map[string]bool
	any     bool
}

// NewCORSMiddleware builds a middleware allowing the given origins. An
// entry of "*" allows every origin.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]bool)}
	for _, o := range origins {
		if o == "*" {
			m.any = true
			continue
		}
		m.origins[o] = true
	}
	return m
}

// Wrap wraps an http.Handler with CORS header handling, answering
// preflight requests directly.
func (m *CORSMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			h := w.Header()
			if m.any {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) allowed(origin string) bool {
	return m.any || m.origins[origin]
}
