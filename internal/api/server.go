// Package api exposes the answer pipeline over HTTP as a small JSON API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wildscope/wildscope/internal/answer"
	"github.com/wildscope/wildscope/internal/enrich"
	"github.com/wildscope/wildscope/internal/retrieval"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger    *slog.Logger
	Answer    *answer.Service   // Required
	Enrich    *enrich.Client    // Optional: nil disables image/paper enrichment
	Retrieval *retrieval.Client // Optional: nil disables the retrieval proxy

	CORSOrigins []string // Allowed origins for CORS
	TrustProxy  bool     // Trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateBurst   int      // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Answer == nil {
		return nil, errors.New("answer service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{
		answer: cfg.Answer,
		enrich: cfg.Enrich,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", ch.chat)

	if cfg.Retrieval != nil {
		rh := &retrieveHandler{client: cfg.Retrieval, logger: logger}
		mux.HandleFunc("POST /api/retrieve", rh.retrieve)
	}

	// Per-IP token bucket, 1 token/sec refill.
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack, outermost first:
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID precedes Logging so request_id shows up in log attributes;
	// CORS precedes RateLimit so preflight OPTIONS gets proper headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probe stays outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
