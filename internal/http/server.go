// Package http exposes the event planner over a small JSON and text API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"planner/internal/log"
	"planner/internal/services"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	http.Server
	events      *services.EventService
	logger      *log.Logger
	access      *log.StructuredLogger
	rateLimiter *rateLimiter
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, events *services.EventService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		events:      events,
		logger:      logger,
		access:      log.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("POST /events", s.handleCreateEvent)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /calendar", s.handleCalendar)

	var h http.Handler = s.instrument(mux)
	h = log.RequestIDMiddleware(func(r *http.Request) string { return r.Header.Get(requestIDHeader) })(h)
	h = log.Middleware(logger)(h)
	s.Handler = assignRequestID(h)

	return s
}

// Shutdown stops the listener and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// assignRequestID keeps a caller supplied request id or creates one, and
// echoes it in the response.
func assignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = generateRequestID()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// instrument adds security headers, rate limits writes and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		s.access.LogHTTPStart(r.Context(), r, clientIP)
		defer func() {
			s.access.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
		}()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", log.FieldClientIP, clientIP)
			TooManyRequestsError().Write(rw)
			return
		}

		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
