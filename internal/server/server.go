package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/interview-prep/internal/assessment"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/profile"
	"github.com/jonathan/interview-prep/internal/quiz"
	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/server/ratelimit"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	log         *observability.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	shutdown    time.Duration

	quiz        *quiz.Generator
	assessments *assessment.Service
	profiles    *profile.Service
	users       *UserService
}

// Config holds server configuration
type Config struct {
	Port            int
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

// Deps are the collaborators the server wires its services from.
type Deps struct {
	DB      *db.DB
	LLM     llm.Client
	JWT     *JWTService
	Limiter *ratelimit.Limiter
	Log     *observability.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = observability.NewNop()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	s := &Server{
		db:          deps.DB,
		log:         log.With("component", "server"),
		rateLimiter: limiter,
		jwtService:  deps.JWT,
		shutdown:    cfg.ShutdownTimeout,
		quiz:        quiz.NewGenerator(deps.LLM, log),
		assessments: assessment.NewService(deps.DB, deps.LLM, log),
		profiles:    profile.NewService(deps.DB, insights.NewGenerator(deps.LLM, log), log),
		users:       NewUserService(deps.DB, log),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(cfg.AllowedOrigin),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls are slow
		IdleTimeout:  60 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.rateLimiter.Stop)

	return s
}

func (s *Server) routes(allowedOrigin string) http.Handler {
	validator := s.jwtService.AsTokenValidator()
	required := middleware.RequireAuth(validator)
	optional := middleware.OptionalAuth(validator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Quiz generation is public
	mux.HandleFunc("POST /api/generate-quiz", s.handleGenerateQuiz)

	// User and onboarding
	mux.Handle("GET /api/user", required(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("POST /api/users/sync", required(http.HandlerFunc(s.handleSyncUser)))
	mux.Handle("PUT /api/user/profile", required(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("GET /api/user/onboarding", required(http.HandlerFunc(s.handleOnboardingStatus)))
	mux.Handle("GET /api/industry-insights", required(http.HandlerFunc(s.handleIndustryInsights)))

	// Assessments
	mux.Handle("POST /api/assessments", required(http.HandlerFunc(s.handleSaveAssessment)))
	mux.Handle("GET /api/assessments", optional(http.HandlerFunc(s.handleListAssessments)))
	mux.Handle("GET /api/assessments/summary", optional(http.HandlerFunc(s.handleAssessmentSummary)))

	return s.withRateLimit(s.withLogging(s.withCORS(allowedOrigin, mux)))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.log.Info("server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retry := int(info.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			s.errorResponse(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs method, path, status and latency of every request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}

// clientIP uses RemoteAddr only; forwarded headers are not trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.log.Warn("health check: database unreachable", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("encoding JSON response failed", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
