// Package server provides the HTTP REST API for the job board.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/assistant"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/cache"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/config"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/llm"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/rendering"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/server/middleware"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/server/ratelimit"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// Store is the persistence the handlers need. *db.DB implements it.
type Store interface {
	search.Annotator

	Ping(ctx context.Context) error
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)

	SearchJobListings(ctx context.Context, plan *search.Plan, page db.Page) (*db.SearchPage, error)
	GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error)
	ListEmployerJobListings(ctx context.Context, employerID uuid.UUID) ([]types.JobListing, error)
	CreateJobListing(ctx context.Context, employerID uuid.UUID, in *types.JobListingInput) (*types.JobListing, error)
	UpdateJobListing(ctx context.Context, id uuid.UUID, in *types.JobListingInput) (*types.JobListing, error)
	DeleteJobListing(ctx context.Context, id uuid.UUID) error

	CreateApplication(ctx context.Context, jobID, candidateID uuid.UUID, req *types.ApplyRequest) (*types.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	SetApplicationContract(ctx context.Context, id uuid.UUID, location string) error

	SaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error
}

var _ Store = (*db.DB)(nil)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	cache       *cache.SearchCache
	engine      *search.Engine
	assistant   *assistant.Assistant
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validate    *validator.Validate
	origin      string
	now         func() time.Time
	closers     []func()
}

// Deps are the collaborators of a Server. Cache and Assistant may be nil.
type Deps struct {
	Store         Store
	Cache         *cache.SearchCache
	Assistant     *assistant.Assistant
	JWT           *JWTService
	Limiter       *ratelimit.Limiter
	AllowedOrigin string
}

// New connects to the configured backing services and creates a server listening on cfg.Port.
// Redis and the model are optional; the server runs without them.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers := []func(){database.Close}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	var searchCache *cache.SearchCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[server] search cache disabled: %v", err)
		} else {
			searchCache = cache.New(rdb, cfg.CacheTTL())
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err = llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("[server] assistant disabled: %v", err)
			client = nil
		} else {
			closers = append(closers, func() { _ = client.Close() })
		}
	} else {
		log.Printf("[server] GEMINI_API_KEY not set, assistant endpoints will return 503")
	}
	contracts := assistant.DirStore{Dir: cfg.ContractDir}

	s := NewWithDeps(Deps{
		Store:         database,
		Cache:         searchCache,
		Assistant:     assistant.New(client, rendering.NewChromeRenderer(), contracts),
		JWT:           NewJWTService(jwtConfig),
		Limiter:       ratelimit.NewLimiter(ratelimit.LoadConfig()),
		AllowedOrigin: cfg.AllowedOrigin,
	})
	s.closers = closers
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // assistant calls and PDF rendering
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// NewWithDeps builds a server around existing collaborators without opening connections.
func NewWithDeps(d Deps) *Server {
	s := &Server{
		store:       d.Store,
		cache:       d.Cache,
		engine:      search.NewEngine(d.Store),
		assistant:   d.Assistant,
		rateLimiter: d.Limiter,
		jwtService:  d.JWT,
		validate:    newValidator(),
		origin:      d.AllowedOrigin,
		now:         time.Now,
	}
	if s.origin == "" {
		s.origin = config.DefaultAllowedOrigin
	}
	if s.assistant == nil {
		s.assistant = assistant.New(nil, nil, nil)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Listings
	mux.Handle("GET /jobs", s.optionalAuth(s.handleListJobs))
	mux.Handle("GET /jobs/{id}", s.optionalAuth(s.handleGetJob))
	mux.Handle("POST /jobs", s.requireAuth(s.handleCreateJob))
	mux.Handle("PUT /jobs/{id}", s.requireAuth(s.handleUpdateJob))
	mux.Handle("DELETE /jobs/{id}", s.requireAuth(s.handleDeleteJob))
	mux.Handle("GET /employer/jobs", s.requireAuth(s.handleListEmployerJobs))

	// Applications
	mux.Handle("POST /jobs/{id}/apply", s.requireAuth(s.handleApply))
	mux.Handle("GET /jobs/{id}/applications", s.requireAuth(s.handleListApplications))
	mux.Handle("GET /applications/{id}", s.requireAuth(s.handleGetApplication))
	mux.Handle("PATCH /applications/{id}/status", s.requireAuth(s.handleUpdateApplicationStatus))

	// Saved jobs
	mux.Handle("POST /jobs/{id}/save", s.requireAuth(s.handleSaveJob))
	mux.Handle("DELETE /jobs/{id}/save", s.requireAuth(s.handleUnsaveJob))

	// Assistant
	mux.Handle("POST /ai/job-post", s.requireAuth(s.handleGenerateJobPost))
	mux.Handle("POST /ai/blog-post", s.requireAuth(s.handleGenerateBlogPost))
	mux.Handle("POST /ai/candidate-bio", s.requireAuth(s.handleGenerateCandidateBio))
	mux.Handle("POST /ai/review-job-post", s.requireAuth(s.handleReviewJobPost))
	mux.Handle("POST /ai/recommend-candidates", s.requireAuth(s.handleRecommendCandidates))
	mux.Handle("POST /ai/contract", s.requireAuth(s.handleDraftContract))

	var h http.Handler = s.withCORS(mux)
	h = s.withLogging(h)
	if s.rateLimiter != nil {
		h = s.withRateLimit(h)
	}
	s.handler = h
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the limiter and backing connections.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) requireAuth(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

func (s *Server) optionalAuth(h http.HandlerFunc) http.Handler {
	return middleware.OptionalAuth(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exhausted their bucket for the route tier.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"cache":     s.cache != nil,
		"assistant": s.assistant.Enabled(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status with HTTPStatus and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// clientID identifies the client for rate limiting by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] limit exceeded: limit=%d remaining=%d", info.Limit, info.Remaining)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
