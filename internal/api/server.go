// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// ScanServiceInterface defines the interface for scan operations
type ScanServiceInterface interface {
	Scan(ctx context.Context, address string) (*types.UserGenesisData, error)
	GetProfile(ctx context.Context, address string) (*types.UserGenesisData, error)
}

// LeaderboardServiceInterface defines the interface for leaderboard operations
type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, n int, highlight string) (*types.Leaderboard, error)
	GetLeaderboardWithProfile(ctx context.Context, n int, profile *models.WalletProfile) (*types.Leaderboard, error)
}

// Pinger reports reachability of a backing component.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP API server.
type Server struct {
	router             *mux.Router
	httpServer         *http.Server
	scanService        ScanServiceInterface
	leaderboardService LeaderboardServiceInterface
	components         map[string]Pinger
	config             *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int
	PaidTierRPS     int
}

// NewServer creates a new API server instance. components maps a name
// ("postgres", "redis", "clickhouse") to a pingable backend for health checks;
// nil entries are skipped.
func NewServer(
	config *ServerConfig,
	scanService ScanServiceInterface,
	leaderboardService LeaderboardServiceInterface,
	components map[string]Pinger,
) *Server {
	s := &Server{
		router:             mux.NewRouter(),
		scanService:        scanService,
		leaderboardService: leaderboardService,
		components:         components,
		config:             config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Middleware order matters: logging first, recovery before handlers,
	// rate limiting after CORS so preflights are never throttled.
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scan", s.handleScan).Methods("POST")
	api.HandleFunc("/profiles/{address}", s.handleGetProfile).Methods("GET")
	api.HandleFunc("/leaderboard", s.handleGetLeaderboard).Methods("GET")

	// Preflight requests must match a route for the middleware chain to run;
	// the CORS middleware answers them before any handler.
	s.router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(http.ResponseWriter, *http.Request) {})
}

// Router returns the configured router, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// handleHealth handles GET /health. A degraded enrichment backend (redis,
// clickhouse) reports as degraded, not down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := make(map[string]string, len(s.components))
	healthy := true

	for name, component := range s.components {
		if component == nil {
			statuses[name] = "disabled"
			continue
		}
		if err := component.Ping(r.Context()); err != nil {
			statuses[name] = "unreachable"
			if name == "postgres" {
				healthy = false
			}
			continue
		}
		statuses[name] = "ok"
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": statuses,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
