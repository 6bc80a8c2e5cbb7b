// Package api provides the HTTP API server and handlers for the games server.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/store"
)

// Version is reported by the health endpoint and the OpenAPI document.
const Version = "0.3.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	name        string
	store       *store.Store
	search      *search.SearchIndex
	services    *Services
	router      *chi.Mux
	api         huma.API
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(serverName string, store *store.Store, searchIndex *search.SearchIndex, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		name:        serverName,
		store:       store,
		search:      searchIndex,
		services:    services,
		router:      router,
		rateLimiter: NewRateLimiter(300, time.Minute, 60),
		logger:      logger,
	}

	// Middleware must be installed before humachi registers any routes;
	// chi panics if Use is called after a route exists.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(serverName, Version)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerGameRoutes()
	s.registerMetadataRoutes()
	s.registerSteamRoutes()
	s.registerSyncRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
}
