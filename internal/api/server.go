// Package api provides the HTTP API server and handlers for the poezja
// server. Read endpoints are public; everything under /admin requires
// the admin bearer token.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/poezjaapp/poezja-server/internal/http/response"
	"github.com/poezjaapp/poezja-server/internal/ratelimit"
	"github.com/poezjaapp/poezja-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Poem       *service.PoemService
	Slam       *service.SlamService
	Tetrastych *service.TetrastychService
	Stats      *service.StatsService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	viewRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates an HTTP server with all routes configured.
// viewLimiter throttles the public view tracker per client IP.
func NewServer(services *Services, viewLimiter *ratelimit.KeyedRateLimiter, name, version string, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig(name, version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		viewRateLimiter: viewLimiter,
	}

	s.setupPlainRoutes()
	s.registerAuthRoutes()
	s.registerPoemRoutes()
	s.registerTagRoutes()
	s.registerSlamRoutes()
	s.registerTetrastychRoutes()
	s.registerStatsRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupPlainRoutes wires the routes that bypass the typed API surface:
// the health probe and the rate-limited view tracker.
func (s *Server) setupPlainRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.viewRateLimiter, s.logger))
		r.Post("/api/v1/views", s.handleRecordView)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
