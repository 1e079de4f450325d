// Package server provides the HTTP server and routing for finsight.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/aristath/finsight/internal/events"
)

// RouteRegistrar mounts a module's routes under /api
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	QuickCheck(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	DB       HealthChecker
	Port     int
	DevMode  bool
	Version  string
	EventBus *events.Bus // Enables /api/events/ws when set
	Handlers []RouteRegistrar
	// Origin host patterns allowed to open event streams besides the server's own host.
	// Ignored in dev mode, which accepts any origin.
	OriginPatterns []string
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	db        HealthChecker
	port      int
	version   string
	started   time.Time
	bus       *events.Bus
	closing   chan struct{}
	closeOnce sync.Once
	compress  bool
	handlers  []RouteRegistrar
	accept    *websocket.AcceptOptions
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		db:       cfg.DB,
		port:     cfg.Port,
		version:  version,
		started:  time.Now(),
		bus:      cfg.EventBus,
		closing:  make(chan struct{}),
		handlers: cfg.Handlers,
		accept:   &websocket.AcceptOptions{OriginPatterns: cfg.OriginPatterns},
	}
	if cfg.DevMode {
		s.accept = &websocket.AcceptOptions{InsecureSkipVerify: true}
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	// No WriteTimeout: event streams are long-lived and request routes are bounded
	// by the Timeout middleware
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Router exposes the root handler
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.compress = !devMode
}

// requestScoped applies the middleware of short request/response routes.
// Long-lived streams are registered outside it.
func (s *Server) requestScoped(r chi.Router) {
	// Timeout
	r.Use(middleware.Timeout(60 * time.Second))

	// Compress responses
	if s.compress {
		r.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		s.requestScoped(r)
		r.Get("/health", s.handleHealth)
	})

	s.router.Route("/api", func(r chi.Router) {
		if s.bus != nil {
			r.Get("/events/ws", NewEventsStreamHandler(s.bus, s.closing, s.accept, s.log).ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			s.requestScoped(r)
			r.Get("/system/stats", s.handleSystemStats)

			for _, h := range s.handlers {
				h.RegisterRoutes(r)
			}
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	// Hijacked websocket connections are not tracked by http.Server
	s.closeOnce.Do(func() { close(s.closing) })
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
