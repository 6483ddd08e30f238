// Package server wires the HTTP surface: REST API, audit event websocket,
// and health check.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/gosuda/sentinel/internal/api/ws"
	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/config"
	"github.com/gosuda/sentinel/internal/server/middleware"
	"github.com/gosuda/sentinel/internal/store/postgres"
	redisstore "github.com/gosuda/sentinel/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	svc        *audit.Service
	pubsub     *redisstore.PubSub
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. pubsub may be nil; the
// websocket watcher routes are only mounted when it is available.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, pubsub *redisstore.PubSub, svc *audit.Service) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	s := &Server{
		router: router,
		store:  store,
		svc:    svc,
		pubsub: pubsub,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst))

		apiConfig := huma.DefaultConfig("Sentinel API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, store, svc)
	})

	// WebSocket watcher routes, only when Redis fanout is available.
	if pubsub != nil {
		s.wsHub = ws.NewHub(pubsub)
		router.Route("/ws", func(r chi.Router) {
			registerWSRoutes(r, s.wsHub)
		})
	}

	// Health check.
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
