package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/agenda-vta/internal/dashboard"
	"github.com/ziadkadry99/agenda-vta/internal/notifications"
	"github.com/ziadkadry99/agenda-vta/internal/reports"
	"github.com/ziadkadry99/agenda-vta/internal/web"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string // nil allows localhost only
}

// Deps are the feature packages mounted on the router. Pages is required.
type Deps struct {
	Pages         *web.Handler
	Dashboard     *dashboard.Dashboard
	Notifications *notifications.Store
	Reports       *reports.Exporter
}

// Server is the navigator HTTP server.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with every feature route mounted.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.AllowedOrigins
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	pages := s.deps.Pages
	r.Group(func(r chi.Router) {
		r.Use(pages.ClientMiddleware)

		// The stats endpoint stays open for the in-process poller and
		// for `agendavta watch`.
		if s.deps.Dashboard != nil {
			s.deps.Dashboard.RegisterPublicRoutes(r)
		}
		pages.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(pages.RequireSession)
			pages.RegisterPageRoutes(r)
			if s.deps.Dashboard != nil {
				s.deps.Dashboard.RegisterRoutes(r)
			}
			if s.deps.Notifications != nil {
				notifications.RegisterRoutes(r, s.deps.Notifications, notifications.NewRenderer())
			}
			if s.deps.Reports != nil {
				reports.RegisterRoutes(r, s.deps.Reports)
			}
		})
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Agenda VTA listening", "addr", addr, "mode", s.deps.Pages.Table().Mode(), "component", "Server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
