// Package server exposes the transport service over HTTP.
//
// Routes keep the paths and JSON field names of the original web service so
// existing front ends work unchanged:
//
//	GET    /                                  status
//	POST   /solve/                            create a task
//	GET    /solve/{id}                        full task
//	PUT    /solve/{id}                        partial update
//	DELETE /solve/{id}                        delete
//	POST   /solve/{id}/optimize/stepping-stone optimize a task
//	GET    /tasks/                            summaries, newest first
//	GET    /tasks/recent                      recently modified summaries
//	GET    /tasks/{id}                        one summary
//	POST   /compute/initial                   stateless initial plan
//	POST   /compute/optimize                  stateless stepping-stone
//	POST   /compute/verify                    compare a plan with the optimum
//	GET    /metrics                           Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tafitantsu/Transport-cost/internal/config"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Config    config.ServerConfig
	StoreName string   // reported by the status route
	Metrics   *Metrics // nil disables /metrics
	Logger    *log.Logger
}

// Server is the HTTP front end of a service.
type Server struct {
	svc       *service.Service
	cfg       config.ServerConfig
	storeName string
	metrics   *Metrics
	logger    *log.Logger
	router    chi.Router
}

// New builds the router for svc.
func New(svc *service.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		svc:       svc,
		cfg:       opts.Config,
		storeName: opts.StoreName,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(s.cfg.AllowedOrigins))

	r.Get("/", s.handleStatus)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/solve", func(r chi.Router) {
		r.Post("/", s.handleCreateTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTask)
			r.Put("/", s.handleUpdateTask)
			r.Delete("/", s.handleDeleteTask)
			r.Post("/optimize/stepping-stone", s.handleOptimizeTask)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Get("/recent", s.handleRecentTasks)
		r.Get("/{id}", s.handleTaskSummary)
	})

	r.Route("/compute", func(r chi.Router) {
		r.Post("/initial", s.handleComputeInitial)
		r.Post("/optimize", s.handleComputeOptimize)
		r.Post("/verify", s.handleComputeVerify)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
		IdleTimeout:  s.cfg.IdleTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
