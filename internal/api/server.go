// Package api exposes the task and person services over REST/JSON.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/service"
)

// PersonRoots are the path prefixes the person resource is mounted under.
var PersonRoots = []string{"/api/Personen", "/api/v1/Personen"}

type Server struct {
	tasks   *service.Tasks
	persons *service.Persons
	log     *slog.Logger
	metrics *metrics
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRegistry registers the HTTP metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.metrics = newMetrics(reg) }
}

func New(tasks *service.Tasks, persons *service.Persons, opts ...Option) *Server {
	s := &Server{tasks: tasks, persons: persons, log: logging.Logger()}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}
	s.handler = s.instrument(s.routes())
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	for _, root := range PersonRoots {
		mux.HandleFunc("GET "+root, s.handleListPersons)
		mux.HandleFunc("POST "+root, s.handleCreatePerson(root))
		mux.HandleFunc("GET "+root+"/{id}", s.handleGetPerson)
		mux.HandleFunc("PUT "+root+"/{id}", s.handleUpdatePerson)
		mux.HandleFunc("DELETE "+root+"/{id}", s.handleDeletePerson)
	}
	return mux
}

// Handler returns the instrumented HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errc <- server.Shutdown(sctx)
	}()

	s.log.Info("listening", logging.KeyAddr, addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errc
}
