// Package server exposes the dashboard over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gmllt/organizeu/internal/dashboard"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Server serializes every API call through one mutex: the dashboard has a
// single logical thread of execution.
type Server struct {
	cfg      Config
	app      *dashboard.App
	mu       sync.Mutex
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics
	router   *mux.Router
}

func New(app *dashboard.App, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		app:      app,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	s.metrics = newMetrics(s.registry, s.entryCounts)
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, s.accessLog, s.metrics.instrument)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.locked(s.getDashboard)).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.locked(s.getCalendar)).Methods(http.MethodGet)

	api.HandleFunc("/modules", s.locked(s.listModules)).Methods(http.MethodGet)
	api.HandleFunc("/modules", s.locked(s.addModule)).Methods(http.MethodPost)
	api.HandleFunc("/modules/{index:[0-9]+}", s.locked(s.removeModule)).Methods(http.MethodDelete)

	api.HandleFunc("/todos", s.locked(s.listTodos)).Methods(http.MethodGet)
	api.HandleFunc("/todos", s.locked(s.addTodo)).Methods(http.MethodPost)
	api.HandleFunc("/todos/{index:[0-9]+}", s.locked(s.removeTodo)).Methods(http.MethodDelete)
	api.HandleFunc("/todos/{index:[0-9]+}/toggle", s.locked(s.toggleTodo)).Methods(http.MethodPost)

	api.HandleFunc("/credits", s.locked(s.listCredits)).Methods(http.MethodGet)
	api.HandleFunc("/credits", s.locked(s.addCredit)).Methods(http.MethodPost)
	api.HandleFunc("/credits/{index:[0-9]+}", s.locked(s.removeCredit)).Methods(http.MethodDelete)

	api.HandleFunc("/assignments", s.locked(s.listAssignments)).Methods(http.MethodGet)
	api.HandleFunc("/assignments", s.locked(s.addAssignment)).Methods(http.MethodPost)
	api.HandleFunc("/assignments/{index:[0-9]+}", s.locked(s.removeAssignment)).Methods(http.MethodDelete)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if s.cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return r
}

func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

func (s *Server) entryCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		dashboard.KeyModules:     s.app.Modules.Len(),
		dashboard.KeyTodos:       s.app.Todos.Len(),
		dashboard.KeyCredits:     s.app.Credits.Len(),
		dashboard.KeyAssignments: s.app.Assignments.Len(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("Dashboard server starting", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("Dashboard server stopping")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
