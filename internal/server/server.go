// Package server exposes the pods service over a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /v1/pods/{name}                ?lang= &limit= &refresh=
//	GET  /v1/pods/{name}/installation   ?refresh=
//	GET  /v1/repos/{owner}/{repo}       ?lang= &limit= &refresh=
//	POST /v1/parse                      ?name= &lang= &limit=  (body: Markdown)
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// the status derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/podlens/pkg/pods"
)

const (
	// MaxDocumentSize bounds POST /v1/parse bodies.
	MaxDocumentSize = 1 << 20

	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Service is the subset of [pods.Service] the API needs.
type Service interface {
	LookupPod(ctx context.Context, name string, req pods.Request) (*pods.Result, error)
	LookupRepo(ctx context.Context, ref string, req pods.Request) (*pods.Result, error)
	ParseDocument(ctx context.Context, name, text string) *pods.Result
}

// Config holds HTTP server settings. Zero values use the defaults.
type Config struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Gatherer backs /metrics. Nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server serves the podlens API.
type Server struct {
	svc    Service
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a Server. It does not start listening.
func New(svc Service, logger *log.Logger, cfg Config) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: service is required")
	}
	if logger == nil {
		return nil, errors.New("server: logger is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{svc: svc, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Get("/pods/{name}", s.handlePod)
		r.Get("/pods/{name}/installation", s.handleInstallation)
		r.Get("/repos/{owner}/{repo}", s.handleRepo)
		r.Post("/parse", s.handleParse)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		}})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to cfg.ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("starting http server", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
