// Package server exposes the render engine over HTTP.
//
// Routes:
//
//	GET  /healthz    liveness and build version
//	POST /v1/render  render one variant of a source image and return its bytes
//
// Source images are resolved inside a fixed source directory; requests
// cannot name files outside it.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/assetforge/pkg/cache"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/render"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultRequestTimeout  = 2 * time.Minute

	// maxBodyBytes bounds a render request body.
	maxBodyBytes = 1 << 20
)

// Config configures a Server.
type Config struct {
	Addr      string
	SourceDir string

	// Validation bounds source images. Zero fields use config.Default().
	Validation config.Validation
}

// Server serves the render API.
type Server struct {
	cfg     Config
	engine  *render.Engine
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	httpSrv *http.Server
}

// New builds a server. A nil cache disables caching and a nil keyer uses
// cache.DefaultKeyer.
func New(cfg Config, engine *render.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if engine == nil {
		engine = render.NewEngine(nil, nil, logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if cfg.Validation == (config.Validation{}) {
		cfg.Validation = config.Default().Source.Validation
	}
	return &Server{cfg: cfg, engine: engine, cache: c, keyer: keyer, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", s.cfg.Addr, "sources", s.cfg.SourceDir)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
