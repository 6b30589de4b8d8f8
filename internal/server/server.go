// Package server exposes atlas builds over HTTP.
//
// Builds run in the background; clients submit a job and poll it:
//
//	POST   /v1/jobs        submit a build, 202 with the queued job
//	GET    /v1/jobs        list known jobs
//	GET    /v1/jobs/{id}   job status, progress and result
//	DELETE /v1/jobs/{id}   cancel a running job or forget a finished one
//	GET    /healthz        liveness and build info
//
// Input and output paths in job requests are paths on the server host.
// Errors are returned as {"code": "...", "message": "..."}.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flipbook/pkg/jobs"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// Server runs atlas builds for HTTP clients.
type Server struct {
	runner   *pipeline.Runner
	store    jobs.Store
	logger   *log.Logger
	defaults pipeline.Options
	ttl      time.Duration
	now      func() time.Time

	// ctx outlives individual requests; builds are canceled with it.
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks map[string]*pipeline.Task
	wg    sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options that job requests are decoded on top of.
// A request that omits "frames" gets opts.Frames, or DefaultFrames when
// that is zero; an explicit "frames": 0 is rejected.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) {
		if opts.Frames == 0 {
			opts.Frames = pipeline.DefaultFrames
		}
		s.defaults = opts
	}
}

// WithJobTTL sets how long finished jobs are kept (default jobs.DefaultTTL).
func WithJobTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New creates a server. A nil store uses an in-memory store; a nil logger
// uses log.Default().
func New(runner *pipeline.Runner, store jobs.Store, logger *log.Logger, opts ...Option) *Server {
	if store == nil {
		store = jobs.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		runner:   runner,
		store:    store,
		logger:   logger,
		defaults: pipeline.DefaultOptions(),
		ttl:      jobs.DefaultTTL,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		tasks:    make(map[string]*pipeline.Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/jobs", func(r chi.Router) {
		r.Post("/", s.handleCreateJob)
		r.Get("/", s.handleListJobs)
		r.Get("/{id}", s.handleGetJob)
		r.Delete("/{id}", s.handleDeleteJob)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully: it stops accepting requests, cancels running builds and
// waits for them to record their outcome.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Shutdown()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Shutdown()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown cancels all running builds and waits for them to finish.
func (s *Server) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

// janitor periodically drops expired jobs from the store.
func (s *Server) janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("job cleanup failed", "error", err)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
