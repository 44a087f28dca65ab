// Package server exposes the archive service over a local JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/particle"
	"github.com/runnerr0/badman-archive/internal/render"
)

const maxBodyBytes = 1 << 20

// Server wires the archive service to HTTP routes.
type Server struct {
	svc       *archive.Service
	renderer  *render.Renderer
	particles *particle.Spawner // nil when particles are disabled
	logger    *zap.Logger
	version   string
	started   time.Time
}

// New creates a Server. particles may be nil.
func New(svc *archive.Service, renderer *render.Renderer, particles *particle.Spawner, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		svc:       svc,
		renderer:  renderer,
		particles: particles,
		logger:    logger,
		version:   version,
		started:   time.Now(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/status", s.handleStatus)

	r.Route("/api", func(r chi.Router) {
		r.Get("/meta", s.handleMeta)
		r.Get("/phases", s.handlePhases)
		r.Get("/count", s.handleCount)
		r.Get("/entries", s.handleEntries)
		r.Get("/entries/{id}", s.handleEntry)
		r.Get("/citations/{key}", s.handleCitation)
		r.Get("/modalities/{modality}/color", s.handleModalityColor)
		r.Get("/labels", s.handleLabel)
		r.Post("/score", s.handleScore)

		r.Route("/view", func(r chi.Router) {
			r.Get("/", s.handleView)
			r.Put("/filter", s.handleSetFilter)
			r.Post("/welcome/start", s.handleWelcomeStart)
			r.Post("/welcome/dismiss", s.handleWelcomeDismiss)
		})

		r.Get("/particles", s.handleParticles)
	})

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("archive server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	s.logger.Info("archive server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func formatParam(r *http.Request) (render.Format, error) {
	name := r.URL.Query().Get("format")
	if name == "" {
		return render.HTML, nil
	}
	return render.ParseFormat(name)
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
