package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BreakoutScanner/internal/scanner"
)

// ScanRunner runs one complete scan.
type ScanRunner interface {
	Run(ctx context.Context) *scanner.Result
}

// Server exposes the scan trigger over HTTP.
type Server struct {
	httpServer *http.Server
	runner     ScanRunner
	baseCtx    context.Context
	logger     zerolog.Logger
}

// New builds the server. Scans started by requests inherit values from
// baseCtx and stop when it is cancelled, but not when the client goes away.
func New(baseCtx context.Context, addr string, runner ScanRunner) *Server {
	s := &Server{
		runner:  runner,
		baseCtx: baseCtx,
		logger:  log.With().Str("component", "server").Logger(),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes returns the chi router serving the trigger endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, "ok")
	})
	r.Get("/execute_scan", s.handleScan)
	r.Post("/execute_scan", s.handleScan)
	r.Get("/", s.handleScan)
	r.Post("/", s.handleScan)
	return r
}

// handleScan runs a scan synchronously. The caller always gets 200 with the
// status text, including for aborted scans.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	stop := context.AfterFunc(s.baseCtx, cancel)
	defer stop()
	if s.baseCtx.Err() != nil {
		cancel()
	}

	res := s.runner.Run(ctx)
	s.logger.Info().
		Str("scan_id", res.ID).
		Str("state", string(res.State)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg(res.Summary())
	writeText(w, res.Summary())
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight scans.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
