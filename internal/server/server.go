// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/potent-zedlee/templar-archives/internal/pipeline"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 15 * time.Second

// Options configures the HTTP server
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	CORSOrigins       []string
	ServiceName       string
}

// Server serves the analyze, summary and health endpoints
type Server struct {
	logger   zerolog.Logger
	opts     Options
	pipeline *pipeline.Pipeline
	analyzer *analyzer.Analyzer
	engine   *gin.Engine
}

// New creates a server. The pipeline handles batches; the analyzer is used
// directly for hand summaries.
func New(logger zerolog.Logger, opts Options, p *pipeline.Pipeline, a *analyzer.Analyzer) (*Server, error) {
	if p == nil || a == nil {
		return nil, errors.New("pipeline and analyzer are required")
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "hae"
	}

	s := &Server{
		logger:   logger.With().Str("component", "server").Logger(),
		opts:     opts,
		pipeline: p,
		analyzer: a,
	}
	s.engine = s.router()
	return s, nil
}

// Handler returns the gin engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(otelgin.Middleware(s.opts.ServiceName))
	r.Use(RequestID())
	r.Use(AccessLog(s.logger))
	r.Use(gin.CustomRecovery(s.recoverPanic))
	r.Use(CORS(s.opts.CORSOrigins))

	r.GET("/healthz", s.health)

	api := r.Group("/api/hae")
	{
		api.GET("/analyze", s.health)
		api.POST("/analyze", s.analyze)
		api.POST("/summary", s.summary)
	}

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error().
		Interface("panic", recovered).
		Str("request_id", c.GetString(requestIDKey)).
		Msg("handler panicked")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   fmt.Sprint(recovered),
	})
}
