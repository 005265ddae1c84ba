package main

import (
	"context"
	"time"

	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/potent-zedlee/templar-archives/internal/cache"
	"github.com/potent-zedlee/templar-archives/internal/config"
	"github.com/potent-zedlee/templar-archives/internal/gemini"
	"github.com/potent-zedlee/templar-archives/internal/inference"
	"github.com/potent-zedlee/templar-archives/internal/logging"
	"github.com/potent-zedlee/templar-archives/internal/observability"
	"github.com/potent-zedlee/templar-archives/internal/pipeline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app holds the wired analysis stack for one command
type app struct {
	logger   zerolog.Logger
	analyzer *analyzer.Analyzer
	pipeline *pipeline.Pipeline
	closers  []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{logger: logging.WithComponent("app")}

	shutdown, err := observability.Init(ctx, log.Logger, observability.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Exporter:    cfg.Tracing.Exporter,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)

	client, err := gemini.New(ctx, log.Logger, gemini.Options{
		APIKey:   cfg.Gemini.APIKey,
		Backend:  cfg.Gemini.Backend,
		Project:  cfg.Gemini.Project,
		Location: cfg.Gemini.Location,
		Timeout:  cfg.Gemini.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	var gen inference.Generator = inference.NewTraced(client)
	gen = inference.NewRateLimited(gen, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var opts []analyzer.Option
	if cfg.Cache.Enabled {
		rc, err := cache.NewRedis(ctx, log.Logger, cache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			// analysis still works without the cache
			a.logger.Warn().Err(err).Msg("redis cache unavailable, continuing without it")
		} else {
			opts = append(opts, analyzer.WithCache(rc))
			a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
		}
	}

	a.analyzer = analyzer.New(log.Logger, gen, analyzer.Config{
		Model:             cfg.Gemini.Model,
		MaxSegmentSeconds: cfg.Analyzer.MaxSegmentSeconds,
		MaxAttempts:       cfg.Analyzer.MaxAttempts,
		BaseDelay:         cfg.Analyzer.BaseDelay,
		ChunkConcurrency:  cfg.Analyzer.ChunkConcurrency,
		MaxElapsed:        cfg.Analyzer.MaxElapsed,
	}, opts...)

	a.pipeline, err = pipeline.New(log.Logger, &pipeline.Config{Workers: cfg.Pipeline.Concurrency}, a.analyzer)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the cache connection and flushes pending spans
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn().Err(err).Msg("shutdown step failed")
		}
	}
}
