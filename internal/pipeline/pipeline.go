package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs segment batches through the analyzer
type Pipeline struct {
	logger   zerolog.Logger
	config   *Config
	analyzer *analyzer.Analyzer
}

// New creates a new pipeline instance
func New(logger zerolog.Logger, cfg *Config, a *analyzer.Analyzer) (*Pipeline, error) {
	if a == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if cfg == nil {
		cfg = &Config{Workers: 1}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Pipeline{
		logger:   logger.With().Str("component", "pipeline").Logger(),
		config:   cfg,
		analyzer: a,
	}, nil
}

// Analyze analyzes every segment and returns one result per input segment,
// in input order. A failing segment yields an error result; the rest of the
// batch still runs.
func (p *Pipeline) Analyze(ctx context.Context, opts AnalyzeOptions) []analyzer.Result {
	start := time.Now()
	platform := opts.Platform
	if platform == "" {
		platform = analyzer.PlatformEPT
	}

	p.logger.Info().
		Str("source", opts.SourceURL).
		Str("platform", string(platform)).
		Int("segments", len(opts.Segments)).
		Int("workers", p.config.Workers).
		Msg("starting analysis batch")

	results := make([]analyzer.Result, len(opts.Segments))
	var g errgroup.Group
	g.SetLimit(p.config.Workers)
	for i, in := range opts.Segments {
		g.Go(func() error {
			results[i] = p.analyzer.AnalyzeSegment(ctx, opts.SourceURL, in.Segment(), platform)
			return nil
		})
	}
	_ = g.Wait()

	hands, failed := 0, 0
	for _, r := range results {
		hands += len(r.Hands)
		if r.Failed() {
			failed++
		}
	}

	p.logger.Info().
		Int("segments", len(results)).
		Int("hands", hands).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("analysis batch complete")

	return results
}
