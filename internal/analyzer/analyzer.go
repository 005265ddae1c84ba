// Package analyzer turns video segments into hand-history records by
// prompting a multimodal model and repairing what comes back.
//
// Long segments are split into chunks no longer than the model's window,
// each chunk is analyzed with bounded retries, and chunk results are merged
// back in order. Every failure is reported as a Result with an error string;
// nothing panics or returns a Go error to the caller.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/potent-zedlee/templar-archives/internal/inference"
	"github.com/potent-zedlee/templar-archives/internal/segment"
	"github.com/rs/zerolog"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// Config tunes analysis behavior
type Config struct {
	Model             string
	MaxSegmentSeconds int
	MaxAttempts       int
	BaseDelay         time.Duration
	ChunkConcurrency  int

	// MaxElapsed caps the total time spent retrying one chunk. Zero leaves
	// MaxAttempts as the only bound.
	MaxElapsed time.Duration
}

func DefaultConfig() Config {
	return Config{
		Model:             DefaultModel,
		MaxSegmentSeconds: segment.MaxDuration,
		MaxAttempts:       3,
		BaseDelay:         2 * time.Second,
		ChunkConcurrency:  1,
	}
}

// Cache stores per-chunk results between calls
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool)
	Set(ctx context.Context, key string, result Result)
}

// Option customizes an Analyzer
type Option func(*Analyzer)

// WithCache serves repeated chunk analyses from c
func WithCache(c Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// Analyzer extracts hands from video segments through an inference Generator
type Analyzer struct {
	logger zerolog.Logger
	gen    inference.Generator
	cache  Cache
	config Config
}

// New creates an analyzer. Zero config fields take their defaults.
func New(logger zerolog.Logger, gen inference.Generator, cfg Config, opts ...Option) *Analyzer {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxSegmentSeconds <= 0 {
		cfg.MaxSegmentSeconds = def.MaxSegmentSeconds
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.ChunkConcurrency < 1 {
		cfg.ChunkConcurrency = def.ChunkConcurrency
	}

	a := &Analyzer{
		logger: logger.With().Str("component", "analyzer").Logger(),
		gen:    gen,
		config: cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// cacheKey covers every input that changes the request: model, platform
// prompt, window, label and source
func cacheKey(model, sourceURL string, seg segment.Segment, platform Platform) string {
	return fmt.Sprintf("hae:%s:%s:%d-%d:%s:%s", model, platform, seg.Start, seg.End, seg.Label, sourceURL)
}
