package analyzer

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/potent-zedlee/templar-archives/internal/segment"
	"golang.org/x/sync/errgroup"
)

// AnalyzeSegment validates the input, splits segments longer than the
// model window, analyzes every chunk and merges chunk results in order.
func (a *Analyzer) AnalyzeSegment(ctx context.Context, sourceURL string, seg segment.Segment, platform Platform) (res Result) {
	defer a.recoverInto(&res, seg)

	if !ValidSourceURL(sourceURL) {
		return errorResult(MsgInvalidURL)
	}
	if err := seg.Validate(); err != nil {
		return errorResult(err.Error())
	}

	chunks := segment.Split(seg, a.config.MaxSegmentSeconds)
	if len(chunks) == 1 {
		return a.analyzeChunk(ctx, sourceURL, seg, platform)
	}

	a.logger.Info().
		Str("segment", seg.String()).
		Int("duration_s", seg.Duration()).
		Int("chunks", len(chunks)).
		Msg("segment too long, splitting")

	results := make([]Result, len(chunks))
	var g errgroup.Group
	g.SetLimit(a.config.ChunkConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			results[i] = a.safeAnalyzeChunk(ctx, sourceURL, chunk, platform)
			return nil
		})
	}
	_ = g.Wait()

	return Merge(results)
}

func (a *Analyzer) safeAnalyzeChunk(ctx context.Context, sourceURL string, chunk segment.Segment, platform Platform) (res Result) {
	defer a.recoverInto(&res, chunk)
	return a.analyzeChunk(ctx, sourceURL, chunk, platform)
}

func (a *Analyzer) analyzeChunk(ctx context.Context, sourceURL string, chunk segment.Segment, platform Platform) Result {
	if a.cache == nil {
		return a.AnalyzeSingle(ctx, sourceURL, chunk, platform)
	}

	key := cacheKey(a.config.Model, sourceURL, chunk, platform)
	if cached, ok := a.cache.Get(ctx, key); ok {
		a.logger.Debug().Str("segment", chunk.String()).Msg("serving chunk from cache")
		return cached
	}

	res := a.AnalyzeSingle(ctx, sourceURL, chunk, platform)
	if !res.Failed() {
		a.cache.Set(ctx, key, res)
	}
	return res
}

func (a *Analyzer) recoverInto(res *Result, seg segment.Segment) {
	if r := recover(); r != nil {
		a.logger.Error().
			Str("segment", seg.String()).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("segment analysis panicked")
		*res = errorResult(fmt.Sprint(r))
	}
}
