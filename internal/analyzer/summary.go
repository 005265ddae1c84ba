package analyzer

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/potent-zedlee/templar-archives/internal/hand"
	"github.com/potent-zedlee/templar-archives/internal/inference"
)

const (
	MsgSummaryUnavailable = "Hand summary not available"
	MsgSummaryFailed      = "summary generation failed"

	maxSummaryLength = 500
	summaryEllipsis  = "..."
)

// Summarize asks the model for a 2-3 sentence description of a hand.
// It always returns display text; failures become a placeholder.
func (a *Analyzer) Summarize(ctx context.Context, h hand.Hand) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("hand summary panicked")
			summary = MsgSummaryFailed
		}
	}()

	req := inference.Request{
		Model: a.config.Model,
		Parts: []inference.Part{{Text: summaryPrompt(hand.Describe(h))}},
		Config: inference.Config{
			Temperature:     inference.Float32(0.7),
			MaxOutputTokens: 256,
		},
	}

	out, err := a.gen.Generate(ctx, req)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to generate hand summary")
		return MsgSummaryFailed
	}

	return finishSummary(out)
}

// finishSummary trims model output and caps it at 500 characters
func finishSummary(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return MsgSummaryUnavailable
	}
	if utf8.RuneCountInString(s) <= maxSummaryLength {
		return s
	}

	keep := maxSummaryLength - len(summaryEllipsis)
	runes := []rune(s)
	return string(runes[:keep]) + summaryEllipsis
}
