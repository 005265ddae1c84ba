package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/potent-zedlee/templar-archives/internal/inference"
	"github.com/potent-zedlee/templar-archives/internal/segment"
)

const videoMIMEType = "video/*"

func (a *Analyzer) segmentRequest(sourceURL string, seg segment.Segment, platform Platform) inference.Request {
	return inference.Request{
		Model: a.config.Model,
		Parts: []inference.Part{
			{
				FileURI:     sourceURL,
				MIMEType:    videoMIMEType,
				StartOffset: time.Duration(seg.Start) * time.Second,
				EndOffset:   time.Duration(seg.End) * time.Second,
			},
			{Text: segmentPrompt(platform, seg)},
		},
		Config: inference.Config{
			Temperature:      inference.Float32(0.1),
			TopP:             inference.Float32(0.95),
			TopK:             inference.Float32(40),
			MaxOutputTokens:  8192,
			ResponseMIMEType: "application/json",
		},
	}
}

// newBackOff waits BaseDelay * 2^attempt between attempts
func (a *Analyzer) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.config.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = a.config.BaseDelay << uint(a.config.MaxAttempts)
	b.Reset()
	return b
}

// retryOptions bounds the retry loop by the attempt budget. The library
// otherwise stops after 15 minutes of wall time, which includes time spent
// inside slow requests.
func (a *Analyzer) retryOptions(notify backoff.Notify) []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(a.newBackOff()),
		backoff.WithMaxTries(uint(a.config.MaxAttempts)),
		backoff.WithMaxElapsedTime(a.config.MaxElapsed),
		backoff.WithNotify(notify),
	}
}

// AnalyzeSingle analyzes a segment that fits in one request. Transient
// request failures are retried with exponential backoff; a response that
// cannot be parsed is reported as-is and never retried.
func (a *Analyzer) AnalyzeSingle(ctx context.Context, sourceURL string, seg segment.Segment, platform Platform) Result {
	if a.config.MaxAttempts < 1 {
		return errorResult(MsgMaxRetries)
	}

	log := a.logger.With().
		Str("segment", seg.String()).
		Str("platform", string(platform)).
		Logger()

	req := a.segmentRequest(sourceURL, seg, platform)
	attempt := 0

	raw, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		out, err := a.gen.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		if !inference.ShouldRetry(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}, a.retryOptions(func(err error, next time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", a.config.MaxAttempts).
			Dur("delay", next).
			Msg("retrying inference request")
	})...)
	if err != nil {
		log.Error().
			Err(err).
			Int("attempts", attempt).
			Str("kind", inference.Classify(err).String()).
			Msg("inference request failed")
		return errorResult(friendlyMessage(err))
	}

	hands, perr := parseHands(raw)
	if perr != nil {
		log.Warn().Int("response_bytes", len(raw)).Msg("could not parse model response")
		return Result{Hands: []json.RawMessage{}, RawResponse: raw, Error: MsgParseFailed}
	}

	log.Debug().Int("hands", len(hands)).Int("attempts", attempt).Msg("segment analyzed")
	return Result{Hands: hands, RawResponse: raw}
}

// friendlyMessage turns a request failure into a message for end users
func friendlyMessage(err error) string {
	var typed *inference.Error
	if errors.As(err, &typed) {
		switch typed.Kind {
		case inference.KindNotFound:
			return MsgNotFound
		case inference.KindForbidden:
			return MsgForbidden
		case inference.KindQuota:
			return MsgQuota
		case inference.KindTimeout:
			return MsgTimeout
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "404") || strings.Contains(lower, "not found"):
		return MsgNotFound
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		return MsgForbidden
	case strings.Contains(lower, "quota"):
		return MsgQuota
	case strings.Contains(lower, "timeout"):
		return MsgTimeout
	}
	return msg
}
