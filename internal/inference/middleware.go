package inference

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/potent-zedlee/templar-archives/internal/inference"

// RateLimited spaces out requests to stay under the provider's request quota
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token bucket. A non-positive rps
// disables limiting and returns next unchanged.
func NewRateLimited(next Generator, rps float64, burst int) Generator {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}
	return r.next.Generate(ctx, req)
}

// Traced records one span per inference call
type Traced struct {
	next   Generator
	tracer trace.Tracer
}

// NewTraced wraps next with spans from the global tracer provider
func NewTraced(next Generator) *Traced {
	return &Traced{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (t *Traced) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := t.tracer.Start(ctx, "inference.Generate",
		trace.WithAttributes(
			attribute.String("inference.model", req.Model),
			attribute.Int("inference.parts", len(req.Parts)),
		),
	)
	defer span.End()

	for _, p := range req.Parts {
		if p.IsFile() {
			span.SetAttributes(
				attribute.String("inference.file_uri", p.FileURI),
				attribute.Int64("inference.start_offset_s", int64(p.StartOffset.Seconds())),
				attribute.Int64("inference.end_offset_s", int64(p.EndOffset.Seconds())),
			)
		}
	}

	out, err := t.next.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("inference.error_kind", Classify(err).String()))
		return "", err
	}

	span.SetAttributes(attribute.Int("inference.response_bytes", len(out)))
	return out, nil
}
