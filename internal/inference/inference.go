// Package inference defines the boundary to the multimodal model service.
//
// Callers build a Request out of content parts (a time-bounded video
// reference plus a text prompt) and a generation config, and hand it to a
// Generator. Errors coming back across this boundary are categorized into
// a Kind so retry decisions do not depend on where the error came from.
package inference

import (
	"context"
	"time"
)

// Part is one piece of request content: either text or a file reference
type Part struct {
	Text string

	FileURI  string
	MIMEType string

	// StartOffset and EndOffset bound the portion of a video file the model
	// should look at. Zero values mean the whole file.
	StartOffset time.Duration
	EndOffset   time.Duration
}

// IsFile reports whether the part references a file rather than carrying text
func (p Part) IsFile() bool {
	return p.FileURI != ""
}

// Config is the generation configuration bag sent with a request
type Config struct {
	Temperature      *float32
	TopP             *float32
	TopK             *float32
	MaxOutputTokens  int32
	ResponseMIMEType string
}

// Request is a single generation call
type Request struct {
	Model  string
	Parts  []Part
	Config Config
}

// Generator produces the text payload for a request
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Float32 returns a pointer to v, for optional Config fields
func Float32(v float32) *float32 {
	return &v
}
