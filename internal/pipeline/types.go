package pipeline

import (
	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/potent-zedlee/templar-archives/internal/segment"
)

// SegmentInput is a caller-supplied segment before validation
type SegmentInput struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label,omitempty"`
}

// Segment converts the input into a segment value
func (in SegmentInput) Segment() segment.Segment {
	return segment.New(in.Start, in.End, in.Label)
}

// AnalyzeOptions configures one batch run
type AnalyzeOptions struct {
	SourceURL string
	Segments  []SegmentInput
	Platform  analyzer.Platform
}

// Config holds pipeline-specific configuration
type Config struct {
	// Workers bounds how many segments are analyzed at once. 1 keeps the
	// batch strictly sequential.
	Workers int
}
