package segment

import (
	"errors"
	"fmt"
)

// MaxDuration is the longest span, in seconds, sent in a single inference request
const MaxDuration = 3600

// DefaultLabel is used when a segment is created without a label
const DefaultLabel = "Gameplay"

// ErrInvalidRange is returned for segments with a negative start or a non-positive duration
var ErrInvalidRange = errors.New("invalid segment time range")

// Segment represents a [Start, End) time range of a source video in whole seconds
type Segment struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// New creates a segment, falling back to DefaultLabel for an empty label
func New(start, end int, label string) Segment {
	if label == "" {
		label = DefaultLabel
	}
	return Segment{Start: start, End: end, Label: label}
}

// Duration returns the segment length in seconds
func (s Segment) Duration() int {
	return s.End - s.Start
}

// Validate checks start >= 0 and end > start
func (s Segment) Validate() error {
	if s.Start < 0 || s.End <= s.Start {
		return ErrInvalidRange
	}
	return nil
}

func (s Segment) String() string {
	return fmt.Sprintf("%s [%ds-%ds]", s.Label, s.Start, s.End)
}

// Split divides a segment into contiguous chunks of at most max seconds.
// A segment that already fits is returned as the only element.
func Split(s Segment, max int) []Segment {
	if max <= 0 || s.Duration() <= max {
		return []Segment{s}
	}

	chunks := make([]Segment, 0, (s.Duration()+max-1)/max)
	for cursor := s.Start; cursor < s.End; {
		end := cursor + max
		if end > s.End {
			end = s.End
		}
		chunks = append(chunks, Segment{Start: cursor, End: end, Label: s.Label})
		cursor = end
	}

	return chunks
}
