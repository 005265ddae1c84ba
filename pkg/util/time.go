package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds renders whole seconds as HH:MM:SS
func FormatSeconds(total int) string {
	if total < 0 {
		return "-" + FormatSeconds(-total)
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// ParseTimestamp parses a timestamp string (HH:MM:SS, MM:SS or SS) into
// whole seconds
func ParseTimestamp(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) > 3 || s == "" {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		// minutes and seconds fields after the first must stay below 60
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total = total*60 + n
	}
	return total, nil
}

// SegmentArg is a parsed "start-end[=Label]" argument
type SegmentArg struct {
	Start int
	End   int
	Label string
}

// ParseSegmentArg parses "HH:MM:SS-HH:MM:SS[=Label]". Either bound may use
// any ParseTimestamp form.
func ParseSegmentArg(s string) (SegmentArg, error) {
	rangePart, label, _ := strings.Cut(strings.TrimSpace(s), "=")
	from, to, ok := strings.Cut(rangePart, "-")
	if !ok {
		return SegmentArg{}, fmt.Errorf("invalid segment %q: want start-end[=label]", s)
	}

	start, err := ParseTimestamp(from)
	if err != nil {
		return SegmentArg{}, fmt.Errorf("invalid segment %q: %w", s, err)
	}
	end, err := ParseTimestamp(to)
	if err != nil {
		return SegmentArg{}, fmt.Errorf("invalid segment %q: %w", s, err)
	}

	return SegmentArg{Start: start, End: end, Label: strings.TrimSpace(label)}, nil
}
