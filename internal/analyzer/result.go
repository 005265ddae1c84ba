package analyzer

import (
	"encoding/json"
	"strings"
)

// Result messages reported to callers
const (
	MsgInvalidURL     = "invalid URL format"
	MsgParseFailed    = "could not parse JSON from response"
	MsgMaxRetries     = "max retries exceeded"
	MsgNotFound       = "video not found or not accessible (may be private or deleted)"
	MsgForbidden      = "video access forbidden (may be private or restricted)"
	MsgQuota          = "API quota exceeded - try again later"
	MsgTimeout        = "request timeout - video may be too long or server busy"
	rawResponseJoiner = "\n---\n"
	errorJoiner       = "; "
)

// Result is the outcome of analyzing one segment
type Result struct {
	Hands       []json.RawMessage
	RawResponse string
	Error       string
}

type resultJSON struct {
	Hands       []json.RawMessage `json:"hands"`
	RawResponse string            `json:"rawResponse"`
	Error       *string           `json:"error"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Hands:       r.Hands,
		RawResponse: r.RawResponse,
	}
	if out.Hands == nil {
		out.Hands = []json.RawMessage{}
	}
	if r.Error != "" {
		msg := r.Error
		out.Error = &msg
	}
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Hands = in.Hands
	r.RawResponse = in.RawResponse
	r.Error = ""
	if in.Error != nil {
		r.Error = *in.Error
	}
	return nil
}

// Failed reports whether the result carries an error
func (r Result) Failed() bool {
	return r.Error != ""
}

func errorResult(msg string) Result {
	return Result{Hands: []json.RawMessage{}, Error: msg}
}

// Merge combines chunk results in order: hands are concatenated, raw
// responses joined by a separator line, and non-empty errors joined by "; ".
func Merge(results []Result) Result {
	merged := Result{Hands: []json.RawMessage{}}
	raws := make([]string, 0, len(results))
	var errs []string

	for _, r := range results {
		merged.Hands = append(merged.Hands, r.Hands...)
		raws = append(raws, r.RawResponse)
		if r.Error != "" {
			errs = append(errs, r.Error)
		}
	}

	merged.RawResponse = strings.Join(raws, rawResponseJoiner)
	merged.Error = strings.Join(errs, errorJoiner)
	return merged
}
