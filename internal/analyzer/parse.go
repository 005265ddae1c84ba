package analyzer

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\r?\\n(.*?)\\r?\\n```")

var errNoJSON = errors.New(MsgParseFailed)

type handsPayload struct {
	Hands []json.RawMessage `json:"hands"`
}

// parseHands reads the "hands" array out of a model response. Models
// sometimes wrap JSON in a markdown fence despite the JSON response hint,
// so the first ```json block is tried when the body itself does not parse.
func parseHands(raw string) ([]json.RawMessage, error) {
	if hands, err := decodeHands(raw); err == nil {
		return hands, nil
	}

	m := fencedJSON.FindStringSubmatch(raw)
	if m == nil {
		return nil, errNoJSON
	}
	hands, err := decodeHands(m[1])
	if err != nil {
		return nil, errNoJSON
	}
	return hands, nil
}

func decodeHands(s string) ([]json.RawMessage, error) {
	var payload handsPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &payload); err != nil {
		return nil, err
	}
	if payload.Hands == nil {
		return []json.RawMessage{}, nil
	}
	return payload.Hands, nil
}
