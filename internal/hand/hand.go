package hand

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Hand is one extracted hand history as returned by the inference service.
// Scalars are kept as display text since the model emits numbers and
// strings ("2.5M", "225K") interchangeably.
type Hand struct {
	HandNumber     Value    `json:"handNumber,omitempty"`
	Stakes         Value    `json:"stakes,omitempty"`
	Pot            Value    `json:"pot,omitempty"`
	Board          Board    `json:"board"`
	Players        []Player `json:"players,omitempty"`
	Actions        []Action `json:"actions,omitempty"`
	Winners        []Winner `json:"winners,omitempty"`
	TimestampStart Value    `json:"timestampStart,omitempty"`
	TimestampEnd   Value    `json:"timestampEnd,omitempty"`
}

type Board struct {
	Flop  Cards `json:"flop,omitempty"`
	Turn  Value `json:"turn,omitempty"`
	River Value `json:"river,omitempty"`
}

type Player struct {
	Name      Value `json:"name"`
	Position  Value `json:"position,omitempty"`
	Seat      Value `json:"seat,omitempty"`
	StackSize Value `json:"stackSize,omitempty"`
	HoleCards Cards `json:"holeCards,omitempty"`
}

type Action struct {
	Player Value `json:"player"`
	Street Value `json:"street"`
	Action Value `json:"action"`
	Amount Value `json:"amount,omitempty"`
}

type Winner struct {
	Name   Value `json:"name"`
	Amount Value `json:"amount,omitempty"`
	Hand   Value `json:"hand,omitempty"`
}

// Value is a JSON scalar held as its display text. Numbers keep their
// literal form, strings are trimmed and null is empty.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		*v = Value(strings.TrimSpace(s))
		return nil
	case trimmed[0] == '{' || trimmed[0] == '[':
		return fmt.Errorf("decode value: unexpected %s", trimmed[:1])
	}

	// numbers and booleans
	var scalar any
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Value(trimmed)
	return nil
}

func (v Value) String() string {
	return string(v)
}

// Or returns v, or def when v is empty
func (v Value) Or(def string) string {
	if v == "" {
		return def
	}
	return string(v)
}

// Cards holds card codes. Models emit them as a list ("As","Kd"), a single
// string ("AsKd") or null, so all three decode.
type Cards []string

func (c *Cards) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []*string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode cards: %w", err)
		}
		out := make([]string, 0, len(list))
		for _, card := range list {
			if card != nil && *card != "" {
				out = append(out, *card)
			}
		}
		*c = out
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("decode cards: %w", err)
	}
	if single == "" {
		*c = nil
		return nil
	}
	*c = Cards{single}
	return nil
}

func (c Cards) String() string {
	return strings.Join(c, " ")
}

// Parse decodes one opaque hand record
func Parse(raw json.RawMessage) (Hand, error) {
	var h Hand
	if err := json.Unmarshal(raw, &h); err != nil {
		return Hand{}, fmt.Errorf("decode hand: %w", err)
	}
	return h, nil
}
