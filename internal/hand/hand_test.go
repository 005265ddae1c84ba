package hand

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHand = `{
  "handNumber": 7,
  "stakes": "50K/100K",
  "pot": 2500000,
  "board": {"flop": ["As", "Kh", "7d"], "turn": "2c", "river": null},
  "players": [
    {"name": "Negreanu", "position": "UTG", "holeCards": ["Ah", "Ad"]},
    {"name": "Ostash", "position": "BB", "holeCards": "9c5c"},
    {"name": "Mystery", "holeCards": null}
  ],
  "actions": [
    {"player": "Negreanu", "street": "preflop", "action": "raise", "amount": 300000},
    {"player": "Ostash", "street": "preflop", "action": "call"}
  ],
  "winners": [{"name": "Negreanu", "amount": 2500000, "hand": "Set of Aces"}]
}`

func TestParseAcceptsCardShapes(t *testing.T) {
	h, err := Parse(json.RawMessage(sampleHand))
	require.NoError(t, err)

	require.Len(t, h.Players, 3)
	assert.Equal(t, Cards{"Ah", "Ad"}, h.Players[0].HoleCards)
	assert.Equal(t, Cards{"9c5c"}, h.Players[1].HoleCards)
	assert.Nil(t, h.Players[2].HoleCards)
	assert.Equal(t, Cards{"As", "Kh", "7d"}, h.Board.Flop)
	assert.Empty(t, h.Board.River)
}

func TestParseAcceptsLooseScalars(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string pot", `{"pot":"2.5M"}`, "Pot: 2.5M"},
		{"string amount", `{"actions":[{"player":"Hero","street":"river","action":"bet","amount":"225K"}]}`, "- Hero: BET 225K (river)"},
		{"string hand number", `{"handNumber":"12"}`, "Hand #12"},
		{"float seat", `{"players":[{"name":"Hero","seat":1.0,"position":"BTN"}]}`, "- Hero (BTN): Unknown"},
		{"numeric stakes", `{"stakes":100000}`, "Stakes: 100000"},
		{"float winner amount", `{"winners":[{"name":"Hero","amount":1.5e6}]}`, "- Hero: Won (1.5e6)"},
		{"bool and null", `{"handNumber":null,"pot":true}`, "Pot: true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Parse(json.RawMessage(tt.body))
			require.NoError(t, err)
			assert.Contains(t, Describe(h), tt.want)
		})
	}
}

func TestValueDecoding(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`"  225K "`), &v))
	assert.Equal(t, Value("225K"), v)

	require.NoError(t, json.Unmarshal([]byte(`1.0`), &v))
	assert.Equal(t, "1.0", v.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.Equal(t, "fallback", v.Or("fallback"))

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &v))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(json.RawMessage(`{"players": 3}`))
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	h, err := Parse(json.RawMessage(sampleHand))
	require.NoError(t, err)

	desc := Describe(h)

	assert.Contains(t, desc, "Hand #7")
	assert.Contains(t, desc, "Stakes: 50K/100K")
	assert.Contains(t, desc, "Pot: 2500000")
	assert.Contains(t, desc, "- Negreanu (UTG): Ah Ad")
	assert.Contains(t, desc, "- Mystery (Unknown): Unknown")
	assert.Contains(t, desc, "Flop: As Kh 7d")
	assert.Contains(t, desc, "Turn: 2c")
	assert.Contains(t, desc, "River: N/A")
	assert.Contains(t, desc, "- Negreanu: RAISE 300000 (preflop)")
	assert.Contains(t, desc, "- Ostash: CALL (preflop)")
	assert.Contains(t, desc, "- Negreanu: Set of Aces (2500000)")
}

func TestDescribeEmptyHand(t *testing.T) {
	desc := Describe(Hand{})

	assert.Contains(t, desc, "Hand #N/A")
	assert.Contains(t, desc, "Stakes: Unknown")
	assert.Contains(t, desc, "Flop: N/A")
	assert.Contains(t, desc, "No actions recorded")
	assert.Contains(t, desc, "No winners recorded")
}

func TestDescribeCapsActions(t *testing.T) {
	h := Hand{}
	for i := 0; i < 15; i++ {
		h.Actions = append(h.Actions, Action{Player: "p", Street: "flop", Action: "check"})
	}

	desc := Describe(h)
	assert.Equal(t, MaxDescribedActions, strings.Count(desc, "- p: CHECK (flop)"))
}
