package analyzer

import (
	"fmt"
	"strings"

	"github.com/potent-zedlee/templar-archives/internal/segment"
)

// Platform selects the broadcast-specific extraction prompt
type Platform string

const (
	PlatformEPT    Platform = "ept"
	PlatformTriton Platform = "triton"
)

// ParsePlatform normalizes user input. Empty input means EPT.
func ParsePlatform(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PlatformEPT
	}
	return p
}

const handSchema = `{
  "hands": [
    {
      "handNumber": 1,
      "stakes": "SB/BB",
      "pot": 2500000,
      "board": {"flop": ["As", "Kh", "7d"], "turn": "2c", "river": "Jh"},
      "players": [
        {"name": "Player Name", "position": "BTN", "seat": 1, "stackSize": 5000000, "holeCards": ["Ah", "Kd"]}
      ],
      "actions": [
        {"player": "Player Name", "street": "preflop", "action": "raise", "amount": 225000}
      ],
      "winners": [
        {"name": "Player Name", "amount": 2500000, "hand": "Two Pair, Aces and Kings"}
      ],
      "timestampStart": "05:30",
      "timestampEnd": "08:45"
    }
  ]
}`

const extractionRules = `## Card Notation
Rank + suit, ranks A K Q J T 9-2, suits h d c s (e.g. "As", "Th").

## Positions
BTN, SB, BB, UTG, MP, CO, HJ.

## Actions
fold, check, call, bet, raise, all-in.

## Rules
1. Extract EVERY hand shown in the video.
2. Include MM:SS timestamps for each hand.
3. Set holeCards to null when they are not shown.
4. Set unplayed board streets to null.
5. List all visible actions in order.
6. All amounts are numbers, not strings.

Return ONLY the JSON object, no additional text or explanation.`

var eptPrompt = `You are a professional poker hand history extractor specializing in EPT (European Poker Tour) broadcasts.

## Your Task
Analyze this poker video and extract ALL complete hands that are shown.
Stakes use the format "SB/BB" (e.g. "50K/100K").

## Output Format
Return ONLY a valid JSON object with the following structure:
` + handSchema + "\n\n" + extractionRules

var tritonPrompt = `You are a professional poker hand history extractor specializing in Triton Poker and high-stakes broadcasts.

## Your Task
Analyze this poker video and extract ALL complete hands that are shown.
Stakes use the format "SB/BB/ANTE" (e.g. "100K/200K/200K").

## Output Format
Return ONLY a valid JSON object with the following structure:
` + handSchema + "\n\n" + extractionRules

// promptFor returns the EPT template for "ept" and the Triton template otherwise
func promptFor(p Platform) string {
	if p == PlatformEPT {
		return eptPrompt
	}
	return tritonPrompt
}

func segmentPrompt(p Platform, seg segment.Segment) string {
	return fmt.Sprintf(`%s

Segment: %ds - %ds (%d minutes)
Label: %s

Please analyze this poker video segment and extract all hand histories in the specified JSON format.`,
		promptFor(p), seg.Start, seg.End, seg.Duration()/60, seg.Label)
}

const summaryTemplate = `Summarize this poker hand in exactly 2-3 engaging sentences. Focus on:
1. Key preflop action (if significant)
2. Critical decision points on flop/turn/river
3. Final outcome and winner

Be concise, clear, and exciting. Use poker terminology appropriately.

Hand Data:
%s

Example style:
"Daniel Negreanu raises AsAd from UTG to 300k. Flop comes Ah9d3c giving him top set. He bets 125k, gets called by OSTASH with 9c5c. Turn As gives Negreanu quads and he wins a 2.4M pot."

Your summary:`

func summaryPrompt(description string) string {
	return fmt.Sprintf(summaryTemplate, description)
}
