package hand

import (
	"fmt"
	"strings"
)

// MaxDescribedActions caps how many actions are rendered into a description
const MaxDescribedActions = 10

// Describe renders a hand as the plain-text block embedded in summary prompts
func Describe(h Hand) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hand #%s\n", h.HandNumber.Or("N/A"))
	fmt.Fprintf(&b, "Stakes: %s\n", h.Stakes.Or("Unknown"))
	fmt.Fprintf(&b, "Pot: %s\n\n", h.Pot.Or("0"))

	b.WriteString("Players:\n")
	for _, p := range h.Players {
		cards := p.HoleCards.String()
		if cards == "" {
			cards = "Unknown"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", p.Name, p.Position.Or("Unknown"), cards)
	}

	b.WriteString("\nBoard:\n")
	fmt.Fprintf(&b, "Flop: %s\n", orNA(h.Board.Flop.String()))
	fmt.Fprintf(&b, "Turn: %s\n", h.Board.Turn.Or("N/A"))
	fmt.Fprintf(&b, "River: %s\n", h.Board.River.Or("N/A"))

	b.WriteString("\nKey Actions:\n")
	actions := h.Actions
	if len(actions) > MaxDescribedActions {
		actions = actions[:MaxDescribedActions]
	}
	if len(actions) == 0 {
		b.WriteString("No actions recorded\n")
	}
	for _, a := range actions {
		line := fmt.Sprintf("- %s: %s", a.Player, strings.ToUpper(a.Action.String()))
		if a.Amount != "" {
			line += " " + a.Amount.String()
		}
		fmt.Fprintf(&b, "%s (%s)\n", line, a.Street)
	}

	b.WriteString("\nWinners:\n")
	if len(h.Winners) == 0 {
		b.WriteString("No winners recorded\n")
	}
	for _, w := range h.Winners {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", w.Name, w.Hand.Or("Won"), w.Amount.Or("0"))
	}

	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
