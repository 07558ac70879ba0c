package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

const faceDown = "##"

func cardLabel(c engine.Card) string {
	if !c.FaceUp {
		return faceDown
	}
	return c.ID
}

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n\n",
		info.ID, info.ConfigName,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		info.LastAccessedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(formatGameState(info.GameState))
	return b.String()
}

// formatGameState renders the board as plain text, one tableau column per line
func formatGameState(state *engine.Snapshot) string {
	if state == nil {
		return "No game state\n"
	}

	var b strings.Builder

	if state.Won {
		b.WriteString("🎉 VICTORY!\n")
	}
	fmt.Fprintf(&b, "Game: %s  Moves: %d  Foundations: %d/%d\n",
		state.GameID, state.Moves, state.FoundationTotal(), engine.DeckSize)

	waste := "--"
	if state.WasteTop != nil {
		waste = state.WasteTop.ID
	}
	fmt.Fprintf(&b, "Stock: %d  Waste: %s (%d)\n", state.StockSize, waste, state.WasteSize)

	b.WriteString("Foundations:")
	for _, f := range state.Foundations {
		top := "--"
		if f.Top != nil {
			top = f.Top.ID
		}
		fmt.Fprintf(&b, " %s=%s", f.Suit, top)
	}
	b.WriteString("\n\nTableau:\n")

	for col, cards := range state.Tableau {
		labels := make([]string, len(cards))
		for i, c := range cards {
			labels[i] = cardLabel(c)
		}
		line := strings.Join(labels, " ")
		if line == "" {
			line = "(empty)"
		}
		fmt.Fprintf(&b, "  %d: %s\n", col, line)
	}

	if state.Selection != nil {
		fmt.Fprintf(&b, "\nSelected: %s from %s\n", strings.Join(state.Selection.CardIDs, " "), state.Selection.Source)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s\n", state.Message)
	}

	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	status := "✓"
	if !result.Success {
		status = "✗"
	}
	detail := string(result.Outcome)
	if result.Draw != "" {
		detail = string(result.Draw)
	}
	if detail != "" {
		fmt.Fprintf(&b, "%s %s: %s\n", status, result.Action, detail)
	} else {
		fmt.Fprintf(&b, "%s %s\n", status, result.Action)
	}

	for _, ev := range result.Events {
		line := "  • " + ev.Type
		if len(ev.CardIDs) > 0 {
			line += " " + strings.Join(ev.CardIDs, " ")
		}
		if ev.From != nil {
			line += " from " + ev.From.String()
		}
		if ev.To != nil {
			line += " to " + ev.To.String()
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d/%d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)

	for _, entry := range history.Moves {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		line := fmt.Sprintf("#%d %s %s", entry.MoveNumber, status, entry.Action)
		if len(entry.CardIDs) > 0 {
			line += " " + strings.Join(entry.CardIDs, " ")
		}
		if entry.From != nil {
			line += " " + entry.From.String()
		}
		if entry.To != nil {
			line += " -> " + entry.To.String()
		}
		if entry.Flipped {
			line += " (flipped)"
		}
		b.WriteString(line + "\n")
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore: page=%d\n", history.Page+1)
	}
	return b.String()
}
