package console

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/wricardo/klondike/game/engine"
)

const hiddenCard = "▓▓"

var suitSymbols = map[engine.Suit]string{
	engine.Hearts:   "♥",
	engine.Diamonds: "♦",
	engine.Clubs:    "♣",
	engine.Spades:   "♠",
}

var foundationTokens = map[engine.Suit]string{
	engine.Hearts:   "fh",
	engine.Diamonds: "fd",
	engine.Clubs:    "fc",
	engine.Spades:   "fs",
}

// cardFace renders a face-up card with its suit colour, or the hidden marker
func cardFace(c engine.Card, selected bool) string {
	if !c.FaceUp {
		return pterm.FgGray.Sprint(hiddenCard)
	}
	face := c.Rank.String() + suitSymbols[c.Suit]
	var styled string
	if c.Color() == engine.Red {
		styled = pterm.LightRed(face)
	} else {
		styled = pterm.LightWhite(face)
	}
	if selected {
		return pterm.BgCyan.Sprint(styled)
	}
	return styled
}

func selectedSet(s engine.Snapshot) map[string]bool {
	set := map[string]bool{}
	if s.Selection != nil {
		for _, id := range s.Selection.CardIDs {
			set[id] = true
		}
	}
	return set
}

// RenderBoard draws the table inside a pterm box
func RenderBoard(s engine.Snapshot) string {
	selected := selectedSet(s)
	var b strings.Builder

	waste := "--"
	if s.WasteTop != nil {
		waste = cardFace(*s.WasteTop, selected[s.WasteTop.ID])
	}
	fmt.Fprintf(&b, "Stock [%d]   w %s (%d)    ", s.StockSize, waste, s.WasteSize)

	for _, f := range s.Foundations {
		top := "--"
		if f.Top != nil {
			top = cardFace(*f.Top, selected[f.Top.ID])
		}
		fmt.Fprintf(&b, " %s %s", foundationTokens[f.Suit], top)
	}
	b.WriteString("\n\n")

	for col, cards := range s.Tableau {
		fmt.Fprintf(&b, "t%d ", col)
		if len(cards) == 0 {
			b.WriteString(" " + pterm.FgDarkGray.Sprint("(empty)"))
		}
		for _, c := range cards {
			b.WriteString(" " + cardFace(c, selected[c.ID]))
		}
		b.WriteString("\n")
	}

	if s.Selection != nil {
		fmt.Fprintf(&b, "\nSelected %s from %s", strings.Join(s.Selection.CardIDs, " "), s.Selection.Source)
	}
	if s.Message != "" {
		fmt.Fprintf(&b, "\n%s", s.Message)
	}

	title := fmt.Sprintf("Klondike  moves %d  foundations %d/%d", s.Moves, s.FoundationTotal(), engine.DeckSize)
	return pterm.DefaultBox.WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(b.String())
}

// RenderHistory lists the log entries, newest last
func RenderHistory(entries []engine.MoveHistoryEntry) string {
	if len(entries) == 0 {
		return "No moves yet\n"
	}
	var b strings.Builder
	for _, e := range entries {
		status := pterm.Green("ok")
		if !e.Success {
			status = pterm.Red("no")
		}
		line := fmt.Sprintf("%3d %s %s", e.MoveNumber, status, e.Action)
		if len(e.CardIDs) > 0 {
			line += " " + strings.Join(e.CardIDs, " ")
		}
		if e.From != nil {
			line += " " + e.From.String()
		}
		if e.To != nil {
			line += " -> " + e.To.String()
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// helpTable renders the command reference
func helpTable() string {
	data := pterm.TableData{
		{"Command", "Effect"},
		{"d", "draw from the stock (recycles the waste when empty)"},
		{"p <pile> [card]", "pick a card, top card if omitted"},
		{"pp <pile> [card]", "double pick: send a single card to its foundation"},
		{"e <pile>", "drop the selection on an empty column or foundation"},
		{"x", "clear the selection"},
		{"n", "new game"},
		{"l", "show the move log"},
		{"q", "quit"},
		{"piles", "w, t0-t6, fh fd fc fs"},
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprint(data)
	}
	return out
}
