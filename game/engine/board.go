package engine

import (
	"fmt"
	"strings"
)

// Selection is either None (the zero value) or Active with a run of cards
// picked from a single source pile.
type Selection struct {
	active bool
	cards  []Card
	source PileRef
}

func activeSelection(cards []Card, source PileRef) Selection {
	run := make([]Card, len(cards))
	copy(run, cards)
	return Selection{active: true, cards: run, source: source}
}

// Active reports whether a run is currently selected
func (s Selection) Active() bool { return s.active }

// Cards returns a copy of the selected run, bottom card first
func (s Selection) Cards() []Card {
	if !s.active {
		return nil
	}
	run := make([]Card, len(s.cards))
	copy(run, s.cards)
	return run
}

// Source returns the pile the run was picked from
func (s Selection) Source() PileRef { return s.source }

// Board is the full layout of one game. Piles hold their top card last.
// Only DrawFromStock and moveCards change pile contents.
type Board struct {
	Stock       []Card
	Waste       []Card
	Foundations [NumSuits][]Card
	Tableau     [NumTableau][]Card

	selection Selection
	won       bool

	// strict panics on a conservation violation after every mutation
	strict bool
	// onWin runs synchronously the first time the foundations fill up
	onWin func()
	// observe receives one entry per executed or rejected action
	observe func(MoveHistoryEntry)
}

// NewBoard returns an empty board. Tests use it to build specific layouts.
func NewBoard() *Board {
	return &Board{}
}

// Deal lays out a shuffled 52-card deck. Column i takes the next i+1 cards
// with only the last face-up; the remaining 24 become the stock, with the last
// input card on top.
func Deal(shuffled []Card) (*Board, error) {
	if len(shuffled) != DeckSize {
		return nil, fmt.Errorf("%w: expected %d cards, got %d", ErrInvalidDeal, DeckSize, len(shuffled))
	}
	seen := make(map[string]bool, DeckSize)
	for _, c := range shuffled {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate card %s", ErrInvalidDeal, c.ID)
		}
		seen[c.ID] = true
	}

	b := NewBoard()
	next := 0
	for col := 0; col < NumTableau; col++ {
		column := make([]Card, col+1)
		for i := range column {
			card := shuffled[next]
			card.FaceUp = i == col
			column[i] = card
			next++
		}
		b.Tableau[col] = column
	}

	b.Stock = make([]Card, 0, StockAfterDeal)
	for _, card := range shuffled[next:] {
		card.FaceUp = false
		b.Stock = append(b.Stock, card)
	}
	return b, nil
}

// Selection returns the current selection
func (b *Board) Selection() Selection {
	return b.selection
}

// Deselect clears the selection unconditionally
func (b *Board) Deselect() {
	b.selection = Selection{}
}

// Won reports whether this board has already signalled a win
func (b *Board) Won() bool {
	return b.won
}

// pile returns a pointer to the slice backing ref, or nil if ref is invalid
func (b *Board) pile(ref PileRef) *[]Card {
	if !ref.Valid() {
		return nil
	}
	switch ref.Kind {
	case StockPile:
		return &b.Stock
	case WastePile:
		return &b.Waste
	case FoundationPile:
		return &b.Foundations[ref.Index]
	case TableauPile:
		return &b.Tableau[ref.Index]
	}
	return nil
}

// Pile returns the cards of ref, top last. The slice must not be modified.
func (b *Board) Pile(ref PileRef) []Card {
	if p := b.pile(ref); p != nil {
		return *p
	}
	return nil
}

// Top returns the top card of ref
func (b *Board) Top(ref PileRef) (Card, bool) {
	cards := b.Pile(ref)
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[len(cards)-1], true
}

// FoundationCount sums the four foundation lengths
func (b *Board) FoundationCount() int {
	total := 0
	for _, f := range b.Foundations {
		total += len(f)
	}
	return total
}

// CardCount is the number of cards across every pile
func (b *Board) CardCount() int {
	total := len(b.Stock) + len(b.Waste) + b.FoundationCount()
	for _, col := range b.Tableau {
		total += len(col)
	}
	return total
}

// CheckConservation verifies that all 52 cards are present exactly once
func (b *Board) CheckConservation() error {
	seen := make(map[string]string, DeckSize)
	var problems []string

	visit := func(ref PileRef, cards []Card) {
		for _, c := range cards {
			if where, dup := seen[c.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s in both %s and %s", c.ID, where, ref))
				continue
			}
			seen[c.ID] = ref.String()
		}
	}

	visit(Stock(), b.Stock)
	visit(Waste(), b.Waste)
	for _, s := range Suits {
		visit(Foundation(s), b.Foundations[s])
	}
	for col := range b.Tableau {
		visit(Tableau(col), b.Tableau[col])
	}

	for _, c := range BuildDeck() {
		if _, ok := seen[c.ID]; !ok {
			problems = append(problems, c.ID+" missing")
		}
	}
	if len(seen) != DeckSize && len(problems) == 0 {
		problems = append(problems, fmt.Sprintf("%d distinct cards on board", len(seen)))
	}

	if len(problems) > 0 {
		return fmt.Errorf("card conservation violated: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (b *Board) assertInvariants() {
	if !b.strict {
		return
	}
	if err := b.CheckConservation(); err != nil {
		panic(err)
	}
}

// CheckWin latches the win the first time all 52 cards reach the foundations.
// It returns true only on that transition.
func (b *Board) CheckWin() bool {
	if b.won || b.FoundationCount() != DeckSize {
		return false
	}
	b.won = true
	return true
}

func (b *Board) emit(entry MoveHistoryEntry) {
	if b.observe != nil {
		b.observe(entry)
	}
}
