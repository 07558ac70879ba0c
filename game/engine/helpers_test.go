package engine

import "fmt"

func mustCard(id string, faceUp bool) Card {
	suit, rank, err := ParseCardID(id)
	if err != nil {
		panic(fmt.Sprintf("bad card id in test: %v", err))
	}
	c := NewCard(suit, rank)
	c.FaceUp = faceUp
	return c
}

func up(ids ...string) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = mustCard(id, true)
	}
	return cards
}

func down(ids ...string) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = mustCard(id, false)
	}
	return cards
}

func pile(parts ...[]Card) []Card {
	var out []Card
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// suitRun returns Ace up to and including last, face-up
func suitRun(suit Suit, last Rank) []Card {
	var out []Card
	for r := Ace; r <= last; r++ {
		c := NewCard(suit, r)
		c.FaceUp = true
		out = append(out, c)
	}
	return out
}

// completeBoard puts every card not yet placed into the stock face-down and
// turns on conservation checking.
func completeBoard(b *Board) *Board {
	present := make(map[string]bool)
	mark := func(cards []Card) {
		for _, c := range cards {
			present[c.ID] = true
		}
	}
	mark(b.Stock)
	mark(b.Waste)
	for _, f := range b.Foundations {
		mark(f)
	}
	for _, col := range b.Tableau {
		mark(col)
	}
	var rest []Card
	for _, c := range BuildDeck() {
		if !present[c.ID] {
			rest = append(rest, c)
		}
	}
	b.Stock = append(rest, b.Stock...)
	b.strict = true
	return b
}

func ids(cards []Card) []string {
	return cardIDs(cards)
}

// seqRNG replays fixed values, modulo n
type seqRNG struct {
	values []int
	next   int
}

func (r *seqRNG) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

func testConfig() *GameConfig {
	return &GameConfig{
		Name:             "Engine Test Config",
		Description:      "Configuration for engine tests",
		StrictInvariants: true,
		Messages: Messages{
			Welcome:    "Welcome to engine test!",
			Selected:   "selected",
			Moved:      "moved",
			Rejected:   "rejected",
			Deselected: "deselected",
			Drew:       "drew",
			Recycled:   "recycled",
			StockEmpty: "empty",
			Victory:    "Victory!",
		},
	}
}
