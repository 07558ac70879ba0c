package engine

// FoundationView is the visible part of one foundation
type FoundationView struct {
	Suit Suit  `json:"suit"`
	Top  *Card `json:"top,omitempty"`
	Size int   `json:"size"`
}

// SelectionView describes the active selection
type SelectionView struct {
	CardIDs []string `json:"card_ids"`
	Source  PileRef  `json:"source"`
}

// Snapshot is a read-only copy of what a player can see. Stock order is
// hidden; only its size is reported.
type Snapshot struct {
	GameID      string           `json:"game_id"`
	ConfigName  string           `json:"config_name,omitempty"`
	StockSize   int              `json:"stock_size"`
	WasteTop    *Card            `json:"waste_top,omitempty"`
	WasteSize   int              `json:"waste_size"`
	Foundations []FoundationView `json:"foundations"`
	Tableau     [][]Card         `json:"tableau"`
	Selection   *SelectionView   `json:"selection,omitempty"`
	Won         bool             `json:"won"`
	Message     string           `json:"message"`
	Moves       int              `json:"moves"`
}

// FoundationTotal sums the foundation sizes
func (s Snapshot) FoundationTotal() int {
	total := 0
	for _, f := range s.Foundations {
		total += f.Size
	}
	return total
}

func (b *Board) snapshot() Snapshot {
	snap := Snapshot{
		StockSize:   len(b.Stock),
		WasteSize:   len(b.Waste),
		Foundations: make([]FoundationView, NumSuits),
		Tableau:     make([][]Card, NumTableau),
		Won:         b.won,
	}
	if top, ok := b.Top(Waste()); ok {
		snap.WasteTop = &top
	}
	for _, s := range Suits {
		view := FoundationView{Suit: s, Size: len(b.Foundations[s])}
		if top, ok := b.Top(Foundation(s)); ok {
			view.Top = &top
		}
		snap.Foundations[s] = view
	}
	for col, cards := range b.Tableau {
		column := make([]Card, len(cards))
		copy(column, cards)
		snap.Tableau[col] = column
	}
	if b.selection.Active() {
		snap.Selection = &SelectionView{
			CardIDs: cardIDs(b.selection.cards),
			Source:  b.selection.source,
		}
	}
	return snap
}
