package engine

// History actions
const (
	ActionDraw     = "draw"
	ActionRecycle  = "recycle"
	ActionMove     = "move"
	ActionAutoMove = "auto_move"
)

// DrawFromStock turns the stock top onto the waste. An empty stock is refilled
// from the waste in reverse order, all face-down. With both empty it does nothing.
// The selection is always cleared first.
func (b *Board) DrawFromStock() DrawResult {
	b.Deselect()

	from, to := Stock(), Waste()
	switch {
	case len(b.Stock) == 0 && len(b.Waste) == 0:
		b.emit(MoveHistoryEntry{Action: ActionDraw, From: &from, To: &to})
		return DrawNoop

	case len(b.Stock) == 0:
		recycled := make([]Card, len(b.Waste))
		for i, card := range b.Waste {
			card.FaceUp = false
			recycled[len(b.Waste)-1-i] = card
		}
		b.Stock = recycled
		b.Waste = nil
		b.assertInvariants()
		b.emit(MoveHistoryEntry{Action: ActionRecycle, From: &to, To: &from, Success: true})
		return DrawRecycled
	}

	card := b.Stock[len(b.Stock)-1]
	b.Stock = b.Stock[:len(b.Stock)-1]
	card.FaceUp = true
	b.Waste = append(b.Waste, card)
	b.assertInvariants()
	b.emit(MoveHistoryEntry{Action: ActionDraw, From: &from, To: &to, CardIDs: []string{card.ID}, Success: true})
	return DrawDrew
}

// moveCards relocates cards from source to dest as one step. A face-down card
// exposed on a tableau source is flipped. The selection is cleared and the win
// check runs. It reports whether a card was flipped.
func (b *Board) moveCards(cards []Card, source, dest PileRef) bool {
	src, dst := b.pile(source), b.pile(dest)
	if src == nil || dst == nil || len(cards) == 0 {
		return false
	}

	cut := len(*src) - 1
	if source.Kind == TableauPile {
		cut = indexOf(*src, cards[0].ID)
	}
	if cut < 0 || len(*src)-cut != len(cards) {
		return false
	}

	moving := make([]Card, len(*src)-cut)
	copy(moving, (*src)[cut:])
	*src = (*src)[:cut:cut]
	*dst = append(*dst, moving...)

	flipped := false
	if source.Kind == TableauPile && len(*src) > 0 {
		if top := &(*src)[len(*src)-1]; !top.FaceUp {
			top.FaceUp = true
			flipped = true
		}
	}

	b.Deselect()
	b.assertInvariants()
	if b.CheckWin() && b.onWin != nil {
		b.onWin()
	}
	return flipped
}

// AttemptMove tries to move the active selection onto dest. The selection is
// cleared whatever the result.
func (b *Board) AttemptMove(dest PileRef) bool {
	sel := b.selection
	if !sel.Active() {
		return false
	}
	b.Deselect()

	cards, source := sel.cards, sel.source
	legal := false
	if dest.Valid() && dest != source {
		switch dest.Kind {
		case FoundationPile:
			legal = b.CanMoveRunToFoundation(cards, Suit(dest.Index))
		case TableauPile:
			legal = b.CanMoveToTableau(cards, dest.Index)
		}
	}

	entry := MoveHistoryEntry{Action: ActionMove, From: &source, To: &dest, CardIDs: cardIDs(cards)}
	if legal {
		entry.Flipped = b.moveCards(cards, source, dest)
		entry.Success = true
	}
	b.emit(entry)
	return legal
}

// AutoMoveToFoundation sends card straight to its suit's foundation when legal.
// card must be the top of source. The selection is left alone on failure.
func (b *Board) AutoMoveToFoundation(card Card, source PileRef) bool {
	if source.Kind == StockPile {
		return false
	}
	top, ok := b.Top(source)
	if !ok || top.ID != card.ID {
		return false
	}

	dest := Foundation(top.Suit)
	entry := MoveHistoryEntry{Action: ActionAutoMove, From: &source, To: &dest, CardIDs: []string{top.ID}}
	if source == dest || !b.CanMoveToFoundation(top, top.Suit) {
		b.emit(entry)
		return false
	}
	entry.Flipped = b.moveCards([]Card{top}, source, dest)
	entry.Success = true
	b.emit(entry)
	return true
}

func indexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
