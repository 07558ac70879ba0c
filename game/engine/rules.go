package engine

// CanMoveToFoundation reports whether card may be placed on the foundation for suit.
// An empty foundation only takes the Ace; otherwise the card must be the
// next rank of the same suit.
func (b *Board) CanMoveToFoundation(card Card, suit Suit) bool {
	if !suit.Valid() || card.Suit != suit {
		return false
	}
	top, ok := b.Top(Foundation(suit))
	if !ok {
		return card.Rank == Ace
	}
	return card.Rank == top.Rank+1
}

// CanMoveRunToFoundation only accepts single-card runs
func (b *Board) CanMoveRunToFoundation(cards []Card, suit Suit) bool {
	if len(cards) != 1 {
		return false
	}
	return b.CanMoveToFoundation(cards[0], suit)
}

// CanMoveToTableau checks the leading card of run against column col.
// The run's internal ordering is assumed from how selections are formed.
func (b *Board) CanMoveToTableau(run []Card, col int) bool {
	if len(run) == 0 || col < 0 || col >= NumTableau {
		return false
	}
	lead := run[0]
	top, ok := b.Top(Tableau(col))
	if !ok {
		return lead.Rank == King
	}
	if !top.FaceUp {
		return false
	}
	if top.Color() == lead.Color() {
		return false
	}
	return lead.Rank+1 == top.Rank
}
