package engine

// HandleCardPick applies a pick on cardID in pile. Missing or face-down cards
// are rejected without touching the selection. A double pick tries the
// foundation fast path first and falls back to a normal pick.
func (b *Board) HandleCardPick(cardID string, pile PileRef, kind PickKind) MoveOutcome {
	if !pile.Valid() || pile.Kind == StockPile {
		return OutcomeRejected
	}
	cards := b.Pile(pile)
	idx := indexOf(cards, cardID)
	if idx < 0 || !cards[idx].FaceUp {
		return OutcomeRejected
	}
	// waste and foundation only expose their top card
	if pile.Kind != TableauPile && idx != len(cards)-1 {
		return OutcomeRejected
	}
	card := cards[idx]

	if kind == DoublePick && pile.Kind != FoundationPile {
		if len(cards)-idx == 1 && b.AutoMoveToFoundation(card, pile) {
			return OutcomeMoved
		}
	}

	if !b.selection.Active() {
		run := []Card{card}
		if pile.Kind == TableauPile {
			run = cards[idx:]
		}
		b.selection = activeSelection(run, pile)
		return OutcomeSelected
	}

	switch pile.Kind {
	case TableauPile, FoundationPile:
		if b.AttemptMove(pile) {
			return OutcomeMoved
		}
		return OutcomeRejected
	default:
		b.Deselect()
		return OutcomeDeselected
	}
}

// HandleEmptySlotPick routes a pick on an empty pile to AttemptMove. With no
// selection it does nothing.
func (b *Board) HandleEmptySlotPick(pile PileRef) MoveOutcome {
	if !b.selection.Active() {
		return OutcomeRejected
	}
	if b.AttemptMove(pile) {
		return OutcomeMoved
	}
	return OutcomeRejected
}
