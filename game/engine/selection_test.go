package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCardPickRejects(t *testing.T) {
	b := NewBoard()
	b.Waste = up("9d", "3c")
	b.Tableau[0] = pile(down("Qh"), up("5s"))
	completeBoard(b)

	tests := []struct {
		name string
		card string
		pile PileRef
	}{
		{"card not in pile", "Ks", Tableau(0)},
		{"face-down card", "Qh", Tableau(0)},
		{"stock card", b.Stock[len(b.Stock)-1].ID, Stock()},
		{"waste card under the top", "9d", Waste()},
		{"invalid pile", "5s", Tableau(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, OutcomeRejected, b.HandleCardPick(tt.card, tt.pile, SinglePick))
			assert.False(t, b.Selection().Active())
		})
	}

	t.Run("rejected pick keeps an existing selection", func(t *testing.T) {
		require.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Tableau(0), SinglePick))
		assert.Equal(t, OutcomeRejected, b.HandleCardPick("Qh", Tableau(0), SinglePick))
		assert.True(t, b.Selection().Active())
	})
}

func TestHandleCardPickSelects(t *testing.T) {
	b := NewBoard()
	b.Waste = up("9d", "3c")
	b.Tableau[0] = pile(down("Qh"), up("9s", "8h", "7c"))
	completeBoard(b)

	assert.Equal(t, OutcomeSelected, b.HandleCardPick("8h", Tableau(0), SinglePick))
	sel := b.Selection()
	assert.Equal(t, Tableau(0), sel.Source())
	assert.Equal(t, []string{"8h", "7c"}, ids(sel.Cards()))

	b.Deselect()
	assert.Equal(t, OutcomeSelected, b.HandleCardPick("3c", Waste(), SinglePick))
	assert.Equal(t, Waste(), b.Selection().Source())
	assert.Equal(t, []string{"3c"}, ids(b.Selection().Cards()))
}

func TestHandleCardPickWithSelection(t *testing.T) {
	t.Run("tableau target moves", func(t *testing.T) {
		b := NewBoard()
		b.Waste = up("5s")
		b.Tableau[2] = up("6d")
		completeBoard(b)

		require.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Waste(), SinglePick))
		assert.Equal(t, OutcomeMoved, b.HandleCardPick("6d", Tableau(2), SinglePick))
		assert.Equal(t, []string{"6d", "5s"}, ids(b.Tableau[2]))
		assert.Empty(t, b.Waste)
	})

	t.Run("foundation target moves", func(t *testing.T) {
		b := NewBoard()
		b.Waste = up("2h")
		b.Foundations[Hearts] = up("Ah")
		completeBoard(b)

		require.Equal(t, OutcomeSelected, b.HandleCardPick("2h", Waste(), SinglePick))
		assert.Equal(t, OutcomeMoved, b.HandleCardPick("Ah", Foundation(Hearts), SinglePick))
		assert.Len(t, b.Foundations[Hearts], 2)
	})

	t.Run("illegal target rejects and clears", func(t *testing.T) {
		b := NewBoard()
		b.Tableau[0] = up("5s")
		b.Tableau[1] = up("9c")
		completeBoard(b)

		require.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Tableau(0), SinglePick))
		assert.Equal(t, OutcomeRejected, b.HandleCardPick("9c", Tableau(1), SinglePick))
		assert.False(t, b.Selection().Active())
		assert.Len(t, b.Tableau[0], 1)
	})

	t.Run("waste target deselects", func(t *testing.T) {
		b := NewBoard()
		b.Waste = up("9d")
		b.Tableau[0] = up("5s")
		completeBoard(b)

		require.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Tableau(0), SinglePick))
		assert.Equal(t, OutcomeDeselected, b.HandleCardPick("9d", Waste(), SinglePick))
		assert.False(t, b.Selection().Active())
		assert.Len(t, b.Tableau[0], 1)
		assert.Len(t, b.Waste, 1)
	})

	t.Run("same card again is rejected", func(t *testing.T) {
		b := NewBoard()
		b.Tableau[0] = up("5s")
		completeBoard(b)

		require.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Tableau(0), SinglePick))
		assert.Equal(t, OutcomeRejected, b.HandleCardPick("5s", Tableau(0), SinglePick))
		assert.False(t, b.Selection().Active())
	})
}

func TestDoublePick(t *testing.T) {
	t.Run("ace on waste goes to foundation", func(t *testing.T) {
		b := NewBoard()
		b.Waste = up("7c", "Ah")
		completeBoard(b)

		assert.Equal(t, OutcomeMoved, b.HandleCardPick("Ah", Waste(), DoublePick))
		assert.Equal(t, []string{"Ah"}, ids(b.Foundations[Hearts]))
		assert.Equal(t, []string{"7c"}, ids(b.Waste))
	})

	t.Run("single tableau card goes to foundation and flips", func(t *testing.T) {
		b := NewBoard()
		b.Foundations[Clubs] = up("Ac")
		b.Tableau[4] = pile(down("Jd"), up("2c"))
		completeBoard(b)

		assert.Equal(t, OutcomeMoved, b.HandleCardPick("2c", Tableau(4), DoublePick))
		assert.Len(t, b.Foundations[Clubs], 2)
		assert.True(t, b.Tableau[4][0].FaceUp)
	})

	t.Run("illegal fast path falls back to selection", func(t *testing.T) {
		b := NewBoard()
		b.Tableau[0] = up("5s")
		completeBoard(b)

		assert.Equal(t, OutcomeSelected, b.HandleCardPick("5s", Tableau(0), DoublePick))
		assert.True(t, b.Selection().Active())
	})

	t.Run("runs longer than one are not fast-pathed", func(t *testing.T) {
		b := NewBoard()
		b.Tableau[0] = up("2s", "Ah")
		completeBoard(b)

		assert.Equal(t, OutcomeSelected, b.HandleCardPick("2s", Tableau(0), DoublePick))
		assert.Empty(t, b.Foundations[Spades])
		assert.Len(t, b.Selection().Cards(), 2)
	})

	t.Run("foundation source is not fast-pathed", func(t *testing.T) {
		b := NewBoard()
		b.Foundations[Hearts] = up("Ah")
		completeBoard(b)

		assert.Equal(t, OutcomeSelected, b.HandleCardPick("Ah", Foundation(Hearts), DoublePick))
		assert.Len(t, b.Foundations[Hearts], 1)
	})
}

func TestHandleEmptySlotPick(t *testing.T) {
	b := NewBoard()
	b.Tableau[0] = pile(down("3d"), up("Kc"))
	b.Tableau[1] = up("Qd")
	completeBoard(b)

	assert.Equal(t, OutcomeRejected, b.HandleEmptySlotPick(Tableau(5)), "no selection is a no-op")
	assert.Len(t, b.Tableau[0], 2)

	require.Equal(t, OutcomeSelected, b.HandleCardPick("Qd", Tableau(1), SinglePick))
	assert.Equal(t, OutcomeRejected, b.HandleEmptySlotPick(Tableau(5)), "only kings fill an empty column")
	assert.False(t, b.Selection().Active())

	require.Equal(t, OutcomeSelected, b.HandleCardPick("Kc", Tableau(0), SinglePick))
	assert.Equal(t, OutcomeMoved, b.HandleEmptySlotPick(Tableau(5)))
	assert.Equal(t, []string{"Kc"}, ids(b.Tableau[5]))
	assert.True(t, b.Tableau[0][0].FaceUp)

	require.Equal(t, OutcomeSelected, b.HandleCardPick("Qd", Tableau(1), SinglePick))
	assert.Equal(t, OutcomeMoved, b.HandleCardPick("Kc", Tableau(5), SinglePick))
	assert.Empty(t, b.Tableau[1])
}
