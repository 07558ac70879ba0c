package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeck(t *testing.T) {
	deck := BuildDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[string]bool)
	for _, c := range deck {
		assert.False(t, c.FaceUp, "card %s should start face-down", c.ID)
		assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
		seen[c.ID] = true
	}

	assert.Equal(t, "Ah", deck[0].ID)
	assert.Equal(t, "Kh", deck[12].ID)
	assert.Equal(t, "Ad", deck[13].ID)
	assert.Equal(t, "Ks", deck[51].ID)
}

func TestCardIDs(t *testing.T) {
	tests := []struct {
		id    string
		suit  Suit
		rank  Rank
		color Color
	}{
		{"Ah", Hearts, Ace, Red},
		{"10d", Diamonds, 10, Red},
		{"Qc", Clubs, Queen, Black},
		{"Ks", Spades, King, Black},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			suit, rank, err := ParseCardID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.suit, suit)
			assert.Equal(t, tt.rank, rank)
			assert.Equal(t, tt.id, CardID(suit, rank))
			assert.Equal(t, tt.color, NewCard(suit, rank).Color())
		})
	}

	for _, bad := range []string{"", "h", "14s", "0c", "Ax", "Kz"} {
		_, _, err := ParseCardID(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := BuildDeck()
	shuffled := Shuffle(deck, NewRandRNG(42))

	require.Len(t, shuffled, DeckSize)
	assert.ElementsMatch(t, ids(deck), ids(shuffled))
	assert.Equal(t, ids(BuildDeck()), ids(deck), "input deck must not be modified")
}

func TestShuffleOrdersDiffer(t *testing.T) {
	deck := BuildDeck()
	rng := NewRandRNG(7)

	first := Shuffle(deck, rng)
	second := Shuffle(deck, rng)
	assert.NotEqual(t, ids(first), ids(second))
}

func TestShuffleSeedReproducible(t *testing.T) {
	deck := BuildDeck()
	a := Shuffle(deck, NewRandRNG(2024))
	b := Shuffle(deck, NewRandRNG(2024))
	assert.Equal(t, ids(a), ids(b))
}

func TestShuffleWithInjectedRNG(t *testing.T) {
	deck := BuildDeck()[:3]
	// i=2 swaps with 0, i=1 swaps with 0
	shuffled := Shuffle(deck, &seqRNG{values: []int{0}})
	assert.Equal(t, []string{"2h", "3h", "Ah"}, ids(shuffled))
}
