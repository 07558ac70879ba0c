package engine

import (
	"math/rand/v2"
	"time"
)

// RNG is the randomness source used by Shuffle
type RNG interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

type randRNG struct {
	r *rand.Rand
}

func (r *randRNG) Intn(n int) int {
	return r.r.IntN(n)
}

// NewRandRNG returns a PCG-backed RNG. The same seed always yields the same deals.
func NewRandRNG(seed int64) RNG {
	s := uint64(seed)
	return &randRNG{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRNG returns an RNG seeded from the wall clock
func NewTimeSeededRNG() RNG {
	return NewRandRNG(time.Now().UnixNano())
}

// BuildDeck returns the 52 cards face-down, suit-major in canonical suit order
// and Ace to King within each suit.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// Shuffle returns a Fisher-Yates permutation of deck. The input slice is not modified.
func Shuffle(deck []Card, rng RNG) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
