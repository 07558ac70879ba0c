package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit identifies one of the four card suits
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Board and deck dimensions
const (
	NumSuits       = 4
	NumRanks       = 13
	DeckSize       = NumSuits * NumRanks
	NumTableau     = 7
	DealtToTableau = NumTableau * (NumTableau + 1) / 2
	StockAfterDeal = DeckSize - DealtToTableau
)

// Suits lists every suit in canonical deck order
var Suits = [NumSuits]Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = [NumSuits]string{"hearts", "diamonds", "clubs", "spades"}
var suitCodes = [NumSuits]string{"h", "d", "c", "s"}

// String returns the lowercase suit name
func (s Suit) String() string {
	if int(s) < NumSuits {
		return suitNames[s]
	}
	return fmt.Sprintf("suit(%d)", uint8(s))
}

// Code returns the single-letter suit code used in card IDs
func (s Suit) Code() string {
	if int(s) < NumSuits {
		return suitCodes[s]
	}
	return "?"
}

// Color returns red for hearts and diamonds, black otherwise
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return int(s) < NumSuits
}

// ParseSuit accepts a suit name ("hearts") or code ("h"), case-insensitive
func ParseSuit(text string) (Suit, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	for i := 0; i < NumSuits; i++ {
		if t == suitNames[i] || t == suitCodes[i] {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", text)
}

// MarshalText encodes the suit as its name
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a suit name or code
func (s *Suit) UnmarshalText(data []byte) error {
	parsed, err := ParseSuit(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Color is the derived color of a suit
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Rank is a card value from Ace (1) to King (13)
type Rank uint8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// String returns the rank label: A, 2..10, J, Q, K
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r > Ace && r < Jack {
		return strconv.Itoa(int(r))
	}
	return fmt.Sprintf("rank(%d)", uint8(r))
}

// Valid reports whether r is between Ace and King
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// ParseRank accepts A, J, Q, K or a number 1-13
func ParseRank(text string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "A":
		return Ace, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < int(Ace) || n > int(King) {
		return 0, fmt.Errorf("unknown rank %q", text)
	}
	return Rank(n), nil
}

// MarshalText encodes the rank as its label
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank label
func (r *Rank) UnmarshalText(data []byte) error {
	parsed, err := ParseRank(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Card is a playing card. Identity (ID, Suit, Rank) never changes; FaceUp does.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	FaceUp bool   `json:"face_up"`
}

// NewCard builds a face-down card with its canonical ID
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:   CardID(suit, rank),
		Suit: suit,
		Rank: rank,
	}
}

// CardID returns the stable identifier for a (rank, suit) pair, e.g. "10d" or "Ks"
func CardID(suit Suit, rank Rank) string {
	return rank.String() + suit.Code()
}

// ParseCardID splits an ID such as "Qh" into its suit and rank
func ParseCardID(id string) (Suit, Rank, error) {
	id = strings.TrimSpace(id)
	if len(id) < 2 {
		return 0, 0, fmt.Errorf("invalid card id %q", id)
	}
	suit, err := ParseSuit(id[len(id)-1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid card id %q: %w", id, err)
	}
	rank, err := ParseRank(id[:len(id)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid card id %q: %w", id, err)
	}
	return suit, rank, nil
}

// Color returns the card's derived color
func (c Card) Color() Color {
	return c.Suit.Color()
}

// String returns the card ID
func (c Card) String() string {
	return c.ID
}

// PileKind names the four kinds of pile on the board
type PileKind string

const (
	StockPile      PileKind = "stock"
	WastePile      PileKind = "waste"
	FoundationPile PileKind = "foundation"
	TableauPile    PileKind = "tableau"
)

// PileRef addresses a single pile. Index is the suit for foundations and the
// column for the tableau; it is ignored for stock and waste.
type PileRef struct {
	Kind  PileKind `json:"kind"`
	Index int      `json:"index"`
}

// Stock returns a reference to the stock
func Stock() PileRef { return PileRef{Kind: StockPile} }

// Waste returns a reference to the waste
func Waste() PileRef { return PileRef{Kind: WastePile} }

// Foundation returns a reference to the foundation for suit s
func Foundation(s Suit) PileRef { return PileRef{Kind: FoundationPile, Index: int(s)} }

// Tableau returns a reference to tableau column col
func Tableau(col int) PileRef { return PileRef{Kind: TableauPile, Index: col} }

// Valid reports whether the reference names an existing pile
func (p PileRef) Valid() bool {
	switch p.Kind {
	case StockPile, WastePile:
		return true
	case FoundationPile:
		return p.Index >= 0 && p.Index < NumSuits
	case TableauPile:
		return p.Index >= 0 && p.Index < NumTableau
	}
	return false
}

// Key returns the wire key for the pile: a suit name, a column number, or ""
func (p PileRef) Key() string {
	switch p.Kind {
	case FoundationPile:
		return Suit(p.Index).String()
	case TableauPile:
		return strconv.Itoa(p.Index)
	}
	return ""
}

// String renders the reference as kind or kind:key
func (p PileRef) String() string {
	if key := p.Key(); key != "" {
		return string(p.Kind) + ":" + key
	}
	return string(p.Kind)
}

// ParsePileRef builds a reference from a pile kind and its wire key
func ParsePileRef(kind, key string) (PileRef, error) {
	switch PileKind(strings.ToLower(strings.TrimSpace(kind))) {
	case StockPile:
		return Stock(), nil
	case WastePile:
		return Waste(), nil
	case FoundationPile:
		suit, err := ParseSuit(key)
		if err != nil {
			return PileRef{}, fmt.Errorf("%w: foundation key: %v", ErrUnknownPile, err)
		}
		return Foundation(suit), nil
	case TableauPile:
		col, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || col < 0 || col >= NumTableau {
			return PileRef{}, fmt.Errorf("%w: tableau column %q", ErrUnknownPile, key)
		}
		return Tableau(col), nil
	}
	return PileRef{}, fmt.Errorf("%w: %q", ErrUnknownPile, kind)
}

// PickKind is how the input layer classified a pick
type PickKind string

const (
	SinglePick PickKind = "single"
	DoublePick PickKind = "double"
)

// ParsePickKind maps "" and "single" to SinglePick and "double" to DoublePick
func ParsePickKind(text string) (PickKind, error) {
	switch PickKind(strings.ToLower(strings.TrimSpace(text))) {
	case "", SinglePick:
		return SinglePick, nil
	case DoublePick:
		return DoublePick, nil
	}
	return "", fmt.Errorf("unknown pick kind %q", text)
}

// MoveOutcome is the result of a pick
type MoveOutcome string

const (
	OutcomeSelected   MoveOutcome = "selected"
	OutcomeMoved      MoveOutcome = "moved"
	OutcomeRejected   MoveOutcome = "rejected"
	OutcomeDeselected MoveOutcome = "deselected"
)

// DrawResult describes what a stock draw did
type DrawResult string

const (
	DrawDrew     DrawResult = "drew"
	DrawRecycled DrawResult = "recycled"
	DrawNoop     DrawResult = "noop"
)
