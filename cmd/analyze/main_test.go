package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/wricardo/klondike/game/engine"
)

// identityRNG leaves the deck in BuildDeck order
type identityRNG struct{}

func (identityRNG) Intn(n int) int { return n - 1 }

func TestAnalyzeBoard_OrderedDeck(t *testing.T) {
	board, err := engine.Deal(engine.BuildDeck())
	if err != nil {
		t.Fatalf("Failed to deal: %v", err)
	}

	a := analyzeBoard(1, board)

	wantTops := "Ah 3h 6h 10h 2d 8d 2c"
	if got := strings.Join(a.Tops, " "); got != wantTops {
		t.Errorf("Expected tops %q, got %q", wantTops, got)
	}
	if a.AcesUp != 1 {
		t.Errorf("Expected 1 face-up ace, got %d", a.AcesUp)
	}
	if a.AcesHidden != 2 {
		t.Errorf("Expected 2 hidden aces, got %d", a.AcesHidden)
	}
	if a.AcesInStock != 1 {
		t.Errorf("Expected 1 ace in stock, got %d", a.AcesInStock)
	}
	if a.FoundationMoves != 1 {
		t.Errorf("Expected 1 foundation move, got %d", a.FoundationMoves)
	}
	// 2c onto 3h and Ah onto 2c
	if a.TableauMoves != 2 {
		t.Errorf("Expected 2 tableau moves, got %d", a.TableauMoves)
	}
	if !a.Playable() {
		t.Error("Expected deal to be playable")
	}
}

func TestAnalyzeDeals(t *testing.T) {
	results, err := analyzeDeals(identityRNG{}, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, a := range results {
		if a.Deal != i+1 {
			t.Errorf("Expected deal number %d, got %d", i+1, a.Deal)
		}
		if len(a.Tops) != engine.NumTableau {
			t.Errorf("Deal %d: expected %d tops, got %d", a.Deal, engine.NumTableau, len(a.Tops))
		}
		if a.AcesUp+a.AcesHidden+a.AcesInStock != engine.NumSuits {
			t.Errorf("Deal %d: aces do not add up: %+v", a.Deal, a)
		}
	}
}

func TestAnalyzeDeals_SeedRepeats(t *testing.T) {
	first, err := analyzeDeals(engine.NewRandRNG(99), 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := analyzeDeals(engine.NewRandRNG(99), 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := range first {
		if strings.Join(first[i].Tops, " ") != strings.Join(second[i].Tops, " ") {
			t.Errorf("Deal %d differs between runs with the same seed", i+1)
		}
	}
}

func TestResolveSeed(t *testing.T) {
	seed := int64(500)
	seeded := &engine.GameConfig{Seed: &seed}
	unseeded := &engine.GameConfig{}

	if got := resolveSeed(seeded, 1, false); got != 500 {
		t.Errorf("Expected table seed 500, got %d", got)
	}
	if got := resolveSeed(seeded, 7, true); got != 7 {
		t.Errorf("Expected flag seed 7, got %d", got)
	}
	if got := resolveSeed(unseeded, 1, false); got != 1 {
		t.Errorf("Expected default seed 1, got %d", got)
	}
}

func TestReport(t *testing.T) {
	pterm.DisableColor()

	results, err := analyzeDeals(identityRNG{}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var out bytes.Buffer
	if err := report(&out, "classic", 3, results); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Analyzing classic (seed 3)", "Aces hidden", "deals have a move before the first draw"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in report:\n%s", want, text)
		}
	}
}
