// Command analyze prints quick, human-readable heuristics about the deals a
// table produces. For a run of deals from one seed it reports the face-up
// tableau cards, immediately playable moves and where the aces are buried.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/engine"
)

// DealAnalysis summarizes the opening position of one deal
type DealAnalysis struct {
	Deal            int
	Tops            []string
	AcesUp          int
	AcesHidden      int
	AcesInStock     int
	FoundationMoves int
	TableauMoves    int
}

// Playable reports whether the deal offers a move before the first draw
func (a DealAnalysis) Playable() bool {
	return a.FoundationMoves > 0 || a.TableauMoves > 0
}

// analyzeBoard inspects a freshly dealt board
func analyzeBoard(deal int, b *engine.Board) DealAnalysis {
	a := DealAnalysis{Deal: deal}

	for col := 0; col < engine.NumTableau; col++ {
		for _, c := range b.Tableau[col] {
			if c.Rank == engine.Ace && !c.FaceUp {
				a.AcesHidden++
			}
		}

		top, ok := b.Top(engine.Tableau(col))
		if !ok {
			continue
		}
		a.Tops = append(a.Tops, top.ID)
		if top.Rank == engine.Ace {
			a.AcesUp++
		}
		if b.CanMoveToFoundation(top, top.Suit) {
			a.FoundationMoves++
		}
		for dst := 0; dst < engine.NumTableau; dst++ {
			if dst != col && b.CanMoveToTableau([]engine.Card{top}, dst) {
				a.TableauMoves++
			}
		}
	}

	for _, c := range b.Stock {
		if c.Rank == engine.Ace {
			a.AcesInStock++
		}
	}
	return a
}

// analyzeDeals deals n games in sequence from one RNG, the way an engine
// deals successive new games
func analyzeDeals(rng engine.RNG, n int) ([]DealAnalysis, error) {
	results := make([]DealAnalysis, 0, n)
	for i := 1; i <= n; i++ {
		board, err := engine.Deal(engine.Shuffle(engine.BuildDeck(), rng))
		if err != nil {
			return nil, err
		}
		if err := board.CheckConservation(); err != nil {
			return nil, fmt.Errorf("deal %d: %w", i, err)
		}
		results = append(results, analyzeBoard(i, board))
	}
	return results, nil
}

// report renders the per-deal table and a summary line
func report(w io.Writer, table string, seed int64, results []DealAnalysis) error {
	data := pterm.TableData{{"Deal", "Tops", "Aces up", "Aces hidden", "Aces in stock", "To foundation", "Tableau moves"}}
	playable := 0
	for _, a := range results {
		if a.Playable() {
			playable++
		}
		data = append(data, []string{
			strconv.Itoa(a.Deal),
			strings.Join(a.Tops, " "),
			strconv.Itoa(a.AcesUp),
			strconv.Itoa(a.AcesHidden),
			strconv.Itoa(a.AcesInStock),
			strconv.Itoa(a.FoundationMoves),
			strconv.Itoa(a.TableauMoves),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, fmt.Sprintf("\n=== Analyzing %s (seed %d) ===", table, seed))
	pterm.Fprintln(w, rendered)
	pterm.Fprintln(w, fmt.Sprintf("%d/%d deals have a move before the first draw", playable, len(results)))
	return nil
}

// resolveSeed prefers a seed set on the command line, then the table's own
func resolveSeed(cfg *engine.GameConfig, flagSeed int64, flagSet bool) int64 {
	if flagSet || cfg.Seed == nil {
		return flagSeed
	}
	return *cfg.Seed
}

func run(ctx context.Context, cmd *cli.Command) error {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	manager, err := config.NewManagerWithLogger(cmd.String("config-dir"), log)
	if err != nil {
		return err
	}
	cfg := manager.GetDefault()
	if name := cmd.String("table"); name != "" {
		if cfg, err = manager.LoadConfig(name); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
	}

	deals := int(cmd.Int("deals"))
	if deals <= 0 {
		return fmt.Errorf("deals must be positive, got %d", deals)
	}

	seed := resolveSeed(cfg, cmd.Int64("seed"), cmd.IsSet("seed"))
	results, err := analyzeDeals(engine.NewRandRNG(seed), deals)
	if err != nil {
		return err
	}
	return report(os.Stdout, cfg.Name, seed, results)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "summarize the opening positions a table deals",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing table configurations"},
			&cli.StringFlag{Name: "table", Usage: "table name (default table when empty)"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "shuffle seed, overrides the table's seed"},
			&cli.IntFlag{Name: "deals", Value: 10, Usage: "number of deals to analyze"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
