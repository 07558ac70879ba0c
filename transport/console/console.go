package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
)

const prompt = "> "

// Console plays one engine interactively over a line-oriented reader and writer
type Console struct {
	eng       engine.Engine
	in        io.Reader
	out       io.Writer
	log       logrus.FieldLogger
	announced string
}

// New creates a console over eng
func New(eng engine.Engine, in io.Reader, out io.Writer, log logrus.FieldLogger) *Console {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Console{eng: eng, in: in, out: out, log: log}
}

// Run reads commands until quit, end of input or ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	c.printBoard()
	pterm.Fprintln(c.out, pterm.FgDarkGray.Sprint("Type h for help."))

	scanner := bufio.NewScanner(c.in)
	for {
		pterm.Fprint(c.out, prompt)
		if !scanner.Scan() {
			pterm.Fprintln(c.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			pterm.Fprintln(c.out, pterm.Red(err.Error()))
			continue
		}
		if c.Execute(cmd) {
			return nil
		}
	}
}

// Execute applies one command and redraws the board. It reports whether the
// console should stop.
func (c *Console) Execute(cmd Command) bool {
	entry := c.log.WithField("game", c.eng.GameID())

	switch cmd.Kind {
	case CmdQuit:
		pterm.Fprintln(c.out, "Bye.")
		return true

	case CmdHelp:
		pterm.Fprintln(c.out, helpTable())
		return false

	case CmdHistory:
		pterm.Fprint(c.out, RenderHistory(c.eng.GetMoveHistory()))
		return false

	case CmdDraw:
		result := c.eng.Draw()
		entry.WithField("result", result).Debug("draw")

	case CmdDeselect:
		c.eng.Deselect()

	case CmdNewGame:
		c.eng.InitGame()
		entry.WithField("new_game", c.eng.GameID()).Debug("new game")

	case CmdPick:
		cardID := cmd.CardID
		if cardID == "" {
			top, err := topCardID(c.eng.Snapshot(), cmd.Pile)
			if err != nil {
				pterm.Fprintln(c.out, pterm.Red(err.Error()))
				return false
			}
			cardID = top
		}
		outcome := c.eng.HandleCardPick(cardID, cmd.Pile, cmd.Pick)
		entry.WithFields(logrus.Fields{"card": cardID, "pile": cmd.Pile.String(), "kind": cmd.Pick, "outcome": outcome}).Debug("pick")

	case CmdPickEmpty:
		outcome := c.eng.HandleEmptySlotPick(cmd.Pile)
		entry.WithFields(logrus.Fields{"pile": cmd.Pile.String(), "outcome": outcome}).Debug("pick empty")
	}

	c.printBoard()
	c.announceWin()
	return false
}

func (c *Console) printBoard() {
	pterm.Fprintln(c.out, RenderBoard(c.eng.Snapshot()))
}

// announceWin prints the victory banner once per won game
func (c *Console) announceWin() {
	if !c.eng.IsWon() {
		return
	}
	id := c.eng.GameID()
	if id == c.announced {
		return
	}
	c.announced = id
	c.log.WithField("game", id).Info("game won")
	pterm.Fprintln(c.out, pterm.LightGreen("*** You won! Type n for a new game. ***"))
}

// topCardID resolves an omitted card argument to the top card of pile
func topCardID(s engine.Snapshot, pile engine.PileRef) (string, error) {
	switch pile.Kind {
	case engine.WastePile:
		if s.WasteTop != nil {
			return s.WasteTop.ID, nil
		}
	case engine.FoundationPile:
		if top := s.Foundations[pile.Index].Top; top != nil {
			return top.ID, nil
		}
	case engine.TableauPile:
		if col := s.Tableau[pile.Index]; len(col) > 0 {
			return col[len(col)-1].ID, nil
		}
	}
	return "", fmt.Errorf("%s is empty", pile)
}
