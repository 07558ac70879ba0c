package console

import (
	"fmt"
	"strings"

	"github.com/wricardo/klondike/game/engine"
)

// CommandKind identifies a console command
type CommandKind int

const (
	CmdDraw CommandKind = iota
	CmdPick
	CmdPickEmpty
	CmdDeselect
	CmdNewGame
	CmdHistory
	CmdHelp
	CmdQuit
)

// Command is one parsed input line. CardID may be empty for picks, in which
// case the top card of Pile is meant.
type Command struct {
	Kind   CommandKind
	Pile   engine.PileRef
	CardID string
	Pick   engine.PickKind
}

// ParsePileToken accepts w, t0-t6 and fh/fd/fc/fs
func ParsePileToken(token string) (engine.PileRef, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	switch {
	case t == "w" || t == "waste":
		return engine.Waste(), nil
	case len(t) == 2 && t[0] == 't':
		return engine.ParsePileRef(string(engine.TableauPile), t[1:])
	case len(t) == 2 && t[0] == 'f':
		return engine.ParsePileRef(string(engine.FoundationPile), t[1:])
	}
	return engine.PileRef{}, fmt.Errorf("%w: %q (use w, t0-t6, fh/fd/fc/fs)", engine.ErrUnknownPile, token)
}

// ParseCommand parses one line of console input
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "d", "draw":
		return Command{Kind: CmdDraw}, nil
	case "x", "deselect":
		return Command{Kind: CmdDeselect}, nil
	case "n", "new":
		return Command{Kind: CmdNewGame}, nil
	case "l", "log":
		return Command{Kind: CmdHistory}, nil
	case "h", "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "q", "quit", "exit":
		return Command{Kind: CmdQuit}, nil
	case "p", "pp":
		if len(args) < 1 || len(args) > 2 {
			return Command{}, fmt.Errorf("usage: %s <pile> [card]", verb)
		}
		pile, err := ParsePileToken(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd := Command{Kind: CmdPick, Pile: pile, Pick: engine.SinglePick}
		if verb == "pp" {
			cmd.Pick = engine.DoublePick
		}
		if len(args) == 2 {
			if _, _, err := engine.ParseCardID(args[1]); err != nil {
				return Command{}, err
			}
			cmd.CardID = canonicalCardID(args[1])
		}
		return cmd, nil
	case "e", "empty":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: e <pile>")
		}
		pile, err := ParsePileToken(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdPickEmpty, Pile: pile}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q, type h for help", fields[0])
}

func canonicalCardID(text string) string {
	suit, rank, _ := engine.ParseCardID(text)
	return engine.CardID(suit, rank)
}
