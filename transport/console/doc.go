// Package console plays a single Klondike game in the terminal.
//
// Commands are short verbs followed by pile tokens: w for the waste, t0-t6 for
// the tableau columns and fh/fd/fc/fs for the foundations. The board is
// redrawn with pterm after every command.
package console
