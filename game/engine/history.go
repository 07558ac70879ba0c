package engine

import "time"

// MoveHistoryEntry records one draw, recycle or move attempt. The log is
// informational; nothing replays it.
type MoveHistoryEntry struct {
	Action     string    `json:"action"`
	From       *PileRef  `json:"from,omitempty"`
	To         *PileRef  `json:"to,omitempty"`
	CardIDs    []string  `json:"card_ids,omitempty"`
	Success    bool      `json:"success"`
	Flipped    bool      `json:"flipped,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}
