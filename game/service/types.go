package service

import (
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// Actions reported in ActionResult
const (
	ActionNewGame   = "new_game"
	ActionDraw      = "draw"
	ActionPick      = "pick"
	ActionPickEmpty = "pick_empty"
	ActionDeselect  = "deselect"
)

// Event types carried in ActionResult.Events
const (
	EventNewGame    = "new_game"
	EventDrew       = "drew"
	EventRecycled   = "recycled"
	EventStockEmpty = "stock_empty"
	EventSelected   = "selected"
	EventDeselected = "deselected"
	EventMoved      = "moved"
	EventAutoMoved  = "auto_moved"
	EventRejected   = "rejected"
	EventFlipped    = "flipped"
	EventVictory    = "victory"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.Snapshot   `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// PickRequest is a pick on a card already classified as single or double
type PickRequest struct {
	CardID string          `json:"card_id"`
	Pile   engine.PileRef  `json:"pile"`
	Kind   engine.PickKind `json:"kind"`
}

// ActionResult contains the result of one player action
type ActionResult struct {
	Action    string             `json:"action"`
	Outcome   engine.MoveOutcome `json:"outcome,omitempty"`
	Draw      engine.DrawResult  `json:"draw,omitempty"`
	Success   bool               `json:"success"`
	GameState *engine.Snapshot   `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
	Won       bool               `json:"won"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	CardIDs   []string        `json:"card_ids,omitempty"`
	From      *engine.PileRef `json:"from,omitempty"`
	To        *engine.PileRef `json:"to,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a table configuration
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for session creation
	Name             string `json:"name"`      // Display name
	Description      string `json:"description"`
	Seeded           bool   `json:"seeded"`
	WinNotifyDelayMs int    `json:"win_notify_delay_ms"`
}
