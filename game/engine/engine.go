package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	InitGame() Snapshot
	GameID() string
	IsWon() bool
	SetWinHandler(handler func(gameID string))

	// Player input
	HandleCardPick(cardID string, pile PileRef, kind PickKind) MoveOutcome
	HandleEmptySlotPick(pile PileRef) MoveOutcome
	DrawFromStock() Snapshot
	Draw() DrawResult
	Deselect()

	// Read access
	Snapshot() Snapshot

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. Every method takes the same
// mutex, so a pick or draw is applied in full before the next one starts.
type GameEngine struct {
	mu         sync.Mutex
	board      *Board
	config     *GameConfig
	rng        RNG
	gameID     string
	message    string
	history    []MoveHistoryEntry
	winHandler func(gameID string)
}

// NewEngine creates a new game engine with the provided configuration and
// deals the first game. A configured seed makes the deal sequence reproducible.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return NewEngineWithRNG(config, rngFor(config))
}

// NewEngineWithRNG creates an engine that shuffles with rng
func NewEngineWithRNG(config *GameConfig, rng RNG) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.InitGame()

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in configuration
func NewEngineWithDefaults() *GameEngine {
	config := DefaultGameConfig()
	engine := &GameEngine{
		config: config,
		rng:    rngFor(config),
	}
	engine.InitGame()
	return engine
}

func rngFor(config *GameConfig) RNG {
	if config != nil && config.Seed != nil {
		return NewRandRNG(*config.Seed)
	}
	return NewTimeSeededRNG()
}

// InitGame shuffles and deals a fresh board, replacing the old one wholesale
func (e *GameEngine) InitGame() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dealLocked()
}

func (e *GameEngine) dealLocked() Snapshot {
	board, err := Deal(Shuffle(BuildDeck(), e.rng))
	if err != nil {
		// a shuffled full deck always deals
		panic(err)
	}
	e.install(board)
	return e.snapshotLocked()
}

// LoadBoard replaces the current game with board. It is meant for analysis
// tools and tests that need a specific layout.
func (e *GameEngine) LoadBoard(board *Board) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.install(board)
	return e.snapshotLocked()
}

func (e *GameEngine) install(board *Board) {
	board.strict = board.strict || e.config.StrictInvariants
	board.observe = e.record
	board.onWin = e.fireWin
	board.assertInvariants()

	e.board = board
	e.gameID = uuid.New().String()
	e.history = []MoveHistoryEntry{}
	e.message = e.config.messageFor(func(m Messages) string { return m.Welcome }, "")
}

// record is called by the board with the lock held
func (e *GameEngine) record(entry MoveHistoryEntry) {
	entry.Timestamp = time.Now()
	entry.MoveNumber = len(e.history) + 1
	e.history = append(e.history, entry)
}

// fireWin is called by the board with the lock held
func (e *GameEngine) fireWin() {
	e.message = e.config.Messages.Victory
	if e.winHandler != nil {
		e.winHandler(e.gameID)
	}
}

// GameID returns the identifier of the current deal
func (e *GameEngine) GameID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameID
}

// IsWon reports whether the current game has been won
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Won()
}

// SetWinHandler registers a callback fired at most once per game. It runs
// with the engine locked and must not call back into the engine.
func (e *GameEngine) SetWinHandler(handler func(gameID string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.winHandler = handler
}

// HandleCardPick applies a single or double pick on a card
func (e *GameEngine) HandleCardPick(cardID string, pile PileRef, kind PickKind) MoveOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcome := e.board.HandleCardPick(cardID, pile, kind)
	e.setOutcomeMessage(outcome)
	return outcome
}

// HandleEmptySlotPick applies a pick on an empty pile
func (e *GameEngine) HandleEmptySlotPick(pile PileRef) MoveOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcome := e.board.HandleEmptySlotPick(pile)
	e.setOutcomeMessage(outcome)
	return outcome
}

// DrawFromStock draws or recycles and returns the resulting snapshot
func (e *GameEngine) DrawFromStock() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drawLocked()
	return e.snapshotLocked()
}

// Draw draws or recycles and reports which happened
func (e *GameEngine) Draw() DrawResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.drawLocked()
}

func (e *GameEngine) drawLocked() DrawResult {
	result := e.board.DrawFromStock()
	switch result {
	case DrawDrew:
		e.message = e.config.messageFor(func(m Messages) string { return m.Drew }, "")
	case DrawRecycled:
		e.message = e.config.messageFor(func(m Messages) string { return m.Recycled }, "")
	default:
		e.message = e.config.messageFor(func(m Messages) string { return m.StockEmpty }, "")
	}
	return result
}

// Deselect clears the current selection
func (e *GameEngine) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.board.Deselect()
}

func (e *GameEngine) setOutcomeMessage(outcome MoveOutcome) {
	if e.board.Won() && outcome == OutcomeMoved {
		e.message = e.config.Messages.Victory
		return
	}
	var pick func(Messages) string
	switch outcome {
	case OutcomeSelected:
		pick = func(m Messages) string { return m.Selected }
	case OutcomeMoved:
		pick = func(m Messages) string { return m.Moved }
	case OutcomeRejected:
		pick = func(m Messages) string { return m.Rejected }
	case OutcomeDeselected:
		pick = func(m Messages) string { return m.Deselected }
	default:
		return
	}
	e.message = e.config.messageFor(pick, "")
}

// Snapshot returns a read-only view of the current game
func (e *GameEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *GameEngine) snapshotLocked() Snapshot {
	snap := e.board.snapshot()
	snap.GameID = e.gameID
	snap.ConfigName = e.config.Name
	snap.Message = e.message
	for _, entry := range e.history {
		if entry.Success {
			snap.Moves++
		}
	}
	return snap
}

// GetConfig returns the current table configuration
func (e *GameEngine) GetConfig() *GameConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// SetConfig sets a new table configuration and deals a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = config
	e.rng = rngFor(config)
	e.dealLocked()
	return nil
}

// GetMoveHistory returns a copy of the current game's action log
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]MoveHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// GetLastMove returns the last recorded action, or nil if none
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}
