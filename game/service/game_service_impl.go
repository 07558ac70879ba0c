package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
)

var (
	// ErrInvalidRequest is returned for malformed pick requests
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConfigNotFound is returned when no table has the requested ID
	ErrConfigNotFound = errors.New("configuration not found")
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithWinNotifier sends delayed victory notifications to n
func WithWinNotifier(n WinNotifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithLogger replaces the standard logrus logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *gameServiceImpl) {
		s.log = log
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier WinNotifier
	log      logrus.FieldLogger
	mu       sync.RWMutex
}

// actionOutcome is what one engine call produced
type actionOutcome struct {
	outcome engine.MoveOutcome
	draw    engine.DrawResult
	success bool
	events  []GameEvent
}

// configIDFor names the table a session was dealt from. Sessions created
// elsewhere are matched against the config directory by display name.
func (s *gameServiceImpl) configIDFor(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	if infos, err := s.configs.ListConfigs(); err == nil {
		for _, info := range infos {
			if info.Name == sess.Config.Name {
				return info.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	snap := sess.Engine.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.configIDFor(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      &snap,
		GameConfig:     sess.Config,
	}
}

// resolveTable loads the named table, or the default for an empty name.
// The returned ID is empty for the default table.
func (s *gameServiceImpl) resolveTable(configID string) (*engine.GameConfig, string, error) {
	if configID == "" {
		return s.configs.GetDefault(), "", nil
	}

	cfg, err := s.configs.LoadConfig(configID)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		infos, listErr := s.configs.ListConfigs()
		if listErr != nil || len(infos) == 0 {
			return nil, "", fmt.Errorf("%w: %q. Use /api/configs to list available configurations", ErrConfigNotFound, configID)
		}
		ids := make([]string, 0, len(infos))
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
		sort.Strings(ids)
		return nil, "", fmt.Errorf("%w: %q. Available configs: %s", ErrConfigNotFound, configID, strings.Join(ids, ", "))
	case err != nil:
		return nil, "", fmt.Errorf("failed to load config %s: %w", configID, err)
	}
	return cfg, configID, nil
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession deals a new session on the named table, or the default one
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, configID, err := s.resolveTable(configName)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configID
	if sess.ConfigID == "" {
		sess.ConfigID = s.configIDFor(sess)
	}
	s.watchWins(sess)

	info := s.sessionInfo(sess)
	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"game":    sess.Engine.GameID(),
		"config":  info.ConfigName,
	}).Info("session created")
	return info, nil
}

// watchWins turns the engine's synchronous win signal into a delayed notification
func (s *gameServiceImpl) watchWins(sess *Session) {
	sessionID := sess.ID
	eng := sess.Engine
	delay := sess.Config.WinNotifyDelay()

	eng.SetWinHandler(func(gameID string) {
		// runs under the engine lock: only schedule here
		s.log.WithFields(logrus.Fields{"session": sessionID, "game": gameID}).Info("game won")
		notifier := s.notifier
		if notifier == nil {
			return
		}
		time.AfterFunc(delay, func() {
			if eng.GameID() != gameID {
				return
			}
			notifier.NotifyWin(sessionID, gameID)
		})
	})
}

// lookup fetches a session and marks it used. Callers hold s.mu.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// GetSession describes one session
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions describes every live session
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, s.sessionInfo(sess))
	}
	return infos, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// NewGame deals a fresh game in the session
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.apply(sessionID, ActionNewGame, func(eng *engine.GameEngine) actionOutcome {
		snap := eng.InitGame()
		return actionOutcome{
			success: true,
			events: []GameEvent{{
				Type:      EventNewGame,
				Message:   fmt.Sprintf("Dealt game %s", snap.GameID),
				Timestamp: time.Now(),
			}},
		}
	})
}

// Draw turns over the stock top, or recycles the waste
func (s *gameServiceImpl) Draw(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.apply(sessionID, ActionDraw, func(eng *engine.GameEngine) actionOutcome {
		result := eng.Draw()
		return actionOutcome{draw: result, success: result != engine.DrawNoop}
	})
}

// Pick applies a single or double pick on a card
func (s *gameServiceImpl) Pick(ctx context.Context, sessionID string, req PickRequest) (*ActionResult, error) {
	if req.CardID == "" {
		return nil, fmt.Errorf("%w: card_id is required", ErrInvalidRequest)
	}
	if !req.Pile.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, engine.ErrUnknownPile)
	}
	kind, err := engine.ParsePickKind(string(req.Kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return s.apply(sessionID, ActionPick, func(eng *engine.GameEngine) actionOutcome {
		return pickOutcome(eng.HandleCardPick(req.CardID, req.Pile, kind))
	})
}

// PickEmpty applies a pick on an empty pile
func (s *gameServiceImpl) PickEmpty(ctx context.Context, sessionID string, pile engine.PileRef) (*ActionResult, error) {
	if !pile.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, engine.ErrUnknownPile)
	}

	return s.apply(sessionID, ActionPickEmpty, func(eng *engine.GameEngine) actionOutcome {
		return pickOutcome(eng.HandleEmptySlotPick(pile))
	})
}

// Deselect clears the session's selection
func (s *gameServiceImpl) Deselect(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.apply(sessionID, ActionDeselect, func(eng *engine.GameEngine) actionOutcome {
		eng.Deselect()
		return actionOutcome{outcome: engine.OutcomeDeselected, success: true}
	})
}

func pickOutcome(outcome engine.MoveOutcome) actionOutcome {
	out := actionOutcome{outcome: outcome, success: outcome != engine.OutcomeRejected}
	switch outcome {
	case engine.OutcomeSelected:
		out.events = []GameEvent{{Type: EventSelected, Message: "Selection started", Timestamp: time.Now()}}
	case engine.OutcomeDeselected:
		out.events = []GameEvent{{Type: EventDeselected, Message: "Selection cleared", Timestamp: time.Now()}}
	}
	return out
}

// apply runs one engine action for a session and assembles the result
func (s *gameServiceImpl) apply(sessionID, action string, fn func(eng *engine.GameEngine) actionOutcome) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	before := len(sess.Engine.GetMoveHistory())
	wasWon := sess.Engine.IsWon()

	out := fn(sess.Engine)

	snap := sess.Engine.Snapshot()
	history := sess.Engine.GetMoveHistory()
	if before > len(history) {
		before = len(history)
	}

	events := make([]GameEvent, 0, len(out.events)+len(history)-before+1)
	events = append(events, out.events...)
	events = append(events, eventsFromHistory(history[before:], snap)...)
	if snap.Won && !wasWon {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   snap.Message,
			Timestamp: time.Now(),
		})
	}

	s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"game":    snap.GameID,
		"action":  action,
		"outcome": outcomeLabel(out),
	}).Debug("action applied")

	return &ActionResult{
		Action:    action,
		Outcome:   out.outcome,
		Draw:      out.draw,
		Success:   out.success,
		GameState: &snap,
		Message:   snap.Message,
		Events:    events,
		Won:       snap.Won,
	}, nil
}

func outcomeLabel(out actionOutcome) string {
	switch {
	case out.outcome != "":
		return string(out.outcome)
	case out.draw != "":
		return string(out.draw)
	case out.success:
		return "ok"
	}
	return "failed"
}

// eventsFromHistory describes new log entries. A failed auto-move is skipped
// because the pick falls back to a selection.
func eventsFromHistory(entries []engine.MoveHistoryEntry, snap engine.Snapshot) []GameEvent {
	var events []GameEvent
	for _, e := range entries {
		ev := GameEvent{
			Timestamp: e.Timestamp,
			CardIDs:   e.CardIDs,
			From:      e.From,
			To:        e.To,
		}
		switch {
		case e.Action == engine.ActionDraw && e.Success:
			ev.Type = EventDrew
			ev.Message = fmt.Sprintf("Drew %s", strings.Join(e.CardIDs, ", "))
		case e.Action == engine.ActionDraw:
			ev.Type = EventStockEmpty
			ev.Message = "Stock and waste are empty"
		case e.Action == engine.ActionRecycle:
			ev.Type = EventRecycled
			ev.Message = "Waste turned over into the stock"
		case e.Action == engine.ActionMove && e.Success:
			ev.Type = EventMoved
			ev.Message = fmt.Sprintf("Moved %s from %s to %s", strings.Join(e.CardIDs, ", "), e.From, e.To)
		case e.Action == engine.ActionMove:
			ev.Type = EventRejected
			ev.Message = fmt.Sprintf("Cannot move %s to %s", strings.Join(e.CardIDs, ", "), e.To)
		case e.Action == engine.ActionAutoMove && e.Success:
			ev.Type = EventAutoMoved
			ev.Message = fmt.Sprintf("Sent %s to the %s foundation", strings.Join(e.CardIDs, ", "), e.To.Key())
		default:
			continue
		}
		events = append(events, ev)

		if e.Flipped && e.From != nil && e.From.Kind == engine.TableauPile {
			flip := GameEvent{
				Type:      EventFlipped,
				Message:   fmt.Sprintf("Turned over a card in %s", e.From),
				Timestamp: e.Timestamp,
				From:      e.From,
			}
			if col := snap.Tableau[e.From.Index]; len(col) > 0 {
				flip.CardIDs = []string{col[len(col)-1].ID}
			}
			events = append(events, flip)
		}
	}
	return events
}

// GetGameState returns the session's current snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Engine.Snapshot()
	return &snap, nil
}

// GetMoveHistory returns one page of the session's move log
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return paginate(sess.Engine.GetMoveHistory(), opts), nil
}

// ListConfigs returns available table configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific table configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a table configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
