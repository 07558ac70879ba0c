package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrSessionLimit         = errors.New("no free session IDs")
)

const (
	// generatedIDBytes gives four hex characters
	generatedIDBytes = 2
	idSpace          = 1 << (8 * generatedIDBytes)
	randomIDAttempts = 32
)

// Manager keeps the live tables in memory, keyed by lower-cased session ID
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*service.Session
	log      logrus.FieldLogger
}

// NewManager creates a session manager that logs to the standard logrus logger
func NewManager() *Manager {
	return NewManagerWithLogger(logrus.StandardLogger())
}

// NewManagerWithLogger creates a session manager that logs lifecycle events to log
func NewManagerWithLogger(log logrus.FieldLogger) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		log:      log.WithField("component", "sessions"),
	}
}

func key(id string) string { return strings.ToLower(id) }

func validID(id string) bool { return !strings.ContainsAny(id, " /\\?#") }

// Create deals a fresh table for config under id. An empty id gets a
// random four-character one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if !validID(id) {
		return nil, ErrInvalidSessionID
	}

	// deal before taking the lock; a duplicate id discards the engine
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		if id, err = m.freeID(); err != nil {
			return nil, err
		}
	} else if _, taken := m.sessions[key(id)]; taken {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess

	m.log.WithFields(logrus.Fields{
		"session": id,
		"config":  config.Name,
		"total":   len(m.sessions),
	}).Debug("session registered")
	return sess, nil
}

// Get looks a session up, ignoring case
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate returns the session under id, dealing a new one if needed
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if sess, err := m.Get(id); err == nil {
		return sess, nil
	}
	sess, err := m.Create(id, config)
	if errors.Is(err, ErrSessionAlreadyExists) {
		// lost a race with another creator
		return m.Get(id)
	}
	return sess, err
}

// List returns every live session in no particular order
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// Delete drops a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))

	m.log.WithField("session", id).Debug("session unregistered")
	return nil
}

// UpdateLastAccessed marks a session as used now
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and
// returns how many went
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for k, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}

	if removed > 0 {
		m.log.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(m.sessions),
		}).Info("expired sessions cleaned up")
	}
	return removed
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// freeID draws a few random IDs, then scans the whole ID space for an
// unused one. Callers hold the write lock.
func (m *Manager) freeID() (string, error) {
	buf := make([]byte, generatedIDBytes)
	for i := 0; i < randomIDAttempts; i++ {
		rand.Read(buf)
		id := hex.EncodeToString(buf)
		if _, taken := m.sessions[id]; !taken {
			return id, nil
		}
	}
	for n := 0; n < idSpace; n++ {
		id := fmt.Sprintf("%0*x", 2*generatedIDBytes, n)
		if _, taken := m.sessions[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: all %d in use", ErrSessionLimit, idSpace)
}
