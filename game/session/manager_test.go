package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

func tableConfig() *engine.GameConfig {
	seed := int64(11)
	return &engine.GameConfig{
		Name:             "session-table",
		Description:      "Table used by session tests",
		Seed:             &seed,
		StrictInvariants: true,
		Messages: engine.Messages{
			Welcome: "Deal!",
			Victory: "Done!",
		},
	}
}

func newQuietManager() (*Manager, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewManagerWithLogger(logger), hook
}

func TestCreateDealsFreshTable(t *testing.T) {
	m, _ := newQuietManager()

	sess, err := m.Create("t1", tableConfig())
	require.NoError(t, err)

	assert.Equal(t, "t1", sess.ID)
	assert.Equal(t, "session-table", sess.Config.Name)
	assert.Equal(t, sess.CreatedAt, sess.LastAccessedAt)

	snap := sess.Engine.Snapshot()
	assert.Equal(t, engine.StockAfterDeal, snap.StockSize)
	assert.Zero(t, snap.WasteSize)
	assert.Zero(t, snap.FoundationTotal())
	assert.Equal(t, "Deal!", snap.Message)
	assert.Equal(t, "session-table", snap.ConfigName)
}

func TestCreateRejects(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		config  func() *engine.GameConfig
		wantErr error
	}{
		{"space in id", "bad id", tableConfig, ErrInvalidSessionID},
		{"slash in id", "a/b", tableConfig, ErrInvalidSessionID},
		{"query char in id", "a?b", tableConfig, ErrInvalidSessionID},
		{"duplicate", "dup", tableConfig, ErrSessionAlreadyExists},
		{"duplicate other case", "DUP", tableConfig, ErrSessionAlreadyExists},
		{"invalid table", "fresh", func() *engine.GameConfig {
			c := tableConfig()
			c.Messages.Victory = ""
			return c
		}, engine.ErrInvalidConfig},
	}

	m, _ := newQuietManager()
	_, err := m.Create("dup", tableConfig())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Create(tt.id, tt.config())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 1, m.Count())
}

func TestGeneratedIDs(t *testing.T) {
	m, _ := newQuietManager()
	seen := map[string]bool{}

	for i := 0; i < 64; i++ {
		sess, err := m.Create("", tableConfig())
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{4}$`, sess.ID)
		assert.False(t, seen[sess.ID], "duplicate id %s", sess.ID)
		seen[sess.ID] = true
	}
	assert.Equal(t, 64, m.Count())
}

func TestCreateFailsWhenIDsRunOut(t *testing.T) {
	m, _ := newQuietManager()
	for n := 0; n < idSpace; n++ {
		m.sessions[fmt.Sprintf("%04x", n)] = &service.Session{}
	}
	delete(m.sessions, "beef")

	sess, err := m.Create("", tableConfig())
	require.NoError(t, err)
	assert.Equal(t, "beef", sess.ID)

	done := make(chan error, 1)
	go func() {
		_, err := m.Create("", tableConfig())
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSessionLimit)
	case <-time.After(5 * time.Second):
		t.Fatal("Create never returned with every ID taken")
	}

	// named sessions are still accepted
	_, err = m.Create("named", tableConfig())
	assert.NoError(t, err)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	m, _ := newQuietManager()
	created, err := m.Create("Table-A", tableConfig())
	require.NoError(t, err)

	for _, id := range []string{"Table-A", "table-a", "TABLE-A"} {
		got, err := m.Get(id)
		require.NoError(t, err, id)
		assert.Same(t, created, got)
	}

	_, err = m.Get("table-b")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.UpdateLastAccessed("TABLE-a"))
	require.NoError(t, m.Delete("tAbLe-A"))
	_, err = m.Get("Table-A")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete("Table-A"), ErrSessionNotFound)
	assert.ErrorIs(t, m.UpdateLastAccessed("Table-A"), ErrSessionNotFound)
}

func TestGetOrCreateReusesSession(t *testing.T) {
	m, _ := newQuietManager()

	first, err := m.GetOrCreate("shared", tableConfig())
	require.NoError(t, err)
	first.Engine.Draw()

	second, err := m.GetOrCreate("SHARED", tableConfig())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.Engine.Snapshot().WasteSize)
	assert.Equal(t, 1, m.Count())

	_, err = m.GetOrCreate("no good", tableConfig())
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}

func TestListReturnsEverySession(t *testing.T) {
	m, _ := newQuietManager()
	want := map[string]bool{"l1": true, "l2": true, "l3": true}
	for id := range want {
		_, err := m.Create(id, tableConfig())
		require.NoError(t, err)
	}

	got := map[string]bool{}
	for _, s := range m.List() {
		got[s.ID] = true
	}
	assert.Equal(t, want, got)
}

func TestUpdateLastAccessed(t *testing.T) {
	m, _ := newQuietManager()
	sess, err := m.Create("touch", tableConfig())
	require.NoError(t, err)

	before := sess.LastAccessedAt
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, m.UpdateLastAccessed("touch"))
	assert.True(t, sess.LastAccessedAt.After(before))
}

func TestCleanupExpiredSessions(t *testing.T) {
	m, hook := newQuietManager()

	stale, err := m.Create("stale", tableConfig())
	require.NoError(t, err)
	_, err = m.Create("live", tableConfig())
	require.NoError(t, err)
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	hook.Reset()
	assert.Equal(t, 1, m.CleanupExpiredSessions(time.Hour))

	_, err = m.Get("stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get("live")
	assert.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["removed"])
	assert.Equal(t, 1, entry.Data["remaining"])

	// nothing left to expire: no log line
	hook.Reset()
	assert.Zero(t, m.CleanupExpiredSessions(time.Hour))
	assert.Empty(t, hook.AllEntries())
}

func TestLifecycleLogs(t *testing.T) {
	m, hook := newQuietManager()

	_, err := m.Create("logged", tableConfig())
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "session registered", entry.Message)
	assert.Equal(t, "logged", entry.Data["session"])
	assert.Equal(t, "session-table", entry.Data["config"])

	require.NoError(t, m.Delete("logged"))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "session unregistered", entry.Message)
}

func TestSessionsDealIndependentGames(t *testing.T) {
	m, _ := newQuietManager()
	a, err := m.Create("iso-a", tableConfig())
	require.NoError(t, err)
	b, err := m.Create("iso-b", tableConfig())
	require.NoError(t, err)

	a.Engine.Draw()
	a.Engine.Draw()

	assert.Equal(t, engine.StockAfterDeal-2, a.Engine.Snapshot().StockSize)
	assert.Equal(t, engine.StockAfterDeal, b.Engine.Snapshot().StockSize)
	assert.NotEqual(t, a.Engine.GameID(), b.Engine.GameID())

	// same seed, separate engines: identical first deal
	c, err := m.Create("iso-c", tableConfig())
	require.NoError(t, err)
	assert.Equal(t, b.Engine.Snapshot().Tableau, c.Engine.Snapshot().Tableau)
}

func TestConcurrentCreateAndLookup(t *testing.T) {
	m, _ := newQuietManager()

	var wg sync.WaitGroup
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c-%02d", n%20)
			if _, err := m.Create(id, tableConfig()); err != nil {
				assert.ErrorIs(t, err, ErrSessionAlreadyExists)
			}
			_, _ = m.Get(id)
			_ = m.UpdateLastAccessed(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, m.Count())
	assert.Len(t, m.List(), 20)
}
