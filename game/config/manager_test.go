package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/klondike/game/engine"
)

func table(name string) *engine.GameConfig {
	return &engine.GameConfig{
		Name:             name,
		Description:      name + " table",
		WinNotifyDelayMs: 100,
		Messages: engine.Messages{
			Welcome:  "Welcome!",
			Rejected: "No.",
			Victory:  "Victory!",
		},
	}
}

func seededTable(name string, seed int64) *engine.GameConfig {
	cfg := table(name)
	cfg.Seed = &seed
	return cfg
}

// tableDir writes each table as <id>.json and raw files verbatim
func tableDir(t *testing.T, tables map[string]*engine.GameConfig, raw map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for id, cfg := range tables {
		data, err := json.MarshalIndent(cfg, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0644))
	}
	for file, content := range raw {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
	}
	return dir
}

func newManager(t *testing.T, dir string) (*Manager, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m, err := NewManagerWithLogger(dir, logger)
	require.NoError(t, err)
	return m, hook
}

func TestNewManagerRejectsBadDirectories(t *testing.T) {
	_, err := NewManager("/non/existent/path")
	assert.ErrorContains(t, err, "does not exist")

	file := filepath.Join(t.TempDir(), "classic.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	_, err = NewManager(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestDefaultTableResolution(t *testing.T) {
	tests := []struct {
		name   string
		tables map[string]*engine.GameConfig
		raw    map[string]string
		want   string
	}{
		{
			name:   "classic wins over earlier files",
			tables: map[string]*engine.GameConfig{"another": table("Another"), "classic": table("Classic Table")},
			want:   "Classic Table",
		},
		{
			name:   "first valid file without classic",
			tables: map[string]*engine.GameConfig{"bravo": table("Bravo"), "charlie": table("Charlie")},
			raw:    map[string]string{"aaa.json": `{}`},
			want:   "Bravo",
		},
		{
			name: "built-in table for an empty directory",
			want: engine.DefaultGameConfig().Name,
		},
		{
			name: "built-in table when nothing parses",
			raw:  map[string]string{"classic.json": `{"name": "x"`, "notes.txt": "hello"},
			want: engine.DefaultGameConfig().Name,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newManager(t, tableDir(t, tt.tables, tt.raw))
			def := m.GetDefault()
			require.NotNil(t, def)
			assert.Equal(t, tt.want, def.Name)
			assert.NoError(t, engine.ValidateGameConfig(def))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := tableDir(t, map[string]*engine.GameConfig{
		"classic": table("Classic"),
		"seeded":  seededTable("Seeded", 42),
		"slow": func() *engine.GameConfig {
			c := table("Slow")
			c.WinNotifyDelayMs = engine.MaxWinNotifyDelayMs + 1
			return c
		}(),
	}, map[string]string{
		"unnamed.json":   `{"name": ""}`,
		"malformed.json": `{"name": "Malformed", invalid json}`,
		"legacy.json":    `{"name": "Grid", "description": "old", "grid_size": 5, "messages": {"welcome": "w", "victory": "v"}}`,
	})
	m, hook := newManager(t, dir)

	t.Run("by id and by file name", func(t *testing.T) {
		byID, err := m.LoadConfig("seeded")
		require.NoError(t, err)
		assert.Equal(t, "Seeded", byID.Name)
		require.NotNil(t, byID.Seed)
		assert.EqualValues(t, 42, *byID.Seed)

		byFile, err := m.LoadConfig("seeded.json")
		require.NoError(t, err)
		assert.Same(t, byID, byFile, "second load should come from the cache")
	})

	t.Run("logs the first load only", func(t *testing.T) {
		hook.Reset()
		_, err := m.LoadConfig("classic")
		require.NoError(t, err)
		assert.Empty(t, hook.AllEntries(), "classic is cached as the default")
	})

	notFound := []string{"non-existent", "../classic", `..\classic`, "", ".json", ".."}
	for _, name := range notFound {
		t.Run(fmt.Sprintf("not found %q", name), func(t *testing.T) {
			_, err := m.LoadConfig(name)
			assert.ErrorIs(t, err, ErrConfigNotFound)
		})
	}

	invalid := map[string]string{
		"unnamed":   "name is required",
		"slow":      "win_notify_delay_ms",
		"malformed": "malformed.json",
		"legacy":    "grid_size",
	}
	for id, wantMsg := range invalid {
		t.Run("invalid "+id, func(t *testing.T) {
			_, err := m.LoadConfig(id)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, wantMsg)
		})
	}
}

func TestSetDefault(t *testing.T) {
	m, _ := newManager(t, tableDir(t, map[string]*engine.GameConfig{
		"classic": table("Classic"),
		"other":   table("Other"),
	}, nil))

	require.NoError(t, m.SetDefault("other"))
	assert.Equal(t, "Other", m.GetDefault().Name)

	assert.ErrorIs(t, m.SetDefault("missing"), ErrConfigNotFound)
	assert.Equal(t, "Other", m.GetDefault().Name, "failed SetDefault keeps the old default")
}

func TestListConfigs(t *testing.T) {
	m, hook := newManager(t, tableDir(t, map[string]*engine.GameConfig{
		"seeded":  seededTable("Seeded", 7),
		"relaxed": table("Relaxed"),
		"classic": table("Classic"),
	}, map[string]string{
		"readme.txt":  "readme",
		"broken.json": `{"name":"x"}`,
	}))
	require.NoError(t, os.Mkdir(filepath.Join(m.dir, "nested.json"), 0755))

	hook.Reset()
	infos, err := m.ListConfigs()
	require.NoError(t, err)

	var files []string
	for _, info := range infos {
		files = append(files, info.Filename)
		assert.Equal(t, info.ConfigID+".json", info.Filename)
		assert.Equal(t, info.ConfigID == "seeded", info.Seeded, info.ConfigID)
		assert.Equal(t, 100, info.WinNotifyDelayMs)
		assert.Equal(t, info.Name+" table", info.Description)
	}
	assert.Equal(t, []string{"classic.json", "relaxed.json", "seeded.json"}, files)

	var skipped []interface{}
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping invalid config" {
			skipped = append(skipped, e.Data["file"])
		}
	}
	assert.Equal(t, []interface{}{"broken.json"}, skipped)
}

func TestListConfigsEmptyDirectory(t *testing.T) {
	m, _ := newManager(t, t.TempDir())

	infos, err := m.ListConfigs()
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.NotNil(t, infos, "encodes as [] rather than null")
}

func TestSaveConfig(t *testing.T) {
	m, _ := newManager(t, t.TempDir())

	saved := seededTable("Saved", 99)
	require.NoError(t, m.SaveConfig("saved.json", saved))

	data, err := os.ReadFile(filepath.Join(m.dir, "saved.json"))
	require.NoError(t, err)
	roundTrip, err := decode(data)
	require.NoError(t, err, "saved files must load strictly")
	assert.Equal(t, saved, roundTrip)

	loaded, err := m.LoadConfig("saved")
	require.NoError(t, err)
	assert.Same(t, saved, loaded)

	broken := table("Broken")
	broken.Messages.Victory = ""
	assert.ErrorIs(t, m.SaveConfig("broken", broken), ErrInvalidConfig)
	assert.NoFileExists(t, filepath.Join(m.dir, "broken.json"))

	for _, name := range []string{"../escape", "a/b", ""} {
		assert.ErrorIs(t, m.SaveConfig(name, table("Escape")), ErrInvalidConfig, name)
	}
}

func TestRefreshCacheRereadsFiles(t *testing.T) {
	cfg := table("Changeable")
	cfg.WinNotifyDelayMs = 10
	dir := tableDir(t, map[string]*engine.GameConfig{"classic": cfg}, nil)
	m, _ := newManager(t, dir)

	loaded, err := m.LoadConfig("classic")
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.WinNotifyDelayMs)

	cfg.WinNotifyDelayMs = 20
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644))

	stale, _ := m.LoadConfig("classic")
	assert.Equal(t, 10, stale.WinNotifyDelayMs, "cache serves the old copy until refreshed")

	m.RefreshCache()

	fresh, err := m.LoadConfig("classic")
	require.NoError(t, err)
	assert.Equal(t, 20, fresh.WinNotifyDelayMs)
	assert.Equal(t, 20, m.GetDefault().WinNotifyDelayMs)
}

func TestConcurrentLoadsShareOnePointer(t *testing.T) {
	tables := map[string]*engine.GameConfig{"classic": table("Classic")}
	for i := 1; i <= 5; i++ {
		tables[fmt.Sprintf("table%d", i)] = table(fmt.Sprintf("Table %d", i))
	}
	m, _ := newManager(t, tableDir(t, tables, nil))

	var wg sync.WaitGroup
	got := make([]*engine.GameConfig, 50)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := m.LoadConfig(fmt.Sprintf("table%d", i%5+1))
			assert.NoError(t, err)
			got[i] = cfg
		}(i)
	}
	wg.Wait()

	for i := 5; i < len(got); i++ {
		assert.Same(t, got[i%5], got[i])
	}
	assert.Equal(t, 6, m.Count())
}
