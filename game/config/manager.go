package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is tried first when picking the default table
const DefaultConfigName = "classic"

const fileExt = ".json"

// Manager serves table configurations from a directory of JSON files.
// Parsed tables are cached by config ID until RefreshCache.
type Manager struct {
	dir   string
	log   logrus.FieldLogger
	mu    sync.RWMutex
	cache map[string]*engine.GameConfig
	def   *engine.GameConfig
}

// NewManager creates a configuration manager over configDir
func NewManager(configDir string) (*Manager, error) {
	return NewManagerWithLogger(configDir, logrus.StandardLogger())
}

// NewManagerWithLogger creates a configuration manager that logs to log
func NewManagerWithLogger(configDir string, log logrus.FieldLogger) (*Manager, error) {
	info, err := os.Stat(configDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	case err != nil:
		return nil, fmt.Errorf("config directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("config path is not a directory: %s", configDir)
	}

	m := &Manager{
		dir:   configDir,
		log:   log.WithField("component", "config"),
		cache: make(map[string]*engine.GameConfig),
	}
	m.resolveDefault()
	return m, nil
}

// configID strips an optional .json suffix; ok is false for names that
// could escape the directory
func configID(name string) (id string, ok bool) {
	id = strings.TrimSuffix(name, fileExt)
	return id, id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// decode parses a table strictly and validates it
func decode(data []byte) (*engine.GameConfig, error) {
	var cfg engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := engine.ValidateGameConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func (m *Manager) cached(id string) (*engine.GameConfig, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.cache[id]
	return cfg, ok
}

// LoadConfig returns the table with the given ID, with or without the .json suffix
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id, ok := configID(name)
	if !ok {
		return nil, ErrConfigNotFound
	}
	if cfg, ok := m.cached(id); ok {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Join(m.dir, id+fileExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id+fileExt, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// a concurrent load may have won; keep the first pointer
	if existing, ok := m.cache[id]; ok {
		return existing, nil
	}
	m.cache[id] = cfg
	m.log.WithFields(logrus.Fields{"config": id, "seeded": cfg.Seed != nil}).Debug("config loaded")
	return cfg, nil
}

// ListConfigs describes every valid table in the directory, sorted by file name.
// Invalid files are logged and skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	// ReadDir returns entries sorted by file name
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	infos := make([]*service.ConfigInfo, 0, len(entries))
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || filepath.Ext(file) != fileExt {
			continue
		}
		id, _ := configID(file)
		cfg, err := m.LoadConfig(id)
		if err != nil {
			m.log.WithError(err).WithField("file", file).Warn("skipping invalid config")
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			Filename:         file,
			ConfigID:         id,
			Name:             cfg.Name,
			Description:      cfg.Description,
			Seeded:           cfg.Seed != nil,
			WinNotifyDelayMs: cfg.WinNotifyDelayMs,
		})
	}
	return infos, nil
}

// GetDefault returns the default table
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// SetDefault makes the named table the default
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.def = cfg
	m.mu.Unlock()
	return nil
}

// RefreshCache forgets every parsed table and resolves the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.cache = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.resolveDefault()
}

// Count returns the number of cached tables
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// resolveDefault picks classic.json, then the first valid file, then the built-in table
func (m *Manager) resolveDefault() {
	cfg, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		cfg = engine.DefaultGameConfig()
		if infos, listErr := m.ListConfigs(); listErr == nil && len(infos) > 0 {
			if first, err := m.LoadConfig(infos[0].ConfigID); err == nil {
				cfg = first
			}
		} else {
			m.log.WithField("dir", m.dir).Info("no table configs found, using built-in classic")
		}
	}

	m.mu.Lock()
	m.def = cfg
	m.mu.Unlock()
}

// SaveConfig validates a table and writes it to the directory as name.json
func (m *Manager) SaveConfig(name string, cfg *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	id, ok := configID(name)
	if !ok {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, id+fileExt), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.cache[id] = cfg
	m.mu.Unlock()

	m.log.WithField("config", id).Info("config saved")
	return nil
}
