package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxWinNotifyDelayMs caps how long a victory announcement may be deferred
const MaxWinNotifyDelayMs = 10000

// Messages are the player-facing texts for each kind of outcome
type Messages struct {
	Welcome    string `json:"welcome"`
	Selected   string `json:"selected,omitempty"`
	Moved      string `json:"moved,omitempty"`
	Rejected   string `json:"rejected,omitempty"`
	Deselected string `json:"deselected,omitempty"`
	Drew       string `json:"drew,omitempty"`
	Recycled   string `json:"recycled,omitempty"`
	StockEmpty string `json:"stock_empty,omitempty"`
	Victory    string `json:"victory"`
}

// GameConfig is a table configuration loaded from the configs directory
type GameConfig struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Seed             *int64   `json:"seed,omitempty"`
	WinNotifyDelayMs int      `json:"win_notify_delay_ms"`
	StrictInvariants bool     `json:"strict_invariants"`
	Messages         Messages `json:"messages"`
}

// WinNotifyDelay returns the victory announcement delay
func (c *GameConfig) WinNotifyDelay() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.WinNotifyDelayMs) * time.Millisecond
}

// messageFor picks the configured text for an outcome, falling back to a default
func (c *GameConfig) messageFor(pick func(Messages) string, fallback string) string {
	if c != nil {
		if msg := pick(c.Messages); msg != "" {
			return msg
		}
	}
	return fallback
}

// ValidateGameConfig validates a table configuration
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}
	if config.WinNotifyDelayMs < 0 || config.WinNotifyDelayMs > MaxWinNotifyDelayMs {
		return fmt.Errorf("%w: win_notify_delay_ms must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxWinNotifyDelayMs, config.WinNotifyDelayMs)
	}
	if config.Messages.Welcome == "" {
		return fmt.Errorf("%w: messages.welcome is required", ErrInvalidConfig)
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("%w: messages.victory is required", ErrInvalidConfig)
	}
	return nil
}

// LoadGameConfig loads a table configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// CONFIG_DIR replaces a leading configs/ directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a table configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	config, err := LoadGameConfig(filepath.Join("configs", configName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file '%s' not found", configName)
		}
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// DefaultGameConfig is the built-in table used when no file is available
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Klondike, draw one, unlimited passes through the stock",
		Messages: Messages{
			Welcome:    "New deal. Build each foundation from Ace to King.",
			Selected:   "Selected.",
			Moved:      "Moved.",
			Rejected:   "That move is not allowed.",
			Deselected: "Selection cleared.",
			Drew:       "Drew a card.",
			Recycled:   "Waste turned back into the stock.",
			StockEmpty: "Stock and waste are both empty.",
			Victory:    "All four foundations complete. You win!",
		},
	}
}
