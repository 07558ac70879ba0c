// Package config loads and caches Klondike table configurations.
//
// A table configuration is a JSON file in the configs directory. It names the
// table, optionally fixes the shuffle seed, sets how long a victory
// announcement is deferred, and supplies the player-facing messages:
//
//	{
//	  "name": "classic",
//	  "description": "Draw one, unlimited passes",
//	  "win_notify_delay_ms": 1500,
//	  "messages": {"welcome": "New deal.", "victory": "You win!"}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	table, err := manager.LoadConfig("seeded")
//	configs, err := manager.ListConfigs()
//
// When the directory holds no valid file the manager falls back to
// engine.DefaultGameConfig.
package config
