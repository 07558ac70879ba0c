// Package service provides the business logic layer for the Klondike server.
//
// The service package implements:
//   - Multi-session game management
//   - Table configuration lookup
//   - Player actions (draw, pick, empty-slot pick, deselect, new game)
//   - Event extraction from the engine's move log
//   - Delayed victory notification
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages table configuration loading and validation.
// WinNotifier receives a victory once the table's announcement delay has passed.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and the
// terminal console) and the game engine. Each session owns its own engine.
// The engine signals a win synchronously while it is locked; the service only
// schedules the announcement from that callback and drops it if a new game
// was dealt in the meantime.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithWinNotifier(hub))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Draw(ctx, info.ID)
package service
