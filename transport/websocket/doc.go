// Package websocket pushes Klondike table updates to browser clients.
//
// A central Hub owns every connection. Clients join a session with
// /ws?session=<id>; the hub then forwards two kinds of message to them:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "victory", "data": {"game_id": "..."}}
//
// Incoming client messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	svc := service.NewGameService(sessions, configs, service.WithWinNotifier(hub))
//
// All client bookkeeping happens on the Run goroutine, so the broadcast
// methods are safe to call from request handlers and timers.
package websocket
