// Package mcp exposes the Klondike REST API as Model Context Protocol tools.
//
// The Client holds no game state. Every tool call becomes one HTTP request
// against a running server, and the JSON reply is rendered as a text board:
//
//	Game: 5f1c...  Moves: 12  Foundations: 6/52
//	Stock: 14  Waste: 9d (6)
//	Foundations: hearts=2h diamonds=Ad clubs=3c spades=--
//
//	Tableau:
//	  0: Ks Qh
//	  1: ## ## 8c
//
// Face-down cards are shown as ##.
//
// Tools: create_session, list_sessions, get_session, game_state, new_game,
// draw, pick, pick_empty, deselect, move_history, list_configs and
// game_instructions.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
