// Package engine provides the core rules and state for a game of Klondike Solitaire.
//
// The engine package implements:
//   - Deck construction and Fisher-Yates shuffling behind an injectable RNG
//   - The triangular deal into seven tableau columns and a 24-card stock
//   - Move validation for foundations and tableau columns
//   - Move execution, stock draw and waste recycle, tableau auto-flip
//   - Selection handling for single and double picks
//   - One-shot win detection
//   - Table configuration loading and validation
//
// Core Types:
//
// Board is the single aggregate holding stock, waste, the four foundations
// (indexed by Suit) and the seven tableau columns, plus the current
// Selection. Only DrawFromStock and moveCards change pile contents, which
// keeps the 52-card conservation check in one place.
//
// The Engine interface wraps a Board for callers, implemented by
// GameEngine. GameEngine serializes every operation behind one mutex and owns
// the game ID, the win callback and the move history.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.SetWinHandler(func(gameID string) { ... })
//	gameEngine.DrawFromStock()
//	snap := gameEngine.Snapshot()
//	if snap.WasteTop != nil {
//		gameEngine.HandleCardPick(snap.WasteTop.ID, engine.Waste(), engine.DoublePick)
//	}
//
// Player mistakes are never errors: an illegal pick or move comes back as
// OutcomeRejected, and drawing from an empty stock and waste does nothing.
package engine
