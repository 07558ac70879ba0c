// Package api exposes the Klondike game service over HTTP.
//
// Sessions:
//   - POST /api/sessions {"config_id": "classic"}
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N
//   - GET /api/sessions/{id}, DELETE /api/sessions/{id}
//
// Play:
//   - GET /api/sessions/{id}/state
//   - POST /api/sessions/{id}/new-game
//   - POST /api/sessions/{id}/draw
//   - POST /api/sessions/{id}/pick {"card_id": "7h", "pile": "tableau", "key": "2", "kind": "single"}
//   - POST /api/sessions/{id}/pick-empty {"pile": "foundation", "key": "hearts"}
//   - POST /api/sessions/{id}/deselect
//   - GET /api/sessions/{id}/history?page=1&limit=20&order=desc
//
// Configuration:
//   - GET /api/configs, POST /api/configs, GET /api/configs/{name}
//
// Every play call answers with a service.ActionResult and pushes the new
// snapshot to the session's WebSocket clients (/ws?session=<id>).
//
// Errors are JSON objects of the form {"error": "..."}. Malformed requests and
// unknown piles give 400, unknown sessions and configs give 404, and a session
// table with no free IDs gives 503.
package api
