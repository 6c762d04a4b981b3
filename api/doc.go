// Package api provides the HTTP REST API for Ladder Dare.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session from {"players": [...], "level": N}
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit)
//   - GET /api/sessions/{id} - Get a session with its state and rules
//   - DELETE /api/sessions/{id} - Delete a session
//
// Turn Commands:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/roll - Roll for the current player
//   - POST /api/sessions/{id}/accept - Accept the pending challenge
//   - POST /api/sessions/{id}/redraw - Draw a different card for the pending cell
//   - POST /api/sessions/{id}/new-game - Restart, optionally with a new roster and level
//   - GET /api/sessions/{id}/log - Turn log with page, limit and order
//
// Other:
//   - GET /api/levels - Challenge files behind each level
//   - GET /api/health - Liveness probe
//   - GET /ws?session={id} - Read-only observer stream, see package websocket
//
// A command that does not apply in the current phase (rolling while a
// challenge is pending, accepting with nothing pending) still answers 200
// with "accepted": false; the game state is unchanged.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session abc12345: session not found"}
//
// Unknown sessions answer 404, an invalid roster or level answers 400 and
// anything else answers 500.
package api
