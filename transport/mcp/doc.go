// Package mcp exposes Ladder Dare to AI agents over the Model Context
// Protocol.
//
// Client is a thin proxy: every tool call becomes one REST call against a
// running API server and the JSON answer is rendered as text for the agent.
// No game state lives here.
//
// MCP Tools:
//   - create_session: Start a game for a roster at a level
//   - list_sessions, get_session: Inspect running games
//   - game_state: Board, positions and pending challenge
//   - roll_dice, accept_challenge, redraw_challenge: Turn commands
//   - new_game: Restart a session
//   - turn_log: Paginated turn log
//   - list_levels: Challenge files per level
//   - game_instructions: Rules text
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the main server mounts HandleMessage at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
