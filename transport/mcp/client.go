package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Ladder Dare",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Ladder Dare - MCP Interface

This is a thin client that proxies all requests to the REST API server.
It drives a hot-seat game: every player sits at the same table and the
agent presses the buttons for whoever's turn it is.

GAME OBJECTIVE:
Reach cell 100 first. Snakes send you down, ladders lift you up, and
challenge cells hand out truth or dare cards that may move you again.

AVAILABLE TOOLS:
- create_session: Start a game for 2-4 players at level 1-3
- list_sessions / get_session: Inspect running games
- game_state: Board, positions and the pending challenge
- roll_dice: Roll for the current player
- accept_challenge: The current player did the challenge
- redraw_challenge: Swap the pending card for another of the same kind
- new_game: Restart, optionally with a new roster or level
- turn_log: What happened so far
- list_levels: Challenge files behind each level
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnly() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{"session_id": sessionIDSchema()},
		Required:   []string{"session_id"},
	}
}

func rosterProperties() map[string]interface{} {
	return map[string]interface{}{
		"players": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Player names in seat order (2-4). Blank names become 'Player N'.",
		},
		"level": map[string]interface{}{
			"type":        "integer",
			"description": "Challenge level 1-3",
		},
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with a roster and a challenge level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: rosterProperties(),
			Required:   []string{"players"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnly(),
	}, c.handleGetSession)

	// Turn commands
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, positions and pending challenge",
		InputSchema: sessionOnly(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the current player. Ignored while a challenge is pending or the game is over.",
		InputSchema: sessionOnly(),
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "accept_challenge",
		Description: "Mark the pending challenge as done, apply its movement and end the turn",
		InputSchema: sessionOnly(),
	}, c.handleAcceptChallenge)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "redraw_challenge",
		Description: "Replace the pending challenge with another card of the same category",
		InputSchema: sessionOnly(),
	}, c.handleRedrawChallenge)

	newGameProps := rosterProperties()
	newGameProps["session_id"] = sessionIDSchema()
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start over in the same session. Omit players or level to keep the current ones.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: newGameProps,
			Required:   []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_log",
		Description: "Read the turn log with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Lines per page (default 50)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnLog)

	// Challenges
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List challenge levels with their truth and dare counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Ladder Dare",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// rosterBody reads players and level from tool arguments. JSON numbers
// arrive as float64.
func rosterBody(args map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{}
	if raw, ok := args["players"].([]interface{}); ok {
		players := make([]string, 0, len(raw))
		for _, p := range raw {
			name, _ := p.(string)
			players = append(players, name)
		}
		body["players"] = players
	}
	if level, ok := args["level"].(float64); ok {
		body["level"] = int(level)
	}
	return body
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := rosterBody(arguments(request))
	if _, ok := body["level"]; !ok {
		body["level"] = 1
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPlayers: %s\nLevel: %d\n\n%s",
		session.ID, strings.Join(session.Players, ", "), session.Level, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := ""
		if s.GameState != nil {
			phase = string(s.GameState.Phase)
		}
		result += fmt.Sprintf("- %s (Players: %s, Level: %d, Phase: %s, Created: %s)\n",
			s.ID, strings.Join(s.Players, ", "), s.Level, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.command(ctx, request, "/roll", nil)
}

func (c *Client) handleAcceptChallenge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.command(ctx, request, "/accept", nil)
}

func (c *Client) handleRedrawChallenge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.command(ctx, request, "/redraw", nil)
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.command(ctx, request, "/new-game", rosterBody(arguments(request)))
}

func (c *Client) command(ctx context.Context, request mcp.CallToolRequest, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleTurnLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprint(int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprint(int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var log service.LogResponse
	if err := c.apiCall(ctx, "GET", path, nil, &log); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnLog(&log)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Levels []service.LevelInfo `json:"levels"`
	}
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Challenge Levels:\n\n"
	for _, level := range response.Levels {
		source := level.Filename
		switch {
		case source == "":
			source = "no file, plays without cards"
		case level.Fallback:
			source += " (shared fallback)"
		}
		result += fmt.Sprintf("• Level %d: %s\n  Truths: %d, Dares: %d, Skipped: %d\n",
			level.Level, source, level.Truths, level.Dares, level.Skipped)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Ladder Dare - Complete Instructions

GAME OBJECTIVE:
Be the first player to reach cell 100.

SETUP:
• 2 to 4 players sit at one table and take turns in seat order
• Each game generates 3 snakes and 2 ladders on a 100-cell board
• Up to 40 cells carry a truth or dare card from the chosen level

TURN SEQUENCE:
1. roll_dice: the current player rolls 1-6 and moves forward
2. Overshooting 100 bounces back: 98 + 6 lands on 96
3. Landing on a snake head slides down; a ladder foot climbs up
4. Landing on a challenge cell reveals its card and the turn waits
5. accept_challenge: the player did it; any movement on the card applies
6. redraw_challenge: swap the card for another of the same category

CHALLENGE EFFECTS:
• "maju N" / "forward N" moves N cells forward, never past 100
• "mundur N" / "back N" moves N cells back, never below 1
• "detik" / "seconds" marks a timed challenge (30 seconds unless stated)
• Effects never trigger snakes or ladders

VICTORY CONDITIONS:
• The first player whose final cell is 100 wins
• After that every roll, accept and redraw is ignored until new_game

TIPS FOR AGENTS:
• Check game_state before acting; the phase tells you which command applies
• An ignored command returns "accepted: false" and changes nothing
• turn_log shows the story of the game, newest turn last

Have fun and play fair!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPlayers: %s\nLevel: %d\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, strings.Join(session.Players, ", "), session.Level, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Level: %d | Round: %d | Phase: %s\n\n", state.Level, state.Rounds, state.Phase))

	result.WriteString("Players:\n")
	for i, name := range state.Players {
		marker := "  "
		if i == state.Turn && !state.GameOver() {
			marker = "▶ "
		}
		result.WriteString(fmt.Sprintf("%s%s: cell %d\n", marker, name, state.Positions[i]))
	}

	if hazards := state.Hazards(); len(hazards) > 0 {
		result.WriteString("\nHazards:\n")
		for _, h := range hazards {
			result.WriteString(fmt.Sprintf("  %s %d → %d\n", h.Kind, h.Start, h.End))
		}
	}

	counts := engine.CountByCategory(state)
	result.WriteString(fmt.Sprintf("\nChallenge cells: %d (truth %d, dare %d)\n",
		len(state.Assignment), counts["truth"], counts["dare"]))

	if p := state.Pending; p != nil {
		result.WriteString(fmt.Sprintf("\nPending %s on cell %d: %s\n", p.Category, p.Cell, p.Text))
		if p.Timed {
			result.WriteString(fmt.Sprintf("Timer: %d seconds\n", p.TimerSeconds))
		}
	}

	if state.GameOver() && state.Winner >= 0 && state.Winner < len(state.Players) {
		result.WriteString(fmt.Sprintf("\n🎉 %s WINS!", state.Players[state.Winner]))
	}

	return result.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var out strings.Builder

	if !result.Accepted {
		out.WriteString("Ignored: " + result.Message + "\n\n")
		out.WriteString(formatGameState(result.GameState))
		return out.String()
	}

	if result.Message != "" {
		out.WriteString(result.Message + "\n")
	}
	for _, event := range result.Events {
		out.WriteString(fmt.Sprintf("• [%s] %s\n", event.Type, event.Message))
	}
	if len(result.Standings) > 0 {
		out.WriteString("\nStandings:\n")
		for i, s := range result.Standings {
			out.WriteString(fmt.Sprintf("%d. %s (cell %d)\n", i+1, s.Name, s.Position))
		}
	}
	out.WriteString("\n")
	out.WriteString(formatGameState(result.GameState))
	return out.String()
}

func formatTurnLog(log *service.LogResponse) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("Turn log (page %d/%d, %d lines):\n", log.Page, log.TotalPages, log.TotalLines))
	for _, line := range log.Lines {
		out.WriteString(line + "\n")
	}
	if len(log.Current) > 0 {
		out.WriteString("\nCurrent turn:\n")
		for _, line := range log.Current {
			out.WriteString(line + "\n")
		}
	}
	if log.HasNext {
		out.WriteString("\nMore lines on the next page.")
	}
	return out.String()
}
