package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func sampleState() *engine.GameState {
	state := engine.NewGameState([]string{"Ana", "Budi"}, 2)
	state.Positions = []int{12, 40}
	state.Snakes = map[int]int{50: 20}
	state.Ladders = map[int]int{8: 30}
	state.Assignment = map[string]deck.Card{
		"15": {Text: "Truth: Siapa?", Category: deck.Truth},
		"22": {Text: "Dare: Maju 2", Category: deck.Dare},
	}
	return state
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Unexpected response %v", response)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})

	t.Run("plain http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got: %v", err)
		}
	})

	t.Run("json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session abc: session not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || err.Error() != "session abc: session not found" {
			t.Errorf("Expected API error message, got: %v", err)
		}
	})
}

func TestClient_handleCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body struct {
			Players []string `json:"players"`
			Level   int      `json:"level"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Players) != 2 || body.Players[0] != "Ana" || body.Level != 1 {
			t.Errorf("Unexpected body %+v", body)
		}

		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:        "test-session-123",
			Players:   body.Players,
			Level:     body.Level,
			GameState: sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		toolRequest("create_session", map[string]interface{}{"players": []interface{}{"Ana", "Budi"}}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") || !strings.Contains(text, "Ana, Budi") {
		t.Errorf("Expected session summary, got: %s", text)
	}
}

func TestClient_commands(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(service.CommandResult{
			Accepted:  true,
			GameState: sampleState(),
			Events: []service.GameEvent{
				{Type: service.EventRoll, Message: "Ana rolled 4"},
				{Type: service.EventLadder, Message: "Climbed a ladder from 8 to 30"},
			},
			Standings: []engine.Standing{{Name: "Budi", Position: 40}, {Name: "Ana", Position: 30}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	args := map[string]interface{}{"session_id": "abc"}

	handlers := []func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		client.handleRollDice,
		client.handleAcceptChallenge,
		client.handleRedrawChallenge,
		client.handleNewGame,
	}
	for _, handle := range handlers {
		result, err := handle(ctx, toolRequest("cmd", args))
		if err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "[ladder] Climbed a ladder") || !strings.Contains(text, "1. Budi (cell 40)") {
			t.Errorf("Unexpected command output: %s", text)
		}
	}

	expected := []string{
		"POST /api/sessions/abc/roll",
		"POST /api/sessions/abc/accept",
		"POST /api/sessions/abc/redraw",
		"POST /api/sessions/abc/new-game",
	}
	for i, p := range expected {
		if paths[i] != p {
			t.Errorf("Call %d: expected %s, got %s", i, p, paths[i])
		}
	}
}

func TestClient_missingSessionID(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	result, err := client.handleRollDice(context.Background(), toolRequest("roll_dice", nil))
	if err != nil {
		t.Fatalf("Expected tool error, not Go error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result")
	}
}

func TestClient_handleTurnLog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "desc" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.LogResponse{
			Lines:      []string{"▶ Ana", "  rolled 3"},
			Current:    []string{"▶ Budi"},
			TotalLines: 12,
			Page:       2,
			TotalPages: 3,
			HasNext:    true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleTurnLog(context.Background(), toolRequest("turn_log", map[string]interface{}{
		"session_id": "abc", "page": float64(2), "limit": float64(5), "order": "desc",
	}))
	if err != nil {
		t.Fatalf("handleTurnLog failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"page 2/3", "rolled 3", "Current turn:", "next page"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %s", want, text)
		}
	}
}

func TestClient_handleListLevels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"levels": []service.LevelInfo{
				{Level: 1, Filename: "challenges_lv1.json", Truths: 5, Dares: 6},
				{Level: 2, Filename: "challenges.json", Fallback: true},
				{Level: 3},
			},
		})
	}))
	defer server.Close()

	result, _ := NewClient(server.URL).handleListLevels(context.Background(), toolRequest("list_levels", nil))
	text := resultText(t, result)
	for _, want := range []string{"Level 1: challenges_lv1.json", "Truths: 5, Dares: 6", "shared fallback", "plays without cards"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %s", want, text)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	state := sampleState()
	state.Pending = &engine.PendingChallenge{Cell: 22, Text: "Dare: Maju 2", Category: deck.Dare, Timed: true, TimerSeconds: 30}

	text := formatGameState(state)
	for _, want := range []string{"▶ Ana: cell 12", "Budi: cell 40", "ladder 8 → 30", "snake 50 → 20", "truth 1, dare 1", "Pending dare on cell 22", "Timer: 30 seconds"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatGameState_Winner(t *testing.T) {
	state := sampleState()
	state.Phase = engine.PhaseGameOver
	state.Winner = 1
	state.Positions[1] = board.Total

	text := formatGameState(state)
	if !strings.Contains(text, "Budi WINS") {
		t.Errorf("Expected winner line, got %s", text)
	}
	if strings.Contains(text, "▶") {
		t.Error("No turn marker once the game is over")
	}
}

func TestFormatCommandResult_Ignored(t *testing.T) {
	text := formatCommandResult(&service.CommandResult{
		Accepted:  false,
		Message:   "roll ignored during game_over",
		GameState: sampleState(),
	})
	if !strings.HasPrefix(text, "Ignored: roll ignored") {
		t.Errorf("Unexpected output %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Ladder Dare - Complete Instructions",
		"GAME OBJECTIVE:",
		"TURN SEQUENCE:",
		"98 + 6 lands on 96",
		"CHALLENGE EFFECTS:",
		"VICTORY CONDITIONS:",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
