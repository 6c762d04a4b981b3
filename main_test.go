package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/game/config"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Ladder Dare" {
		t.Errorf("Expected app name Ladder Dare, got %s", AppName)
	}
}

func writeChallenges(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	texts := map[string]string{
		"1": "Truth: Apa mimpi terburukmu?",
		"2": "Dare: Menari selama 10 detik",
		"3": "Dare: Maju 2 langkah",
		"4": "Truth: Siapa idolamu?",
	}
	data, err := json.Marshal(texts)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "challenges.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadRules(t *testing.T) {
	t.Run("defaults with seed", func(t *testing.T) {
		rules, err := loadRules("", 42)
		if err != nil {
			t.Fatalf("loadRules failed: %v", err)
		}
		if rules.Seed != 42 || rules.NumSnakes != engine.DefaultGameConfig().NumSnakes {
			t.Errorf("Unexpected rules %+v", rules)
		}
	})

	t.Run("file overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		os.WriteFile(path, []byte(`{"name":"busy","num_snakes":6,"num_ladders":6}`), 0644)

		rules, err := loadRules(path, 0)
		if err != nil {
			t.Fatalf("loadRules failed: %v", err)
		}
		if rules.Name != "busy" || rules.NumSnakes != 6 || rules.MaxLevel != 3 {
			t.Errorf("Unexpected rules %+v", rules)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadRules("/non/existent/rules.json", 0); err == nil {
			t.Error("Expected error for missing rules file")
		}
	})
}

func TestInitializeServices(t *testing.T) {
	gameService, sessions, err := initializeServices(writeChallenges(t), engine.DefaultGameConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil || sessions == nil {
		t.Fatal("Expected services to be initialized")
	}

	ctx := context.Background()
	info, err := gameService.CreateSession(ctx, []string{"Ana", "Budi"}, 1)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected session manager to hold the session, got %d", sessions.Count())
	}

	state, err := gameService.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if len(state.Assignment) == 0 {
		t.Error("Expected challenge cells from the challenge file")
	}
}

func TestInitializeServices_InvalidChallengeDir(t *testing.T) {
	_, _, err := initializeServices("/non/existent/path", engine.DefaultGameConfig(), zap.NewNop())
	if err == nil {
		t.Error("Expected error for non-existent challenge directory")
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := newLogger(debug)
		if err != nil || logger == nil {
			t.Errorf("newLogger(%v) = %v, %v", debug, logger, err)
		}
	}
}

func TestNewApp(t *testing.T) {
	settings := config.Settings{Port: 9090, ChallengeDir: "configs", APIURL: "http://localhost:9090"}
	app := newApp(settings, strings.NewReader(""), &bytes.Buffer{})

	if app.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, app.Version)
	}
	for _, name := range []string{"server", "stdio-mcp", "play"} {
		if app.Command(name) == nil {
			t.Errorf("Expected %s command", name)
		}
	}
	if app.Command("mcp") == nil {
		t.Error("Expected mcp alias for stdio-mcp")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://127.0.0.1:1"))

	t.Run("rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rr.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "roll_dice") {
			t.Errorf("Expected roll_dice tool in response: %s", rr.Body.String())
		}
	})
}

func TestPlayCommand(t *testing.T) {
	dir := writeChallenges(t)
	var out bytes.Buffer
	app := newApp(config.Settings{Port: 8080, ChallengeDir: dir}, strings.NewReader("r\nr\nq\n"), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	args := []string{"ladderdare", "play", "--players", "Ana,Budi", "--seed", "9", "--delay", "0s"}
	if err := app.Run(ctx, args); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Ana", "Budi", "Ana rolled"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestPlayCommand_InvalidRoster(t *testing.T) {
	app := newApp(config.Settings{ChallengeDir: writeChallenges(t)}, strings.NewReader(""), &bytes.Buffer{})

	err := app.Run(context.Background(), []string{"ladderdare", "play", "--players", "Solo"})
	if err == nil {
		t.Error("Expected error for a single player")
	}
}
