package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/api"
	"github.com/wricardo/ladderdare/game/config"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
	"github.com/wricardo/ladderdare/game/session"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	challenges := `{"1": "Truth: Siapa idolamu?", "2": "Dare: Maju 2 langkah", "3": "Dare: Mundur 3 langkah", "4": "Truth: Apa hobimu?"}`
	if err := os.WriteFile(filepath.Join(dir, "challenges.json"), []byte(challenges), 0644); err != nil {
		t.Fatal(err)
	}

	configManager, err := config.NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	rules := engine.DefaultGameConfig()
	rules.Seed = 11

	sessions := session.NewManager(session.WithChallengeSource(configManager))
	svc := service.NewGameService(sessions, configManager, rules, zap.NewNop())

	srv := httptest.NewServer(api.NewServer(svc, nil, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CreateAndState(t *testing.T) {
	srv := startServer(t)
	client := NewClient(srv.URL)
	ctx := context.Background()

	info, err := client.CreateSession(ctx, []string{"Ana", "Budi"}, 1)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.ID == "" {
		t.Fatal("Expected a session ID")
	}

	state, err := client.GetState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if len(state.Players) != 2 || state.Positions[0] != 1 {
		t.Errorf("Unexpected initial state %+v", state)
	}

	res, err := client.Command(ctx, info.ID, "accept")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if res.Accepted {
		t.Error("Accept without a pending challenge should be ignored")
	}
}

func TestClient_Errors(t *testing.T) {
	srv := startServer(t)
	client := NewClient(srv.URL)
	ctx := context.Background()

	if _, err := client.GetState(ctx, "missing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 error, got %v", err)
	}
	if _, err := client.CreateSession(ctx, []string{"Solo"}, 1); err == nil {
		t.Error("Expected error for a single player")
	}
}

func TestBot_PlayGame(t *testing.T) {
	srv := startServer(t)
	client := NewClient(srv.URL)
	ctx := context.Background()

	info, err := client.CreateSession(ctx, []string{"Ana", "Budi", "Citra"}, 1)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	bot := &Bot{client: client, sessionID: info.ID, redraws: 1, maxCommands: 5000, logger: zap.NewNop()}
	result, err := bot.PlayGame(ctx)
	if err != nil {
		t.Fatalf("PlayGame failed: %v", err)
	}

	if result.Winner == "" {
		t.Error("Expected a winner")
	}
	if result.Redraws != result.Challenges {
		t.Errorf("Every accepted challenge should follow one redraw, got %d redraws and %d challenges",
			result.Redraws, result.Challenges)
	}

	state, _ := client.GetState(ctx, info.ID)
	if !state.GameOver() {
		t.Error("Expected the session to be finished")
	}
}

func TestBot_CommandLimit(t *testing.T) {
	srv := startServer(t)
	client := NewClient(srv.URL)
	ctx := context.Background()

	info, _ := client.CreateSession(ctx, []string{"Ana", "Budi"}, 1)
	bot := &Bot{client: client, sessionID: info.ID, maxCommands: 3, logger: zap.NewNop()}

	if _, err := bot.PlayGame(ctx); !errors.Is(err, ErrCommandLimit) {
		t.Errorf("Expected ErrCommandLimit, got %v", err)
	}
}

func TestRun(t *testing.T) {
	srv := startServer(t)
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	args := []string{"autoplay", "--url", srv.URL, "--players", "Ana,Budi", "--games", "2"}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Session ", "Game 1:", "Game 2:", "2 games"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestPrintWins(t *testing.T) {
	var out bytes.Buffer
	printWins(&out, map[string]int{"Budi": 1, "Ana": 3}, 4)

	got := out.String()
	if strings.Index(got, "Ana") > strings.Index(got, "Budi") {
		t.Errorf("Expected most wins first:\n%s", got)
	}
}
