// Command autoplay plays Ladder Dare against a running server through the
// REST API. It rolls for every player, optionally redraws each challenge a
// few times before accepting it, and plays a number of games back to back on
// one session, reporting who won and how long each game took.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
)

// ErrCommandLimit is returned when a game does not finish within the
// command budget.
var ErrCommandLimit = errors.New("command limit reached before a winner")

// Client talks to the REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// CreateSession starts a session for the roster.
func (c *Client) CreateSession(ctx context.Context, players []string, level int) (*service.SessionInfo, error) {
	var info service.SessionInfo
	body := map[string]interface{}{"players": players, "level": level}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetState fetches the current state of a session.
func (c *Client) GetState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID)+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Command posts roll, accept, redraw or new-game.
func (c *Client) Command(ctx context.Context, sessionID, command string) (*service.CommandResult, error) {
	var result service.CommandResult
	path := fmt.Sprintf("/api/sessions/%s/%s", url.PathEscape(sessionID), command)
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GameResult summarizes one finished game.
type GameResult struct {
	Winner     string
	Rounds     int
	Commands   int
	Challenges int
	Redraws    int
	Snakes     int
	Ladders    int
}

// Bot plays one session.
type Bot struct {
	client      *Client
	sessionID   string
	redraws     int
	maxCommands int
	delay       time.Duration
	logger      *zap.Logger
}

// PlayGame plays the current game of the session to the end.
func (b *Bot) PlayGame(ctx context.Context) (GameResult, error) {
	var result GameResult

	state, err := b.client.GetState(ctx, b.sessionID)
	if err != nil {
		return result, err
	}

	redrawn := 0
	for result.Commands < b.maxCommands {
		if state.GameOver() {
			if state.Winner >= 0 && state.Winner < len(state.Players) {
				result.Winner = state.Players[state.Winner]
			}
			result.Rounds = state.Rounds
			return result, nil
		}

		command := "roll"
		if state.Pending != nil {
			if redrawn < b.redraws {
				command = "redraw"
				redrawn++
				result.Redraws++
			} else {
				command = "accept"
				redrawn = 0
				result.Challenges++
			}
		}

		res, err := b.client.Command(ctx, b.sessionID, command)
		if err != nil {
			return result, err
		}
		result.Commands++
		if !res.Accepted {
			return result, fmt.Errorf("%s ignored in phase %s", command, res.Report.Phase)
		}
		if h := res.Report.Hazard; h != nil {
			if h.End < h.Start {
				result.Snakes++
			} else {
				result.Ladders++
			}
		}

		b.logger.Debug("command",
			zap.String("command", command),
			zap.String("player", res.Report.PlayerName),
			zap.Int("roll", res.Report.Roll),
			zap.Int("final", res.Report.Final))

		state = res.GameState
		if b.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(b.delay):
			}
		}
	}
	return result, ErrCommandLimit
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play Ladder Dare games through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringSliceFlag{Name: "players", Value: []string{"Bot 1", "Bot 2"}, Usage: "Player names"},
			&cli.IntFlag{Name: "level", Value: 1, Usage: "Challenge level"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Games to play back to back"},
			&cli.IntFlag{Name: "redraws", Value: 0, Usage: "Redraws per challenge before accepting"},
			&cli.IntFlag{Name: "max-commands", Value: 5000, Usage: "Maximum commands per game"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between commands"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := zap.NewNop()
	if cmd.Bool("v") {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	client := NewClient(cmd.String("url"))
	out := cmd.Root().Writer

	sessionID := cmd.String("continue")
	if sessionID == "" {
		info, err := client.CreateSession(ctx, cmd.StringSlice("players"), cmd.Int("level"))
		if err != nil {
			return err
		}
		sessionID = info.ID
	}
	fmt.Fprintf(out, "Session %s\n", sessionID)

	bot := &Bot{
		client:      client,
		sessionID:   sessionID,
		redraws:     cmd.Int("redraws"),
		maxCommands: cmd.Int("max-commands"),
		delay:       cmd.Duration("delay"),
		logger:      logger,
	}

	wins := make(map[string]int)
	games := cmd.Int("games")
	for game := 1; game <= games; game++ {
		if game > 1 {
			if _, err := client.Command(ctx, sessionID, "new-game"); err != nil {
				return err
			}
		}
		result, err := bot.PlayGame(ctx)
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}
		wins[result.Winner]++
		fmt.Fprintf(out, "Game %d: %s won after %d rounds (%d commands, %d challenges, %d snakes, %d ladders)\n",
			game, result.Winner, result.Rounds, result.Commands, result.Challenges, result.Snakes, result.Ladders)
	}

	printWins(out, wins, games)
	return nil
}

func printWins(out io.Writer, wins map[string]int, games int) {
	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if wins[names[i]] != wins[names[j]] {
			return wins[names[i]] > wins[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintf(out, "\n%d games\n", games)
	for _, name := range names {
		fmt.Fprintf(out, "  %-12s %d\n", name, wins[name])
	}
}
