// Command ladderdare runs Ladder Dare, snakes and ladders with truth or dare
// challenges.
//
// It supports three modes:
//  1. "server" (default) – HTTP server exposing the REST API, the observer WebSocket and an /mcp endpoint
//  2. "stdio-mcp" – MCP stdio server; it spins up an internal HTTP API if none is reachable
//  3. "play" – hot-seat game in the terminal
//
// Settings come from the environment (and a .env file) and can be
// overridden with flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/api"
	"github.com/wricardo/ladderdare/game/config"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
	"github.com/wricardo/ladderdare/game/session"
	"github.com/wricardo/ladderdare/transport/mcp"
	"github.com/wricardo/ladderdare/transport/terminal"
	"github.com/wricardo/ladderdare/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ladder Dare"
)

func main() {
	// A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(settings, os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from settings.
func newApp(settings config.Settings, in io.Reader, out io.Writer) *cli.Command {
	serverCmd := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Action:  runHTTPServer,
	}

	return &cli.Command{
		Name:    "ladderdare",
		Usage:   AppName + ": snakes and ladders with truth or dare",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "challenge-dir", Value: settings.ChallengeDir, Usage: "Directory containing challenge files"},
			&cli.StringFlag{Name: "rules", Value: settings.RulesFile, Usage: "JSON file overriding the default rules"},
			&cli.Int64Flag{Name: "seed", Value: settings.Seed, Usage: "Fixed seed for reproducible games (0 picks one per game)"},
			&cli.BoolFlag{Name: "debug", Value: settings.Debug, Usage: "Enable debug logging"},
			&cli.DurationFlag{Name: "session-ttl", Value: settings.SessionTTL, Usage: "Drop sessions idle for longer than this"},
			&cli.DurationFlag{Name: "cleanup-interval", Value: settings.CleanupPeriod, Usage: "How often idle sessions are swept"},
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			serverCmd,
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: settings.APIURL, Usage: "REST API to proxy when it is reachable"},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "Play a hot-seat game in this terminal",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "players", Value: []string{"Player 1", "Player 2"}, Usage: "Player names in seat order"},
					&cli.IntFlag{Name: "level", Value: 1, Usage: "Challenge level", Sources: cli.EnvVars("GAME_LEVEL")},
					&cli.DurationFlag{Name: "delay", Value: 250 * time.Millisecond, Usage: "Pause between animation frames (0 disables animation)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPlay(ctx, cmd, in, out)
				},
			},
		},
	}
}

// newLogger picks the zap preset: development with --debug, production
// otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadRules reads the rules file when one is set and applies the seed.
func loadRules(rulesFile string, seed int64) (*engine.GameConfig, error) {
	rules := engine.DefaultGameConfig()
	if rulesFile != "" {
		loaded, err := engine.LoadGameConfig(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		rules = loaded
	}
	if seed != 0 {
		rules.Seed = seed
	}
	if err := engine.ValidateGameConfig(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// initializeServices wires the challenge reader, the session manager and the
// game service.
func initializeServices(challengeDir string, rules *engine.GameConfig, logger *zap.Logger) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(challengeDir, logger.Named("challenges"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create challenge manager: %w", err)
	}
	configManager.SetRules(rules)

	sessionManager := session.NewManager(
		session.WithLogger(logger.Named("sessions")),
		session.WithChallengeSource(configManager),
	)

	gameService := service.NewGameService(sessionManager, configManager, rules, logger.Named("service"))
	return gameService, sessionManager, nil
}

func setup(cmd *cli.Command, logger *zap.Logger) (service.GameService, *session.Manager, error) {
	rules, err := loadRules(cmd.String("rules"), cmd.Int64("seed"))
	if err != nil {
		return nil, nil, err
	}
	return initializeServices(cmd.String("challenge-dir"), rules, logger)
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST.
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runHTTPServer serves the REST API, the observer hub and /mcp until ctx is
// cancelled.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	gameService, sessions, err := setup(cmd, logger)
	if err != nil {
		return err
	}

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)
	go sessions.RunCleanup(ctx, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"))

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient("http://" + addr)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(gameService, hub, logger.Named("api")))
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("api", "http://"+addr+"/api"),
			zap.String("ws", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"))
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server. It reuses the API at --api-url when
// it answers; otherwise it starts an internal API on a loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	externalURL := cmd.String("api-url")

	// stdout carries the MCP stream, so logs go to stderr only.
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	baseURL := externalURL
	if !apiReachable(externalURL) {
		logger.Info("no external API server found, starting internal HTTP server", zap.String("checked", externalURL))

		gameService, sessions, err := setup(cmd, logger)
		if err != nil {
			return err
		}
		go sessions.RunCleanup(ctx, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"))

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(logger.Named("ws"))
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger.Named("api"))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	logger.Info("MCP stdio server ready", zap.String("api", baseURL))
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runPlay runs a hot-seat game on in and out.
func runPlay(ctx context.Context, cmd *cli.Command, in io.Reader, out io.Writer) error {
	logger := zap.NewNop()
	if cmd.Bool("debug") {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	rules, err := loadRules(cmd.String("rules"), cmd.Int64("seed"))
	if err != nil {
		return err
	}
	roster, err := service.NormalizeRoster(cmd.StringSlice("players"), rules)
	if err != nil {
		return err
	}
	level := cmd.Int("level")
	if err := service.ValidateLevel(level, rules); err != nil {
		return err
	}

	challenges, err := config.NewManager(cmd.String("challenge-dir"), logger.Named("challenges"))
	if err != nil {
		return err
	}

	recorder := &terminal.Recorder{}
	e, err := engine.NewEngine(rules, roster, level,
		engine.WithLogger(logger.Named("engine")),
		engine.WithChallengeSource(challenges),
		engine.WithAnimator(recorder),
	)
	if err != nil {
		return err
	}

	driver := terminal.NewDriver(e, recorder, in, out, cmd.Duration("delay"), logger)
	if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
