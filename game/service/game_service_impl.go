package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions   SessionManager
	challenges ChallengeManager
	rules      *engine.GameConfig
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewGameService creates a new game service instance. A nil rules config
// selects engine.DefaultGameConfig and a nil logger discards output.
func NewGameService(sessions SessionManager, challenges ChallengeManager, rules *engine.GameConfig, logger *zap.Logger) GameService {
	if rules == nil {
		rules = engine.DefaultGameConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions:   sessions,
		challenges: challenges,
		rules:      rules,
		logger:     logger,
	}
}

// NormalizeRoster validates a player list against the rules and returns the
// names the engine should use: trimmed, defaulted to "Player N" when blank and
// cut to the maximum name length.
func NormalizeRoster(players []string, rules *engine.GameConfig) ([]string, error) {
	if len(players) < rules.MinPlayers || len(players) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: need %d to %d players, got %d",
			ErrInvalidRoster, rules.MinPlayers, rules.MaxPlayers, len(players))
	}

	out := make([]string, len(players))
	for i, name := range players {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		if utf8.RuneCountInString(name) > rules.MaxNameLength {
			name = string([]rune(name)[:rules.MaxNameLength])
		}
		out[i] = name
	}
	return out, nil
}

// ValidateLevel checks that level is within the rules.
func ValidateLevel(level int, rules *engine.GameConfig) error {
	if level < rules.MinLevel || level > rules.MaxLevel {
		return fmt.Errorf("%w: level must be between %d and %d, got %d",
			ErrInvalidLevel, rules.MinLevel, rules.MaxLevel, level)
	}
	return nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, players []string, level int) (*SessionInfo, error) {
	roster, err := NormalizeRoster(players, s.rules)
	if err != nil {
		return nil, err
	}
	if err := ValidateLevel(level, s.rules); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Create("", s.rules, roster, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID), zap.Strings("players", roster), zap.Int("level", level))
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// RollDice rolls for the current player of a session
func (s *gameServiceImpl) RollDice(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, func(e *engine.GameEngine) engine.TurnReport {
		return e.RollDice()
	})
}

// AcceptChallenge completes the pending challenge of a session
func (s *gameServiceImpl) AcceptChallenge(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, func(e *engine.GameEngine) engine.TurnReport {
		return e.AcceptChallenge()
	})
}

// RedrawChallenge replaces the pending challenge of a session
func (s *gameServiceImpl) RedrawChallenge(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, func(e *engine.GameEngine) engine.TurnReport {
		return e.RedrawChallenge()
	})
}

// NewGame restarts a session. An empty roster keeps the current players and
// a zero level keeps the current level.
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, players []string, level int) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	current := sess.Engine.GetState()
	if len(players) == 0 {
		players = current.Players
	}
	if level == 0 {
		level = current.Level
	}

	roster, err := NormalizeRoster(players, s.rules)
	if err != nil {
		return nil, err
	}
	if err := ValidateLevel(level, s.rules); err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	report := sess.Engine.ResetForNewGame(roster, level)
	return s.buildResult(sess, report), nil
}

func (s *gameServiceImpl) command(sessionID string, run func(*engine.GameEngine) engine.TurnReport) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	report := run(sess.Engine)
	s.logger.Debug("command",
		zap.String("session", sess.ID),
		zap.String("command", report.Command),
		zap.Bool("accepted", report.Accepted),
		zap.String("phase", string(report.Phase)))
	return s.buildResult(sess, report), nil
}

func (s *gameServiceImpl) buildResult(sess *Session, report engine.TurnReport) *CommandResult {
	state := sess.Engine.Snapshot()
	events := extractEvents(state, report)

	message := ""
	if len(events) > 0 {
		message = events[len(events)-1].Message
	}

	return &CommandResult{
		Accepted:  report.Accepted,
		Message:   message,
		GameState: state,
		Report:    report,
		Events:    events,
		Standings: engine.Standings(state),
	}
}

// GetGameState returns a snapshot of the game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess.Engine.Snapshot(), nil
}

// GetTurnLog returns a page of the turn log history
func (s *gameServiceImpl) GetTurnLog(ctx context.Context, sessionID string, opts LogOptions) (*LogResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	log := sess.Engine.GetState().Log
	history := log.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > engine.MaxLog {
		opts.Limit = engine.MaxLog
	}
	if opts.Order == "" {
		opts.Order = "asc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	lines := []string{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			lines = append(lines, history[i])
		}
	} else if start < total {
		lines = append(lines, history[start:end]...)
	}

	return &LogResponse{
		Lines:       lines,
		Current:     log.Current(),
		TotalLines:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the challenge files backing each level
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	if s.challenges == nil {
		return []*LevelInfo{}, nil
	}
	return s.challenges.ListLevels()
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		Players:        state.Players,
		Level:          state.Level,
		Seed:           sess.Engine.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
		GameConfig:     sess.Config,
	}
}

// extractEvents turns an engine report into player-facing events
func extractEvents(state *engine.GameState, report engine.TurnReport) []GameEvent {
	now := time.Now()
	events := []GameEvent{}
	add := func(typ, msg string, pos int) {
		events = append(events, GameEvent{
			Type:      typ,
			Message:   msg,
			Timestamp: now,
			Player:    report.PlayerName,
			Position:  pos,
		})
	}

	if !report.Accepted {
		add(EventIgnored, fmt.Sprintf("%s ignored during %s", report.Command, report.Phase), report.Final)
		return events
	}

	switch report.Command {
	case engine.CommandNewGame:
		add(EventNewGame, fmt.Sprintf("New game for %s at level %d", strings.Join(state.Players, ", "), state.Level), 0)
		return events
	case engine.CommandRoll:
		add(EventRoll, fmt.Sprintf("%s rolled %d", report.PlayerName, report.Roll), report.From)
	case engine.CommandAccept:
		if report.Completed != nil {
			add(EventAccept, fmt.Sprintf("%s completed: %s", report.PlayerName, report.Completed.Text), report.From)
		}
	case engine.CommandRedraw:
		if report.Challenge != nil {
			add(EventRedraw, fmt.Sprintf("New %s card: %s", report.Challenge.Category, report.Challenge.Text), report.Challenge.Cell)
		}
	}

	for _, m := range report.Moves {
		switch m.Cause {
		case engine.CauseRoll:
			add(EventMove, fmt.Sprintf("Moved from %d to %d", m.From, m.To), m.To)
		case engine.CauseSnake:
			add(EventSnake, fmt.Sprintf("Slid down a snake from %d to %d", m.From, m.To), m.To)
		case engine.CauseLadder:
			add(EventLadder, fmt.Sprintf("Climbed a ladder from %d to %d", m.From, m.To), m.To)
		case engine.CauseEffect:
			add(EventEffect, fmt.Sprintf("Challenge moved %+d from %d to %d", report.Effect, m.From, m.To), m.To)
		}
	}

	if report.Command == engine.CommandRoll && report.Challenge != nil {
		msg := fmt.Sprintf("%s challenge on %d: %s", report.Challenge.Category, report.Challenge.Cell, report.Challenge.Text)
		if report.Challenge.Timed {
			msg += fmt.Sprintf(" (%ds)", report.Challenge.TimerSeconds)
		}
		add(EventChallenge, msg, report.Challenge.Cell)
	}

	if report.Winner != engine.NoWinner {
		add(EventVictory, fmt.Sprintf("%s wins!", state.Players[report.Winner]), engine.Total)
	}
	return events
}
