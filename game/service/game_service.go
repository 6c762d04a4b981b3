package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/ladderdare/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRoster   = errors.New("invalid roster")
	ErrInvalidLevel    = errors.New("invalid level")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, players []string, level int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn commands
	RollDice(ctx context.Context, sessionID string) (*CommandResult, error)
	AcceptChallenge(ctx context.Context, sessionID string) (*CommandResult, error)
	RedrawChallenge(ctx context.Context, sessionID string) (*CommandResult, error)
	NewGame(ctx context.Context, sessionID string, players []string, level int) (*CommandResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTurnLog(ctx context.Context, sessionID string, opts LogOptions) (*LogResponse, error)

	// Challenges
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, players []string, level int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ChallengeManager reads challenge files for each level.
type ChallengeManager interface {
	engine.ChallengeSource
	ListLevels() ([]*LevelInfo, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
