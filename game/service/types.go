package service

import (
	"time"

	"github.com/wricardo/ladderdare/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	Players        []string           `json:"players"`
	Level          int                `json:"level"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CommandResult contains the outcome of a roll, accept, redraw or new game.
type CommandResult struct {
	Accepted  bool              `json:"accepted"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Report    engine.TurnReport `json:"report"`
	Events    []GameEvent       `json:"events"`
	Standings []engine.Standing `json:"standings"`
}

// Event types carried by GameEvent.Type.
const (
	EventRoll      = "roll"
	EventMove      = "move"
	EventSnake     = "snake"
	EventLadder    = "ladder"
	EventChallenge = "challenge"
	EventRedraw    = "redraw"
	EventAccept    = "accept"
	EventEffect    = "effect"
	EventVictory   = "victory"
	EventNewGame   = "new_game"
	EventIgnored   = "ignored"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Player    string    `json:"player,omitempty"`
	Position  int       `json:"position,omitempty"`
}

// LogOptions configures turn log retrieval
type LogOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// LogResponse contains a page of the turn log
type LogResponse struct {
	Lines       []string `json:"lines"`
	Current     []string `json:"current"`
	TotalLines  int      `json:"total_lines"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	TotalPages  int      `json:"total_pages"`
	HasNext     bool     `json:"has_next"`
	HasPrevious bool     `json:"has_previous"`
}

// LevelInfo describes the challenge file backing one level.
type LevelInfo struct {
	Level    int    `json:"level"`
	Filename string `json:"filename,omitempty"`
	Fallback bool   `json:"fallback"`
	Truths   int    `json:"truths"`
	Dares    int    `json:"dares"`
	Skipped  int    `json:"skipped"`
}
