package engine

import (
	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/deck"
)

const (
	// Total is the number of cells on the board and the winning cell.
	Total = board.Total
	// DiceSides is the number of faces on the die.
	DiceSides = 6
	// MaxLog bounds the turn log history in lines.
	MaxLog = 1000
	// NoWinner marks a game that has not been won yet.
	NoWinner = -1
)

// Phase is a step of turn resolution.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseRolling        Phase = "rolling"
	PhaseMoving         Phase = "moving"
	PhaseHazardCheck    Phase = "hazard_check"
	PhaseChallengeCheck Phase = "challenge_check"
	PhaseEffectApply    Phase = "effect_apply"
	PhaseTurnEnd        Phase = "turn_end"
	PhaseGameOver       Phase = "game_over"
)

// transitions lists the phases reachable from each phase. Resetting for a new
// game is not a transition; it rebuilds the state.
var transitions = map[Phase][]Phase{
	PhaseIdle:           {PhaseRolling},
	PhaseRolling:        {PhaseMoving},
	PhaseMoving:         {PhaseHazardCheck},
	PhaseHazardCheck:    {PhaseChallengeCheck},
	PhaseChallengeCheck: {PhaseEffectApply, PhaseTurnEnd, PhaseGameOver},
	PhaseEffectApply:    {PhaseTurnEnd, PhaseGameOver},
	PhaseTurnEnd:        {PhaseIdle},
	PhaseGameOver:       {},
}

// CanTransition reports whether the state machine may move from one phase to
// another.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Color is an RGB player color.
type Color struct {
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
}

// Palette holds the player colors in seat order.
var Palette = []Color{
	{Name: "Charcoal", R: 40, G: 40, B: 40},
	{Name: "Deep Purple", R: 140, G: 0, B: 160},
	{Name: "Electric Blue", R: 0, G: 120, B: 255},
	{Name: "Crimson Red", R: 200, G: 50, B: 50},
}

// MoveCause says why a piece moved.
type MoveCause string

const (
	CauseRoll   MoveCause = "roll"
	CauseSnake  MoveCause = "snake"
	CauseLadder MoveCause = "ladder"
	CauseEffect MoveCause = "effect"
)

// Move is one canonical piece movement.
type Move struct {
	Player int       `json:"player"`
	From   int       `json:"from"`
	To     int       `json:"to"`
	Cause  MoveCause `json:"cause"`
}

// PendingChallenge is the card waiting for the current player's decision.
type PendingChallenge struct {
	Cell     int           `json:"cell"`
	Text     string        `json:"text"`
	Category deck.Category `json:"category"`
	Timed    bool          `json:"timed"`
	// TimerSeconds is only set for timed challenges.
	TimerSeconds int `json:"timer_seconds,omitempty"`
}

// TurnReport describes what one command did. Renderers use it to animate
// moves and highlight the hazard that fired.
type TurnReport struct {
	Accepted   bool              `json:"accepted"`
	Command    string            `json:"command"`
	Player     int               `json:"player"`
	PlayerName string            `json:"player_name"`
	Roll       int               `json:"roll,omitempty"`
	From       int               `json:"from"`
	Raw        int               `json:"raw,omitempty"`
	Landed     int               `json:"landed,omitempty"`
	Final      int               `json:"final"`
	Hazard     *board.Hazard     `json:"hazard,omitempty"`
	Challenge  *PendingChallenge `json:"challenge,omitempty"`
	Completed  *deck.Card        `json:"completed,omitempty"`
	Effect     int               `json:"effect,omitempty"`
	Winner     int               `json:"winner"`
	Moves      []Move            `json:"moves"`
	Phase      Phase             `json:"phase"`
}

// GameState is the complete state of one game. It is owned by a single engine
// and handed to observers only as a copy.
type GameState struct {
	Players    []string             `json:"players"`
	Level      int                  `json:"level"`
	Positions  []int                `json:"positions"`
	Colors     []Color              `json:"colors"`
	Snakes     map[int]int          `json:"snakes"`
	Ladders    map[int]int          `json:"ladders"`
	Assignment map[string]deck.Card `json:"assignment"`
	Turn       int                  `json:"turn"`
	Phase      Phase                `json:"phase"`
	Pending    *PendingChallenge    `json:"pending,omitempty"`
	Winner     int                  `json:"winner"`
	Rounds     int                  `json:"rounds"`

	Log *TurnLog `json:"-"`
}

// NewGameState returns a state prepared for the given roster and level.
func NewGameState(players []string, level int) *GameState {
	s := &GameState{Log: NewTurnLog(MaxLog)}
	s.ResetForNewGame(players, level)
	return s
}

// ResetForNewGame returns the state to the start of a game. Hazards and the
// assignment are emptied; the engine fills them again. It is safe to call at
// any point, including while a challenge is pending.
func (s *GameState) ResetForNewGame(players []string, level int) {
	s.Players = append([]string(nil), players...)
	s.Level = level

	s.Positions = make([]int, len(players))
	for i := range s.Positions {
		s.Positions[i] = 1
	}

	n := len(players)
	if n > len(Palette) {
		n = len(Palette)
	}
	s.Colors = append([]Color(nil), Palette[:n]...)

	s.Snakes = make(map[int]int)
	s.Ladders = make(map[int]int)
	s.Assignment = make(map[string]deck.Card)
	s.Turn = 0
	s.Rounds = 0
	s.Phase = PhaseIdle
	s.Pending = nil
	s.Winner = NoWinner

	if s.Log == nil {
		s.Log = NewTurnLog(MaxLog)
	}
	s.Log.Clear()
}

// CurrentPlayer returns the name of the player whose turn it is.
func (s *GameState) CurrentPlayer() string {
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[s.Turn]
}

// Hazards returns the snakes and ladders as one list ordered by start cell.
func (s *GameState) Hazards() []board.Hazard {
	return board.Hazards(s.Snakes, s.Ladders)
}

// GameOver reports whether a player has reached the final cell.
func (s *GameState) GameOver() bool {
	return s.Phase == PhaseGameOver
}

// Clone returns a deep copy that shares nothing with s.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = append([]string(nil), s.Players...)
	c.Positions = append([]int(nil), s.Positions...)
	c.Colors = append([]Color(nil), s.Colors...)

	c.Snakes = make(map[int]int, len(s.Snakes))
	for k, v := range s.Snakes {
		c.Snakes[k] = v
	}
	c.Ladders = make(map[int]int, len(s.Ladders))
	for k, v := range s.Ladders {
		c.Ladders[k] = v
	}
	c.Assignment = make(map[string]deck.Card, len(s.Assignment))
	for k, v := range s.Assignment {
		c.Assignment[k] = v
	}

	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	if s.Log != nil {
		c.Log = s.Log.Clone()
	}
	return &c
}
