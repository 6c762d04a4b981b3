package engine

import (
	"fmt"
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/effect"
	"github.com/wricardo/ladderdare/game/random"
)

// Command names reported in TurnReport.Command.
const (
	CommandRoll    = "roll"
	CommandAccept  = "accept"
	CommandRedraw  = "redraw"
	CommandNewGame = "new_game"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Commands. Invalid commands are ignored and report Accepted=false.
	RollDice() TurnReport
	AcceptChallenge() TurnReport
	RedrawChallenge() TurnReport
	ResetForNewGame(players []string, level int) TurnReport

	// Game state
	GetState() *GameState
	Snapshot() *GameState
	Phase() Phase
	IsGameOver() bool
	Winner() int
	LastReport() *TurnReport

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
	Seed() int64

	// Log
	GetTurnLog() []string
}

// ChallengeSource supplies raw challenge texts for a level.
type ChallengeSource interface {
	LoadChallenges(level int) (map[string]string, error)
}

// Animator is told about every canonical piece movement. Calls are
// synchronous and must not block.
type Animator interface {
	AnimateMove(player, from, to int)
}

// DeckFactory builds the deck for a new game.
type DeckFactory func(raw map[string]string, rng *rand.Rand) deck.Drawer

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithLogger sets the operational logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *GameEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAnimator registers a movement observer.
func WithAnimator(a Animator) Option {
	return func(e *GameEngine) { e.animator = a }
}

// WithChallengeSource sets where challenge texts are read from.
func WithChallengeSource(src ChallengeSource) Option {
	return func(e *GameEngine) { e.source = src }
}

// WithDice replaces the dice source.
func WithDice(rng *rand.Rand) Option {
	return func(e *GameEngine) { e.dice = rng }
}

// WithDeckFactory replaces how decks are built from raw texts.
func WithDeckFactory(f DeckFactory) Option {
	return func(e *GameEngine) { e.newDeck = f }
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	seed   int64

	dice     *rand.Rand
	boardRng *rand.Rand
	deckRng  *rand.Rand

	deck     deck.Drawer
	newDeck  DeckFactory
	source   ChallengeSource
	animator Animator
	logger   *zap.Logger

	last *TurnReport
}

// NewEngine creates an engine and starts a game for players at level.
func NewEngine(config *GameConfig, players []string, level int, opts ...Option) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		fresh, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed engine: %w", err)
		}
		seed = fresh
	}

	e := &GameEngine{
		config:   config,
		seed:     seed,
		dice:     random.Derive(seed, random.StreamDice),
		boardRng: random.Derive(seed, random.StreamBoard),
		deckRng:  random.Derive(seed, random.StreamDeck),
		newDeck: func(raw map[string]string, rng *rand.Rand) deck.Drawer {
			return deck.New(raw, rng)
		},
		logger: zap.NewNop(),
		state:  &GameState{Log: NewTurnLog(MaxLog)},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.ResetForNewGame(players, level)
	return e, nil
}

// ResetForNewGame rebuilds the whole game: positions, hazards, deck and
// challenge assignment. It is accepted in every phase.
func (e *GameEngine) ResetForNewGame(players []string, level int) TurnReport {
	e.state.ResetForNewGame(players, level)

	raw := map[string]string{}
	if e.source != nil {
		loaded, err := e.source.LoadChallenges(level)
		if err != nil {
			e.logger.Warn("challenge source failed, playing without challenges",
				zap.Int("level", level), zap.Error(err))
		} else {
			raw = loaded
		}
	}
	e.deck = e.newDeck(raw, e.deckRng)

	e.state.Snakes, e.state.Ladders = board.Generate(e.boardRng, Total, e.config.NumSnakes, e.config.NumLadders)
	if len(e.state.Snakes) < e.config.NumSnakes || len(e.state.Ladders) < e.config.NumLadders {
		e.logger.Debug("hazard placement budget exhausted",
			zap.Int("snakes", len(e.state.Snakes)), zap.Int("ladders", len(e.state.Ladders)))
	}
	if e.deckEmpty() {
		// Without any challenge text there is nothing to put on the board.
		e.state.Assignment = map[string]deck.Card{}
	} else {
		e.state.Assignment = board.Distribute(e.boardRng, e.deck, e.state.Snakes, e.state.Ladders, Total, e.config.ChallengeAmount)
	}

	e.logger.Info("new game",
		zap.Strings("players", players),
		zap.Int("level", level),
		zap.Int("challenges", len(e.state.Assignment)),
		zap.Int64("seed", e.seed))

	report := e.newReport(CommandNewGame)
	report.Accepted = true
	return e.finish(report)
}

// RollDice resolves the movement part of a turn. It only runs when the game
// is idle; while a challenge is pending or after the game is won it is
// ignored.
func (e *GameEngine) RollDice() TurnReport {
	report := e.newReport(CommandRoll)
	if e.state.Phase != PhaseIdle || len(e.state.Players) == 0 {
		return e.ignore(report)
	}
	report.Accepted = true

	p := e.state.Turn
	e.state.Log.StartTurn(e.state.Players[p])
	e.advance(PhaseRolling)

	roll := e.dice.Intn(DiceSides) + 1
	report.Roll = roll
	e.state.Log.Add(fmt.Sprintf("Dice: %d", roll))

	e.advance(PhaseMoving)
	report.Raw = e.state.Positions[p] + roll
	report.Landed = ReflectOverflow(report.Raw)
	e.move(&report, report.Landed, CauseRoll)

	e.advance(PhaseHazardCheck)
	if h, ok := e.state.HazardAt(report.Landed); ok {
		hazard := h
		report.Hazard = &hazard
		cause := CauseLadder
		if h.Kind == board.Snake {
			cause = CauseSnake
			e.state.Log.Add(": Slid Down Snake")
		} else {
			e.state.Log.Add(": Climbed Ladder")
		}
		e.move(&report, h.End, cause)
	}

	e.advance(PhaseChallengeCheck)
	cell := e.state.Positions[p]
	if card, ok := e.state.Assignment[strconv.Itoa(cell)]; ok {
		e.state.Pending = newPending(cell, card)
		e.logger.Debug("challenge pending",
			zap.String("player", e.state.Players[p]),
			zap.Int("cell", cell),
			zap.String("category", string(card.Category)))
		return e.finish(report)
	}

	e.endTurn(&report)
	return e.finish(report)
}

// RedrawChallenge swaps the pending card for a fresh one of the same
// category. The player does not move.
func (e *GameEngine) RedrawChallenge() TurnReport {
	report := e.newReport(CommandRedraw)
	if e.state.Phase != PhaseChallengeCheck || e.state.Pending == nil {
		return e.ignore(report)
	}
	report.Accepted = true

	pending := e.state.Pending
	card := e.deck.Draw(pending.Category)
	e.state.Assignment[strconv.Itoa(pending.Cell)] = card
	e.state.Pending = newPending(pending.Cell, card)

	return e.finish(report)
}

// AcceptChallenge completes the pending challenge: the card is logged and
// replaced on its cell, and any move it describes is applied without
// triggering hazards or challenges on the destination.
func (e *GameEngine) AcceptChallenge() TurnReport {
	report := e.newReport(CommandAccept)
	if e.state.Phase != PhaseChallengeCheck || e.state.Pending == nil {
		return e.ignore(report)
	}
	report.Accepted = true

	pending := e.state.Pending
	completed := deck.Card{Text: pending.Text, Category: pending.Category}
	report.Completed = &completed
	e.state.Log.Add(pending.Text)

	e.state.Assignment[strconv.Itoa(pending.Cell)] = e.deck.Draw(pending.Category)
	e.state.Pending = nil

	e.advance(PhaseEffectApply)
	steps := effect.ParseMove(pending.Text)
	report.Effect = steps
	if steps != 0 {
		p := e.state.Turn
		e.move(&report, ApplyEffect(e.state.Positions[p], steps), CauseEffect)
	}

	e.endTurn(&report)
	return e.finish(report)
}

// endTurn runs the win check and either ends the game or passes the turn.
func (e *GameEngine) endTurn(report *TurnReport) {
	p := e.state.Turn
	if e.state.Positions[p] == Total {
		e.advance(PhaseGameOver)
		e.state.Winner = p
		e.state.Log.EndTurn()
		e.logger.Info("game won", zap.String("player", e.state.Players[p]))
		return
	}

	e.advance(PhaseTurnEnd)
	e.state.Log.EndTurn()
	e.state.Turn = (p + 1) % len(e.state.Players)
	if e.state.Turn == 0 {
		e.state.Rounds++
	}
	e.advance(PhaseIdle)
}

func (e *GameEngine) move(report *TurnReport, to int, cause MoveCause) {
	p := e.state.Turn
	from := e.state.Positions[p]
	e.state.Positions[p] = to

	report.Moves = append(report.Moves, Move{Player: p, From: from, To: to, Cause: cause})
	if e.animator != nil {
		e.animator.AnimateMove(p, from, to)
	}
}

func (e *GameEngine) advance(to Phase) {
	if !CanTransition(e.state.Phase, to) {
		e.logger.Error("invalid phase transition",
			zap.String("from", string(e.state.Phase)), zap.String("to", string(to)))
		return
	}
	e.state.Phase = to
}

func (e *GameEngine) newReport(command string) TurnReport {
	r := TurnReport{Command: command, Player: e.state.Turn, Winner: NoWinner, Moves: []Move{}}
	if len(e.state.Players) > 0 {
		r.PlayerName = e.state.Players[e.state.Turn]
		r.From = e.state.Positions[e.state.Turn]
	}
	return r
}

func (e *GameEngine) ignore(report TurnReport) TurnReport {
	e.logger.Debug("command ignored",
		zap.String("command", report.Command), zap.String("phase", string(e.state.Phase)))
	report.Accepted = false
	report.Final = report.From
	report.Phase = e.state.Phase
	report.Winner = e.state.Winner
	if e.state.Pending != nil {
		p := *e.state.Pending
		report.Challenge = &p
	}
	return report
}

func (e *GameEngine) finish(report TurnReport) TurnReport {
	if len(e.state.Players) > 0 && report.Player < len(e.state.Positions) {
		report.Final = e.state.Positions[report.Player]
	}
	report.Phase = e.state.Phase
	report.Winner = e.state.Winner
	if e.state.Pending != nil {
		p := *e.state.Pending
		report.Challenge = &p
	}

	last := report
	e.last = &last
	return report
}

func newPending(cell int, card deck.Card) *PendingChallenge {
	p := &PendingChallenge{Cell: cell, Text: card.Text, Category: card.Category}
	if effect.IsTimed(card.Text) {
		p.Timed = true
		p.TimerSeconds = effect.ParseTimerSeconds(card.Text)
	}
	return p
}

// GetState returns the live game state. Callers must not modify it.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a copy of the state that is safe to hand to observers.
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Clone()
}

// Phase returns the current phase.
func (e *GameEngine) Phase() Phase {
	return e.state.Phase
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver()
}

// Winner returns the index of the winning player or NoWinner.
func (e *GameEngine) Winner() int {
	return e.state.Winner
}

// LastReport returns the report of the last command, or nil.
func (e *GameEngine) LastReport() *TurnReport {
	if e.last == nil {
		return nil
	}
	r := *e.last
	return &r
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and restarts the game with the
// same roster and level.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.ResetForNewGame(e.state.Players, e.state.Level)
	return nil
}

// Seed returns the seed the random streams were derived from.
func (e *GameEngine) Seed() int64 {
	return e.seed
}

// GetTurnLog returns the history followed by the turn in progress.
func (e *GameEngine) GetTurnLog() []string {
	return e.state.Log.Full()
}

// DeckStats reports deck sizes when the deck exposes them.
// deckEmpty reports whether the deck has no cards in either category. Decks
// that cannot tell are treated as non-empty.
func (e *GameEngine) deckEmpty() bool {
	d, ok := e.deck.(interface{ Empty() bool })
	return ok && d.Empty()
}

func (e *GameEngine) DeckStats() (deck.Stats, bool) {
	s, ok := e.deck.(interface{ Stats() deck.Stats })
	if !ok {
		return deck.Stats{}, false
	}
	return s.Stats(), true
}
