package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/engine"
)

// Recorder is an engine.Animator that queues moves for the driver to play
// back after the command returns.
type Recorder struct {
	mu    sync.Mutex
	moves []engine.Move
}

// AnimateMove records one move.
func (r *Recorder) AnimateMove(player, from, to int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, engine.Move{Player: player, From: from, To: to})
}

// Drain returns and clears the recorded moves.
func (r *Recorder) Drain() []engine.Move {
	r.mu.Lock()
	defer r.mu.Unlock()
	moves := r.moves
	r.moves = nil
	return moves
}

// Input commands.
const (
	InputRoll    = "roll"
	InputAccept  = "accept"
	InputRedraw  = "redraw"
	InputNewGame = "new"
	InputQuit    = "quit"
	InputHelp    = "help"
)

var inputAliases = map[string]string{
	"":        InputRoll,
	"r":       InputRoll,
	"roll":    InputRoll,
	"kocok":   InputRoll,
	"a":       InputAccept,
	"accept":  InputAccept,
	"y":       InputAccept,
	"d":       InputRedraw,
	"redraw":  InputRedraw,
	"ganti":   InputRedraw,
	"n":       InputNewGame,
	"new":     InputNewGame,
	"q":       InputQuit,
	"quit":    InputQuit,
	"exit":    InputQuit,
	"h":       InputHelp,
	"help":    InputHelp,
	"?":       InputHelp,
	"bantuan": InputHelp,
}

// ParseInput maps a typed line to a command.
func ParseInput(line string) (string, bool) {
	cmd, ok := inputAliases[strings.ToLower(strings.TrimSpace(line))]
	return cmd, ok
}

const helpText = `enter/r: roll   a: accept   d: redraw   n: new game   q: quit`

// Driver runs a hot-seat game in a terminal.
type Driver struct {
	engine   *engine.GameEngine
	recorder *Recorder
	in       io.Reader
	out      io.Writer
	delay    time.Duration
	logger   *zap.Logger
}

// NewDriver returns a driver for e. The recorder must be the animator e was
// built with; delay is the pause between animation frames.
func NewDriver(e *engine.GameEngine, recorder *Recorder, in io.Reader, out io.Writer, delay time.Duration, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = &Recorder{}
	}
	return &Driver{engine: e, recorder: recorder, in: in, out: out, delay: delay, logger: logger}
}

// Run reads commands until quit, end of input or ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	d.draw()
	fmt.Fprintln(d.out, dimStyle.Render(helpText))

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(d.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
		close(lines)
	}()

	for {
		d.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			if quit := d.Handle(line); quit {
				return nil
			}
		}
	}
}

// Handle executes one typed line and redraws. It reports whether the player
// asked to quit.
func (d *Driver) Handle(line string) bool {
	cmd, ok := ParseInput(line)
	if !ok {
		fmt.Fprintf(d.out, "unknown command %q\n%s\n", line, helpText)
		return false
	}

	var report engine.TurnReport
	switch cmd {
	case InputQuit:
		return true
	case InputHelp:
		fmt.Fprintln(d.out, helpText)
		return false
	case InputRoll:
		report = d.engine.RollDice()
	case InputAccept:
		report = d.engine.AcceptChallenge()
	case InputRedraw:
		report = d.engine.RedrawChallenge()
	case InputNewGame:
		state := d.engine.GetState()
		report = d.engine.ResetForNewGame(state.Players, state.Level)
	}

	d.logger.Debug("terminal command",
		zap.String("command", report.Command), zap.Bool("accepted", report.Accepted))

	if !report.Accepted {
		fmt.Fprintf(d.out, "%s ignored (%s)\n", report.Command, report.Phase)
		return false
	}

	d.animate(d.recorder.Drain())
	d.draw()
	if report.Roll > 0 {
		fmt.Fprintf(d.out, "%s rolled %d\n", report.PlayerName, report.Roll)
	}
	return false
}

// animate redraws the board once per recorded move.
func (d *Driver) animate(moves []engine.Move) {
	if d.delay <= 0 || len(moves) < 2 {
		return
	}
	frame := d.engine.Snapshot()
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		frame.Positions[m.Player] = m.From
	}
	for _, m := range moves[:len(moves)-1] {
		frame.Positions[m.Player] = m.To
		fmt.Fprint(d.out, "\033[H\033[2J")
		fmt.Fprintln(d.out, RenderBoard(frame, nil))
		time.Sleep(d.delay)
	}
}

func (d *Driver) draw() {
	state := d.engine.Snapshot()
	if d.delay > 0 {
		fmt.Fprint(d.out, "\033[H\033[2J")
	}
	fmt.Fprintln(d.out, Render(state, d.engine.GetTurnLog(), d.litHazard()))
}

// litHazard returns the hazard taken in the last accepted command, if any.
func (d *Driver) litHazard() *board.Hazard {
	if r := d.engine.LastReport(); r != nil && r.Accepted {
		return r.Hazard
	}
	return nil
}

func (d *Driver) prompt() {
	state := d.engine.GetState()
	switch {
	case state.GameOver():
		fmt.Fprint(d.out, "n: new game, q: quit > ")
	case state.Pending != nil:
		fmt.Fprintf(d.out, "%s: a accept, d redraw > ", state.CurrentPlayer())
	default:
		fmt.Fprintf(d.out, "%s: enter to roll > ", state.CurrentPlayer())
	}
}
