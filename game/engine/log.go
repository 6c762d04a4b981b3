package engine

// TurnLog collects the player-facing narration of a game. Lines of the turn
// in progress are buffered and moved into the bounded history when the turn
// ends.
type TurnLog struct {
	max     int
	history []string
	current []string
}

// NewTurnLog returns a log keeping at most limit history lines.
func NewTurnLog(limit int) *TurnLog {
	if limit <= 0 {
		limit = MaxLog
	}
	return &TurnLog{max: limit}
}

// StartTurn opens a new block for player, discarding any unflushed block.
func (l *TurnLog) StartTurn(player string) {
	l.current = []string{"▶ " + player}
}

// Add appends an indented line to the current block.
func (l *TurnLog) Add(text string) {
	l.current = append(l.current, "  "+text)
}

// EndTurn flushes the current block into history, dropping the oldest lines
// beyond the bound.
func (l *TurnLog) EndTurn() {
	l.history = append(l.history, l.current...)
	if over := len(l.history) - l.max; over > 0 {
		l.history = append([]string(nil), l.history[over:]...)
	}
	l.current = nil
}

// History returns the flushed lines, oldest first.
func (l *TurnLog) History() []string {
	return append([]string(nil), l.history...)
}

// Current returns the lines of the turn in progress.
func (l *TurnLog) Current() []string {
	return append([]string(nil), l.current...)
}

// Full returns history followed by the turn in progress.
func (l *TurnLog) Full() []string {
	out := make([]string, 0, len(l.history)+len(l.current))
	out = append(out, l.history...)
	return append(out, l.current...)
}

// Len returns the number of history lines.
func (l *TurnLog) Len() int {
	return len(l.history)
}

// Clear empties both history and the current block.
func (l *TurnLog) Clear() {
	l.history = nil
	l.current = nil
}

// Clone returns an independent copy.
func (l *TurnLog) Clone() *TurnLog {
	return &TurnLog{
		max:     l.max,
		history: append([]string(nil), l.history...),
		current: append([]string(nil), l.current...),
	}
}
