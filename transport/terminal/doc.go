// Package terminal plays Ladder Dare at one keyboard.
//
// Driver reads one command per line (enter to roll, a to accept, d to
// redraw, n for a new game, q to quit) and redraws the board with lipgloss
// after each accepted command. Recorder is the engine animator: it queues
// every piece movement so the driver can replay roll, hazard and challenge
// moves frame by frame.
//
// The board is drawn bottom-up with alternating row direction, cell 1 in the
// bottom left corner and cell 100 in the top left.
package terminal
