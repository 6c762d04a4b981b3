package engine

import (
	"github.com/wricardo/ladderdare/game/board"
)

// ReflectOverflow bounces a target past the last cell back from it, so a
// player on 98 rolling 6 ends on 96. The result is never below 1.
func ReflectOverflow(raw int) int {
	target := raw
	if target > Total {
		target = Total - (target - Total)
	}
	return ClampCell(target)
}

// ClampCell limits a cell number to the board.
func ClampCell(cell int) int {
	if cell < 1 {
		return 1
	}
	if cell > Total {
		return Total
	}
	return cell
}

// ApplyEffect returns the cell reached after a challenge effect of steps.
func ApplyEffect(pos, steps int) int {
	return ClampCell(pos + steps)
}

// HazardAt returns the hazard starting on cell. Snakes are checked before
// ladders.
func (s *GameState) HazardAt(cell int) (board.Hazard, bool) {
	if end, ok := s.Snakes[cell]; ok {
		return board.Hazard{Start: cell, End: end, Kind: board.Snake}, true
	}
	if end, ok := s.Ladders[cell]; ok {
		return board.Hazard{Start: cell, End: end, Kind: board.Ladder}, true
	}
	return board.Hazard{}, false
}
