// Package board generates the procedural content of a game board: the
// snake and ladder hazards and the cells that carry challenge cards.
package board

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Total is the fixed number of cells on the board.
const Total = 100

const (
	// MaxAttempts is the retry budget for placing one hazard.
	MaxAttempts = 100
	// EdgeMargin keeps hazard endpoints away from both ends of the board.
	EdgeMargin = 5
	// MinSpan is the smallest allowed distance between start and end.
	MinSpan = 10
)

// Kind distinguishes snakes from ladders.
type Kind string

const (
	Snake  Kind = "snake"
	Ladder Kind = "ladder"
)

// Hazard redirects a player that lands on Start to End.
type Hazard struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`
}

// Generate places up to numLadders ladders and then up to numSnakes snakes
// on a board of total cells. Each map is keyed by start cell with the end
// cell as value. Hazards that cannot be placed within MaxAttempts draws are
// left out.
func Generate(rng *rand.Rand, total, numSnakes, numLadders int) (snakes, ladders map[int]int) {
	snakes = make(map[int]int)
	ladders = make(map[int]int)

	reserved := mapset.New[int]()
	reserved.Put(1)
	reserved.Put(total)

	place := func(kind Kind, into map[int]int) {
		start, end, ok := drawHazard(rng, total, kind, &reserved)
		if !ok {
			return
		}
		into[start] = end
		reserved.Put(start)
		reserved.Put(end)
	}

	for i := 0; i < numLadders; i++ {
		place(Ladder, ladders)
	}
	for i := 0; i < numSnakes; i++ {
		place(Snake, snakes)
	}
	return snakes, ladders
}

func drawHazard(rng *rand.Rand, total int, kind Kind, reserved *mapset.Set[int]) (int, int, bool) {
	lo, hi := EdgeMargin, total-EdgeMargin
	if hi < lo {
		return 0, 0, false
	}
	span := hi - lo + 1

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		start := lo + rng.Intn(span)
		end := lo + rng.Intn(span)

		if abs(start-end) < MinSpan {
			continue
		}
		if reserved.Has(start) || reserved.Has(end) {
			continue
		}
		if kind == Ladder && start < end {
			return start, end, true
		}
		if kind == Snake && start > end {
			return start, end, true
		}
	}
	return 0, 0, false
}

// Hazards flattens the two maps into one list ordered by start cell.
func Hazards(snakes, ladders map[int]int) []Hazard {
	out := make([]Hazard, 0, len(snakes)+len(ladders))
	for s, e := range snakes {
		out = append(out, Hazard{Start: s, End: e, Kind: Snake})
	}
	for s, e := range ladders {
		out = append(out, Hazard{Start: s, End: e, Kind: Ladder})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Validate checks the hazard invariants for a board of total cells and
// returns the first violation found, or nil.
func Validate(total int, snakes, ladders map[int]int) error {
	used := mapset.New[int]()
	check := func(kind Kind, start, end int) error {
		if start == end {
			return &InvariantError{Hazard: Hazard{Start: start, End: end, Kind: kind}, Reason: "start equals end"}
		}
		if kind == Ladder && start > end {
			return &InvariantError{Hazard: Hazard{Start: start, End: end, Kind: kind}, Reason: "ladder goes down"}
		}
		if kind == Snake && start < end {
			return &InvariantError{Hazard: Hazard{Start: start, End: end, Kind: kind}, Reason: "snake goes up"}
		}
		for _, cell := range []int{start, end} {
			if cell <= 1 || cell >= total {
				return &InvariantError{Hazard: Hazard{Start: start, End: end, Kind: kind}, Reason: "endpoint on first or last cell"}
			}
			if used.Has(cell) {
				return &InvariantError{Hazard: Hazard{Start: start, End: end, Kind: kind}, Reason: "endpoint shared with another hazard"}
			}
			used.Put(cell)
		}
		return nil
	}

	for _, h := range Hazards(snakes, ladders) {
		if err := check(h.Kind, h.Start, h.End); err != nil {
			return err
		}
	}
	return nil
}

// InvariantError describes a hazard that breaks a board rule.
type InvariantError struct {
	Hazard Hazard
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s %d->%d: %s", e.Hazard.Kind, e.Hazard.Start, e.Hazard.End, e.Reason)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
