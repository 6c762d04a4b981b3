package board

import (
	"math/rand"
	"strconv"

	"github.com/wricardo/ladderdare/game/deck"
	"github.com/zyedidia/generic/mapset"
)

// Distribute scatters up to amount challenge cards over the board. Hazard
// endpoints and the first and last cells never carry a card. Candidates are
// visited in shuffled order and one is taken only when it is more than one
// cell away from the previously taken cell, so cards may still end up on
// neighbouring cells. Cards are drawn in the order cells are taken and the
// result is keyed by the decimal cell number.
func Distribute(rng *rand.Rand, source deck.Drawer, snakes, ladders map[int]int, total, amount int) map[string]deck.Card {
	assignment := make(map[string]deck.Card)
	if amount <= 0 || total < 3 {
		return assignment
	}

	forbidden := mapset.New[int]()
	forbidden.Put(1)
	forbidden.Put(total)
	for s, e := range snakes {
		forbidden.Put(s)
		forbidden.Put(e)
	}
	for s, e := range ladders {
		forbidden.Put(s)
		forbidden.Put(e)
	}

	candidates := make([]int, 0, total)
	for cell := 2; cell < total; cell++ {
		if !forbidden.Has(cell) {
			candidates = append(candidates, cell)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	// last starts far enough away that the first candidate always passes.
	last := -2
	chosen := make([]int, 0, amount)
	for _, cell := range candidates {
		if len(chosen) == amount {
			break
		}
		if abs(cell-last) > 1 {
			chosen = append(chosen, cell)
			last = cell
		}
	}

	for _, cell := range chosen {
		category := deck.Truth
		if rng.Intn(2) == 1 {
			category = deck.Dare
		}
		assignment[strconv.Itoa(cell)] = source.Draw(category)
	}
	return assignment
}
