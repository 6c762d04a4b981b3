package engine

import (
	"sort"
	"strconv"

	"github.com/wricardo/ladderdare/game/deck"
)

// Standing is one row of the leaderboard.
type Standing struct {
	Player   int    `json:"player"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Color    Color  `json:"color"`
}

// Standings orders players by position, furthest first. Ties keep seat order.
func Standings(state *GameState) []Standing {
	out := make([]Standing, 0, len(state.Players))
	for i, name := range state.Players {
		st := Standing{Player: i, Name: name, Position: state.Positions[i]}
		if i < len(state.Colors) {
			st.Color = state.Colors[i]
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position > out[j].Position })
	return out
}

// CardAt returns the challenge card assigned to cell, if any.
func CardAt(state *GameState, cell int) (deck.Card, bool) {
	card, ok := state.Assignment[strconv.Itoa(cell)]
	return card, ok
}

// CountByCategory counts assigned cards per category.
func CountByCategory(state *GameState) map[deck.Category]int {
	counts := make(map[deck.Category]int)
	for _, card := range state.Assignment {
		counts[card.Category]++
	}
	return counts
}
