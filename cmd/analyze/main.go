// Command analyze prints quick, human-readable heuristics about the game. It
// generates boards for a range of seeds and reports how often hazards could
// not be placed and how far they move a player, then summarizes every
// challenge file in the project's configs directory: category balance, timed
// cards and movement effects.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/config"
	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/effect"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/random"
)

// BoardStats summarizes hazard generation over many seeds.
type BoardStats struct {
	Boards         int
	ShortSnakes    int // boards with fewer snakes than requested
	ShortLadders   int
	AvgSnakeDrop   float64
	AvgLadderClimb float64
	HotCells       []int // hazard start cells, most frequent first
}

// ChallengeStats summarizes one challenge file.
type ChallengeStats struct {
	File      string
	Truths    int
	Dares     int
	Invalid   int
	Skipped   int
	Timed     int
	Forward   int
	Backward  int
	MaxTimer  int
	Sentinels int // categories that would fall back to the sentinel card
}

func main() {
	rules := engine.DefaultGameConfig()
	stats := analyzeBoards(rules, 1000)
	fmt.Printf("\n=== Boards (%d seeds, %d snakes, %d ladders) ===\n", stats.Boards, rules.NumSnakes, rules.NumLadders)
	printBoardStats(stats)

	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	files, err := challengeFiles(dir)
	if err != nil {
		fmt.Printf("Error listing challenge files: %v\n", err)
		return
	}
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", file)
		cs, err := analyzeChallenges(filepath.Join(dir, file))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printChallengeStats(cs)
	}
}

func challengeFiles(dir string) ([]string, error) {
	m, err := config.NewManager(dir, nil)
	if err != nil {
		return nil, err
	}
	return m.Files()
}

// analyzeBoards generates boards for seeds 1..n.
func analyzeBoards(rules *engine.GameConfig, n int) BoardStats {
	stats := BoardStats{Boards: n}
	starts := make(map[int]int)
	var drop, climb, snakes, ladders int

	for seed := int64(1); seed <= int64(n); seed++ {
		s, l := board.Generate(random.Derive(seed, random.StreamBoard), engine.Total, rules.NumSnakes, rules.NumLadders)
		if len(s) < rules.NumSnakes {
			stats.ShortSnakes++
		}
		if len(l) < rules.NumLadders {
			stats.ShortLadders++
		}
		for start, end := range s {
			drop += start - end
			snakes++
			starts[start]++
		}
		for start, end := range l {
			climb += end - start
			ladders++
			starts[start]++
		}
	}

	if snakes > 0 {
		stats.AvgSnakeDrop = float64(drop) / float64(snakes)
	}
	if ladders > 0 {
		stats.AvgLadderClimb = float64(climb) / float64(ladders)
	}

	for cell := range starts {
		stats.HotCells = append(stats.HotCells, cell)
	}
	sort.Slice(stats.HotCells, func(i, j int) bool {
		a, b := stats.HotCells[i], stats.HotCells[j]
		if starts[a] != starts[b] {
			return starts[a] > starts[b]
		}
		return a < b
	})
	if len(stats.HotCells) > 5 {
		stats.HotCells = stats.HotCells[:5]
	}
	return stats
}

// analyzeChallenges reads one challenge file and counts its cards.
func analyzeChallenges(path string) (ChallengeStats, error) {
	texts, skipped, err := config.ReadChallengeFile(path)
	if err != nil {
		return ChallengeStats{}, err
	}

	cs := ChallengeStats{File: filepath.Base(path), Skipped: skipped}
	for _, text := range texts {
		category, ok := deck.Classify(text)
		switch {
		case !ok:
			cs.Invalid++
			continue
		case category == deck.Truth:
			cs.Truths++
		default:
			cs.Dares++
		}

		switch steps := effect.ParseMove(text); {
		case steps > 0:
			cs.Forward++
		case steps < 0:
			cs.Backward++
		}
		if effect.IsTimed(text) {
			cs.Timed++
			if secs := effect.ParseTimerSeconds(text); secs > cs.MaxTimer {
				cs.MaxTimer = secs
			}
		}
	}

	// With no cards at all the board carries no challenges; the sentinel only
	// stands in for one empty category.
	if cs.Truths == 0 && cs.Dares > 0 {
		cs.Sentinels++
	}
	if cs.Dares == 0 && cs.Truths > 0 {
		cs.Sentinels++
	}
	return cs, nil
}

func printBoardStats(s BoardStats) {
	fmt.Printf("Average snake drop: %.1f cells\n", s.AvgSnakeDrop)
	fmt.Printf("Average ladder climb: %.1f cells\n", s.AvgLadderClimb)
	fmt.Printf("Most common hazard starts: %v\n", s.HotCells)
	if s.ShortSnakes > 0 || s.ShortLadders > 0 {
		fmt.Printf("⚠️  WARNING: %d boards are missing snakes, %d are missing ladders\n", s.ShortSnakes, s.ShortLadders)
	} else {
		fmt.Printf("✅ Every board placed all hazards\n")
	}
}

func printChallengeStats(cs ChallengeStats) {
	fmt.Printf("Truths: %d, Dares: %d\n", cs.Truths, cs.Dares)
	fmt.Printf("Timed: %d (longest %ds)\n", cs.Timed, cs.MaxTimer)
	fmt.Printf("Movement: %d forward, %d backward\n", cs.Forward, cs.Backward)
	if cs.Invalid > 0 || cs.Skipped > 0 {
		fmt.Printf("⚠️  WARNING: %d entries are not challenges, %d are not text\n", cs.Invalid, cs.Skipped)
	}
	if cs.Truths == 0 && cs.Dares == 0 {
		fmt.Printf("⚠️  CRITICAL: no challenges, boards for this level carry none\n")
	} else if cs.Sentinels > 0 {
		fmt.Printf("⚠️  CRITICAL: %d categories are empty and will draw %q\n", cs.Sentinels, deck.Sentinel)
	} else {
		fmt.Printf("✅ Both categories have cards\n")
	}
}
