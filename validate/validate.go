// Command validate checks the challenge and rules files in a configs
// directory (../configs unless a directory is given). For challenge files it
// checks:
//   - JSON or YAML structure (a mapping or a list of texts)
//   - Every entry classifies as truth or dare
//   - Both categories are present
//   - Movement instructions stay within the board
//   - No text appears twice
//
// Rules files (rules*.json) are validated as game rules and a board is
// generated with them to make sure every hazard can be placed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/config"
	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/effect"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/random"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateChallenges loads and validates a single challenge file.
func validateChallenges(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	texts, skipped, err := config.ReadChallengeFile(filePath)
	if err != nil {
		result.fail("Failed to read challenges: %v", err)
		return result
	}
	if len(texts) == 0 {
		result.fail("File contains no challenges")
		return result
	}
	if skipped > 0 {
		result.fail("%d entries are not plain text", skipped)
	}

	ids := make([]string, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var truths, dares, timed, moves int
	seen := make(map[string]string)
	for _, id := range ids {
		text := texts[id]

		category, ok := deck.Classify(text)
		if !ok {
			result.fail("Entry %s is neither truth nor dare: %q", id, text)
			continue
		}
		if category == deck.Truth {
			truths++
		} else {
			dares++
		}

		key := strings.TrimSpace(effect.Fold(text))
		if other, dup := seen[key]; dup {
			result.fail("Entry %s duplicates entry %s", id, other)
		}
		seen[key] = id

		if steps := effect.ParseMove(text); steps != 0 {
			moves++
			if steps >= engine.Total || -steps >= engine.Total {
				result.fail("Entry %s moves %d cells, more than the board holds", id, steps)
			}
		}
		if effect.IsTimed(text) {
			timed++
		}
	}

	if truths == 0 {
		result.fail("No truth challenges")
	}
	if dares == 0 {
		result.fail("No dare challenges")
	}

	if result.Valid {
		result.info("%d truths, %d dares", truths, dares)
		result.info("%d timed, %d with movement", timed, moves)
	}
	return result
}

// validateRules validates a rules file and checks that a board built from it
// places every hazard.
func validateRules(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	rules, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	seed := rules.Seed
	if seed == 0 {
		seed = 1
	}
	snakes, ladders := board.Generate(random.Derive(seed, random.StreamBoard), engine.Total, rules.NumSnakes, rules.NumLadders)
	if err := board.Validate(engine.Total, snakes, ladders); err != nil {
		result.fail("Generated board is invalid: %v", err)
	}
	if len(snakes) < rules.NumSnakes || len(ladders) < rules.NumLadders {
		result.fail("Only %d of %d snakes and %d of %d ladders could be placed",
			len(snakes), rules.NumSnakes, len(ladders), rules.NumLadders)
	}

	if result.Valid {
		result.info("%s: %d snakes, %d ladders, %d challenge cells", rules.Name, rules.NumSnakes, rules.NumLadders, rules.ChallengeAmount)
		result.info("%d-%d players, levels %d-%d", rules.MinPlayers, rules.MaxPlayers, rules.MinLevel, rules.MaxLevel)
	}
	return result
}

// validateFile dispatches on the file name.
func validateFile(filePath string) ValidationResult {
	if strings.HasPrefix(filepath.Base(filePath), "rules") {
		return validateRules(filePath)
	}
	return validateChallenges(filePath)
}

// main scans the configs directory and validates each file, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(configDir, pattern))
		if err != nil {
			fmt.Printf("Error finding config files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
