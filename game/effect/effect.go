// Package effect extracts game effects embedded in challenge text.
//
// Challenge cards are free text written by players, mostly in Indonesian.
// Two instructions are recognised:
//   - a move instruction such as "Maju 3" or "Mundur 5 langkah"
//   - a countdown such as "2 menit 30 detik" or "45 sec"
//
// All functions are pure and safe for concurrent use.
package effect

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTimerSeconds is used when a timed challenge names no duration.
const DefaultTimerSeconds = 30

var (
	// BackwardKeywords move the player toward cell 1.
	BackwardKeywords = []string{"mundur"}
	// ForwardKeywords move the player toward the final cell.
	ForwardKeywords = []string{"maju", "bonus"}
	// TimedKeywords mark a challenge that runs against a countdown.
	TimedKeywords = []string{"tantangan", "detik", "menit", "timer"}
)

var (
	digitRun     = regexp.MustCompile(`\d+`)
	minutePhrase = regexp.MustCompile(`(\d+)\s*(menit|min|m)`)
	secondPhrase = regexp.MustCompile(`(\d+)\s*(detik|sec|s)`)
)

// Fold lower-cases text using Unicode-aware rules. Callers that match
// keywords should compare against the folded form.
func Fold(text string) string {
	return cases.Lower(language.Und).String(text)
}

// ContainsAny reports whether the folded text contains one of the keywords.
func ContainsAny(folded string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// ParseMove returns the signed step count encoded in text: negative for a
// backward instruction, positive for forward or bonus, 0 otherwise. A number
// without a direction keyword has no effect.
func ParseMove(text string) int {
	if text == "" {
		return 0
	}

	first := digitRun.FindString(text)
	if first == "" {
		return 0
	}
	steps, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}

	folded := Fold(text)
	switch {
	case ContainsAny(folded, BackwardKeywords):
		return -steps
	case ContainsAny(folded, ForwardKeywords):
		return steps
	}
	return 0
}

// ParseTimerSeconds returns the countdown length in seconds described by
// text. Minute and second phrases are summed; when neither yields a value the
// first bare number is used, and DefaultTimerSeconds when there is none.
func ParseTimerSeconds(text string) int {
	folded := Fold(text)
	total := 0

	if m := minutePhrase.FindStringSubmatch(folded); m != nil {
		total += atoi(m[1]) * 60
	}
	if m := secondPhrase.FindStringSubmatch(folded); m != nil {
		total += atoi(m[1])
	}

	if total == 0 {
		if bare := digitRun.FindString(folded); bare != "" {
			total = atoi(bare)
		} else {
			total = DefaultTimerSeconds
		}
	}
	return total
}

// IsTimed reports whether a challenge should run against a countdown.
func IsTimed(text string) bool {
	return ContainsAny(Fold(text), TimedKeywords)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
