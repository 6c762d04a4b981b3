// Package deck implements the truth-or-dare challenge deck.
//
// Cards are classified once, when raw text is ingested, and carry their
// category from then on. Each category keeps an immutable master list and a
// shuffled working pool; drawing from an empty pool reshuffles it from the
// master, and drawing from an empty master yields the Sentinel text.
package deck

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/wricardo/ladderdare/game/effect"
)

// Category is the kind of a challenge card.
type Category string

const (
	Truth Category = "truth"
	Dare  Category = "dare"
	// Any asks Draw to pick truth or dare uniformly.
	Any Category = "any"
)

// Sentinel is returned when a category has no cards at all.
const Sentinel = "Zonk! Tidak ada tantangan."

var (
	TruthKeywords = []string{"truth", "kebenaran"}
	DareKeywords  = []string{"dare", "tantangan"}
)

// Card is a single challenge.
type Card struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Drawer is the part of the deck the distributor and engine depend on.
type Drawer interface {
	Draw(category Category) Card
}

// Stats reports master and pool sizes per category.
type Stats struct {
	TruthMaster int `json:"truth_master"`
	DareMaster  int `json:"dare_master"`
	TruthPool   int `json:"truth_pool"`
	DarePool    int `json:"dare_pool"`
	Reshuffles  int `json:"reshuffles"`
}

// Deck holds the master lists and working pools. It is not safe for
// concurrent use; it belongs to one engine.
type Deck struct {
	rng *rand.Rand

	truthMaster []Card
	dareMaster  []Card
	truthPool   []Card
	darePool    []Card

	reshuffles int
}

// Classify derives a category from raw text. Text matching neither keyword
// set, or blank text, is not a challenge.
func Classify(text string) (Category, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	folded := effect.Fold(text)
	switch {
	case effect.ContainsAny(folded, TruthKeywords):
		return Truth, true
	case effect.ContainsAny(folded, DareKeywords):
		return Dare, true
	}
	return "", false
}

// New builds a deck from raw challenge texts keyed by arbitrary ids. Keys
// are visited in sorted order so a seeded rng gives a reproducible deck.
func New(raw map[string]string, rng *rand.Rand) *Deck {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	texts := make([]string, 0, len(keys))
	for _, k := range keys {
		texts = append(texts, raw[k])
	}
	return FromTexts(texts, rng)
}

// FromTexts builds a deck from an ordered list of raw texts.
func FromTexts(texts []string, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for _, text := range texts {
		category, ok := Classify(text)
		if !ok {
			continue
		}
		card := Card{Text: text, Category: category}
		if category == Truth {
			d.truthMaster = append(d.truthMaster, card)
		} else {
			d.dareMaster = append(d.dareMaster, card)
		}
	}
	d.Reshuffle()
	return d
}

// Reshuffle refills both pools with shuffled copies of the masters.
func (d *Deck) Reshuffle() {
	d.truthPool = d.shuffled(d.truthMaster)
	d.darePool = d.shuffled(d.dareMaster)
	d.reshuffles++
}

// Draw removes and returns one card of the given category. Any picks truth
// or dare with equal probability first. Unknown categories are treated as
// Any. Draw never fails.
func (d *Deck) Draw(category Category) Card {
	if category != Truth && category != Dare {
		category = d.PickCategory()
	}

	pool, master := &d.truthPool, d.truthMaster
	if category == Dare {
		pool, master = &d.darePool, d.dareMaster
	}

	if len(master) == 0 {
		return Card{Text: Sentinel, Category: category}
	}
	if len(*pool) == 0 {
		d.Reshuffle()
	}

	last := len(*pool) - 1
	card := (*pool)[last]
	*pool = (*pool)[:last]
	return card
}

// PickCategory returns truth or dare uniformly.
func (d *Deck) PickCategory() Category {
	if d.rng.Intn(2) == 0 {
		return Truth
	}
	return Dare
}

// Stats returns the current sizes of the deck.
func (d *Deck) Stats() Stats {
	return Stats{
		TruthMaster: len(d.truthMaster),
		DareMaster:  len(d.dareMaster),
		TruthPool:   len(d.truthPool),
		DarePool:    len(d.darePool),
		Reshuffles:  d.reshuffles,
	}
}

// Empty reports whether the deck has no cards in either category.
func (d *Deck) Empty() bool {
	return len(d.truthMaster) == 0 && len(d.dareMaster) == 0
}

func (d *Deck) shuffled(master []Card) []Card {
	pool := make([]Card, len(master))
	copy(pool, master)
	d.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}
