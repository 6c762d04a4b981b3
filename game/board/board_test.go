package board

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/wricardo/ladderdare/game/deck"
)

type fakeDrawer struct {
	calls []deck.Category
}

func (f *fakeDrawer) Draw(c deck.Category) deck.Card {
	f.calls = append(f.calls, c)
	return deck.Card{Text: "card " + strconv.Itoa(len(f.calls)), Category: c}
}

func TestGenerateRespectsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		snakes, ladders := Generate(rng, Total, 3, 2)

		if len(snakes) > 3 || len(ladders) > 2 {
			t.Fatalf("seed %d: too many hazards: %d snakes, %d ladders", seed, len(snakes), len(ladders))
		}
		if err := Validate(Total, snakes, ladders); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		for _, h := range Hazards(snakes, ladders) {
			if h.Start < EdgeMargin || h.Start > Total-EdgeMargin || h.End < EdgeMargin || h.End > Total-EdgeMargin {
				t.Errorf("seed %d: hazard %+v outside placement range", seed, h)
			}
			if abs(h.Start-h.End) < MinSpan {
				t.Errorf("seed %d: hazard %+v shorter than %d", seed, h, MinSpan)
			}
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	s1, l1 := Generate(rand.New(rand.NewSource(42)), Total, 3, 2)
	s2, l2 := Generate(rand.New(rand.NewSource(42)), Total, 3, 2)

	h1, h2 := Hazards(s1, l1), Hazards(s2, l2)
	if len(h1) != len(h2) {
		t.Fatalf("expected same hazard count, got %d and %d", len(h1), len(h2))
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Errorf("hazard %d differs: %+v vs %+v", i, h1[i], h2[i])
		}
	}
}

func TestGenerateOmitsHazardsOnTinyBoard(t *testing.T) {
	// No pair in [5, 7] is 10 cells apart, so every draw is rejected.
	snakes, ladders := Generate(rand.New(rand.NewSource(1)), 12, 3, 2)
	if len(snakes) != 0 || len(ladders) != 0 {
		t.Errorf("expected no hazards, got snakes=%v ladders=%v", snakes, ladders)
	}
}

func TestHazardsSortedByStart(t *testing.T) {
	hazards := Hazards(map[int]int{80: 20, 40: 12}, map[int]int{10: 55, 60: 90})
	if len(hazards) != 4 {
		t.Fatalf("expected 4 hazards, got %d", len(hazards))
	}
	for i := 1; i < len(hazards); i++ {
		if hazards[i-1].Start > hazards[i].Start {
			t.Errorf("hazards not sorted: %+v", hazards)
		}
	}
	if hazards[0].Kind != Ladder || hazards[3].Kind != Snake {
		t.Errorf("unexpected kinds: %+v", hazards)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		snakes  map[int]int
		ladders map[int]int
		wantErr bool
	}{
		{"valid", map[int]int{50: 20}, map[int]int{10: 30}, false},
		{"snake going up", map[int]int{20: 50}, nil, true},
		{"ladder going down", nil, map[int]int{50: 20}, true},
		{"shared endpoint", map[int]int{50: 20}, map[int]int{20: 60}, true},
		{"touches last cell", nil, map[int]int{50: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Total, tt.snakes, tt.ladders)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *InvariantError
			if err != nil && !errors.As(err, &inv) {
				t.Errorf("expected *InvariantError, got %T", err)
			}
		})
	}
}

func TestDistributeAvoidsForbiddenCells(t *testing.T) {
	snakes := map[int]int{50: 20, 90: 70}
	ladders := map[int]int{10: 40}
	drawer := &fakeDrawer{}

	assignment := Distribute(rand.New(rand.NewSource(3)), drawer, snakes, ladders, Total, 40)

	if len(assignment) == 0 || len(assignment) > 40 {
		t.Fatalf("unexpected assignment size %d", len(assignment))
	}
	if len(drawer.calls) != len(assignment) {
		t.Errorf("expected one draw per cell, got %d draws for %d cells", len(drawer.calls), len(assignment))
	}

	forbidden := map[int]bool{1: true, Total: true, 50: true, 20: true, 90: true, 70: true, 10: true, 40: true}
	for key, card := range assignment {
		cell, err := strconv.Atoi(key)
		if err != nil {
			t.Fatalf("key %q is not a cell number", key)
		}
		if forbidden[cell] {
			t.Errorf("card placed on forbidden cell %d", cell)
		}
		if cell < 2 || cell > Total-1 {
			t.Errorf("card placed outside the board interior: %d", cell)
		}
		if card.Category != deck.Truth && card.Category != deck.Dare {
			t.Errorf("cell %d got category %q", cell, card.Category)
		}
	}
}

func TestDistributeStopsAtAmount(t *testing.T) {
	assignment := Distribute(rand.New(rand.NewSource(5)), &fakeDrawer{}, nil, nil, Total, 5)
	if len(assignment) != 5 {
		t.Errorf("expected 5 cards, got %d", len(assignment))
	}

	if got := Distribute(rand.New(rand.NewSource(5)), &fakeDrawer{}, nil, nil, Total, 0); len(got) != 0 {
		t.Errorf("expected no cards for zero amount, got %d", len(got))
	}
}

func TestDistributeWithRealDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	d := deck.FromTexts([]string{"Truth: siapa?", "Dare: maju 2"}, rng)
	snakes, ladders := Generate(rng, Total, 3, 2)

	assignment := Distribute(rng, d, snakes, ladders, Total, 40)
	for key, card := range assignment {
		if card.Text == "" || card.Text == deck.Sentinel {
			t.Errorf("cell %s got empty card %+v", key, card)
		}
	}
}

func TestDistributeSpacesConsecutivePicks(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		fd := &fakeDrawer{}
		assignment := Distribute(rand.New(rand.NewSource(seed)), fd, nil, nil, Total, 40)

		if len(fd.calls) != len(assignment) {
			t.Fatalf("seed %d: %d draws for %d cells", seed, len(fd.calls), len(assignment))
		}

		// Cards are drawn in pick order, so the card number gives each cell's rank.
		order := make([]int, len(assignment))
		for key, card := range assignment {
			cell, _ := strconv.Atoi(key)
			n, err := strconv.Atoi(strings.TrimPrefix(card.Text, "card "))
			if err != nil || n < 1 || n > len(order) {
				t.Fatalf("seed %d: unexpected card %q", seed, card.Text)
			}
			order[n-1] = cell
		}
		for i := 1; i < len(order); i++ {
			if d := order[i] - order[i-1]; d >= -1 && d <= 1 {
				t.Errorf("seed %d: pick %d (cell %d) follows cell %d", seed, i+1, order[i], order[i-1])
			}
		}
	}
}

func TestDistributeAllowsNeighbouringCards(t *testing.T) {
	// Only consecutive picks are spaced; over many seeds some board must hold
	// cards on two neighbouring cells.
	for seed := int64(1); seed <= 50; seed++ {
		assignment := Distribute(rand.New(rand.NewSource(seed)), &fakeDrawer{}, nil, nil, Total, 40)
		for key := range assignment {
			cell, _ := strconv.Atoi(key)
			if _, ok := assignment[strconv.Itoa(cell+1)]; ok {
				return
			}
		}
	}
	t.Error("Expected neighbouring cards on at least one board")
}
