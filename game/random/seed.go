// Package random provides the pseudo-random sources used by the game core.
//
// Dice rolls, hazard placement and deck shuffling each draw from their own
// *rand.Rand so that a single seed can reproduce a whole game while the
// sources stay independent of each other.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Stream identifies one of the independent sources derived from a game seed.
type Stream int64

const (
	StreamDice Stream = iota + 1
	StreamBoard
	StreamDeck
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a source seeded with seed. A zero seed asks for a fresh
// crypto-backed seed; if that fails the source falls back to seed 1.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		fresh, err := NewSeed()
		if err != nil {
			fresh = 1
		}
		seed = fresh
	}
	return rand.New(rand.NewSource(seed))
}

// Derive returns the source for one stream of a seeded game. Streams derived
// from the same non-zero seed are reproducible; a zero seed yields
// unrelated fresh sources.
func Derive(seed int64, stream Stream) *rand.Rand {
	if seed == 0 {
		return New(0)
	}
	// splitmix64 step keeps neighbouring streams decorrelated
	z := uint64(seed) + uint64(stream)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	derived := int64(z)
	if derived == 0 {
		derived = 1
	}
	return rand.New(rand.NewSource(derived))
}
