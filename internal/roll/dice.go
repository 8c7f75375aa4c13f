// Package roll provides the randomization utilities: dice, trait
// generation, and commoner name generation. Everything is a pure function
// of the supplied random source, which keeps tests deterministic.
package roll

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// Die identifies a die by its conventional name (d4 .. d100).
type Die string

const (
	D4   Die = "d4"
	D6   Die = "d6"
	D8   Die = "d8"
	D10  Die = "d10"
	D12  Die = "d12"
	D20  Die = "d20"
	D100 Die = "d100"
)

// DiceTypes lists the supported dice in ascending order.
var DiceTypes = []Die{D4, D6, D8, D10, D12, D20, D100}

// Sides returns the number of faces, or false for an unknown die.
func (d Die) Sides() (int, bool) {
	switch d {
	case D4:
		return 4, true
	case D6:
		return 6, true
	case D8:
		return 8, true
	case D10:
		return 10, true
	case D12:
		return 12, true
	case D20:
		return 20, true
	case D100:
		return 100, true
	default:
		return 0, false
	}
}

// Result is the outcome of one roll, modifiers applied.
type Result struct {
	Die       Die            `json:"die"`
	Modifier  int            `json:"modifier"`
	Roll      int            `json:"roll"`
	Total     int            `json:"total"`
	Timestamp time.Time      `json:"timestamp"`
	TraitUsed game.TraitName `json:"traitUsed,omitempty"`
}

// NewRand returns a new pseudo-random source seeded from the global one.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RollDie rolls a single die, returning a value in [1, sides].
// Unknown dice roll 0.
func RollDie(rng *rand.Rand, d Die) int {
	sides, ok := d.Sides()
	if !ok {
		return 0
	}
	return rng.IntN(sides) + 1
}

// Roll rolls a die with a flat modifier.
func Roll(rng *rand.Rand, d Die, modifier int, trait game.TraitName) Result {
	r := RollDie(rng, d)
	return Result{
		Die:       d,
		Modifier:  modifier,
		Roll:      r,
		Total:     r + modifier,
		Timestamp: time.Now(),
		TraitUsed: trait,
	}
}

// RollAdvantage rolls twice and keeps the higher die.
func RollAdvantage(rng *rand.Rand, d Die, modifier int, trait game.TraitName) Result {
	a, b := RollDie(rng, d), RollDie(rng, d)
	best := max(a, b)
	return Result{
		Die:       d,
		Modifier:  modifier,
		Roll:      best,
		Total:     best + modifier,
		Timestamp: time.Now(),
		TraitUsed: trait,
	}
}

// RollDisadvantage rolls twice and keeps the lower die.
func RollDisadvantage(rng *rand.Rand, d Die, modifier int, trait game.TraitName) Result {
	a, b := RollDie(rng, d), RollDie(rng, d)
	worst := min(a, b)
	return Result{
		Die:       d,
		Modifier:  modifier,
		Roll:      worst,
		Total:     worst + modifier,
		Timestamp: time.Now(),
		TraitUsed: trait,
	}
}

// Success reports whether the roll meets or beats the DC.
func (r Result) Success(dc int) bool {
	return r.Total >= dc
}

// String renders the roll for log lines, e.g. "d20+2: 17 (15+2)".
func (r Result) String() string {
	if r.Modifier == 0 {
		return fmt.Sprintf("%s: %d", r.Die, r.Total)
	}
	return fmt.Sprintf("%s%+d: %d (%d%+d)", r.Die, r.Modifier, r.Total, r.Roll, r.Modifier)
}
