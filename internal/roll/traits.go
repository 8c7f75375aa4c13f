package roll

import (
	"math/rand/v2"

	"github.com/arenagm/companion/internal/game"
)

// GenerateTraits rolls a fresh trait assignment: shuffle the five slots,
// give the first +2 and the second -2, leave the rest at 0. Exactly one
// +2 and exactly one -2 per commoner, always.
func GenerateTraits(rng *rand.Rand) game.Traits {
	slots := append([]game.TraitName(nil), game.TraitNames...)
	rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	var t game.Traits
	t.Set(slots[0], 2)
	t.Set(slots[1], -2)
	return t
}
