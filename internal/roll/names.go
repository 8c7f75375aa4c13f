package roll

import (
	"math/rand/v2"
	"strings"
)

// Generic peasant names for commoner generation.

var firstNames = []string{
	"Gurt", "Mags", "Pip", "Bren", "Sal", "Twig",
	"Jax", "Nell", "Wick", "Dob", "Fern", "Cob",
	"Rue", "Bash", "Moll", "Grim", "Nan", "Tig",
	"Wort", "Peg", "Hob", "Jem", "Dot", "Rook",
	"Sly", "Kit", "Bram", "Elda", "Moss", "Grub",
	"Flint", "Pru", "Sten", "Ivy", "Craw", "Dulce",
	"Brick", "Maud", "Sprig", "Oat", "Birch", "Midge",
	"Clay", "Tess", "Soot", "Reed", "Ash", "Lark",
}

var epithets = []string{
	"the Muddy", "One-Eye", "Stinky", "the Loud",
	"Stumpy", "the Quick", "No-Teeth", "the Bold",
	"Greasy", "the Slow", "Lucky", "the Grim",
	"Soggy", "Half-Wit", "the Brave", "Scabby",
	"Lumpy", "the Meek", "Warty", "the Sly",
}

const epithetChance = 0.3

// GenerateName produces a single peasant name, with a 30% chance of an
// attached epithet.
func GenerateName(rng *rand.Rand) string {
	name := firstNames[rng.IntN(len(firstNames))]
	if rng.Float64() < epithetChance {
		name += " " + epithets[rng.IntN(len(epithets))]
	}
	return name
}

// GenerateNames produces count names. First names are kept unique until
// the pool runs dry; after that repeats are allowed so the requested
// count is always met.
func GenerateNames(rng *rand.Rand, count int) []string {
	names := make([]string, 0, count)
	used := make(map[string]bool, count)

	for len(names) < count {
		name := GenerateName(rng)
		first, _, _ := strings.Cut(name, " ")

		if used[first] && len(used) < len(firstNames) {
			continue
		}
		used[first] = true
		names = append(names, name)
	}

	return names
}
