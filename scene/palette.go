package scene

import (
	"image/color"
	"math/rand/v2"
)

// Palette is the set of colours handed out to players and generic objects.
var Palette = []color.RGBA{
	{R: 88, G: 128, B: 211, A: 255},
	{R: 240, G: 64, B: 23, A: 255},
	{R: 15, G: 141, B: 86, A: 255},
	{R: 234, G: 183, B: 18, A: 255},
}

// FloorColor is the fixed colour of the ground slab.
var FloorColor = color.RGBA{R: 222, G: 175, B: 166, A: 255}

// NewRand returns the seeded generator that drives every palette draw. The
// same seed and the same sequence of draws always yield the same colours.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// RandomColor draws one palette entry.
func RandomColor(rng *rand.Rand) color.RGBA {
	return Palette[rng.IntN(len(Palette))]
}
