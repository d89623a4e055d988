package pointer

import (
	"image/color"
	"math/rand/v2"

	"github.com/milk9111/grabbox/scene"
)

// Colors maps connected players to their colour. Connected players get
// distinct palette entries until the palette runs out.
type Colors struct {
	rng      *rand.Rand
	byPlayer map[PlayerID]color.RGBA
}

// NewColors creates an empty colour table drawing from rng.
func NewColors(rng *rand.Rand) *Colors {
	return &Colors{rng: rng, byPlayer: make(map[PlayerID]color.RGBA)}
}

// Assign gives a player a colour. A player that already has one keeps it.
func (c *Colors) Assign(p PlayerID) color.RGBA {
	if existing, ok := c.byPlayer[p]; ok {
		return existing
	}

	free := make([]color.RGBA, 0, len(scene.Palette))
	for _, candidate := range scene.Palette {
		if !c.inUse(candidate) {
			free = append(free, candidate)
		}
	}
	if len(free) == 0 {
		free = scene.Palette
	}

	assigned := free[c.rng.IntN(len(free))]
	c.byPlayer[p] = assigned
	return assigned
}

// Lookup returns the colour of a connected player.
func (c *Colors) Lookup(p PlayerID) (color.RGBA, bool) {
	col, ok := c.byPlayer[p]
	return col, ok
}

// Release forgets a player.
func (c *Colors) Release(p PlayerID) {
	delete(c.byPlayer, p)
}

// Len returns the number of connected players.
func (c *Colors) Len() int {
	return len(c.byPlayer)
}

func (c *Colors) inUse(col color.RGBA) bool {
	for _, used := range c.byPlayer {
		if used == col {
			return true
		}
	}
	return false
}
