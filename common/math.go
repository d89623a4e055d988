package common

import "github.com/jakecoffman/cp"

// WorldScaleFactor converts screen units into world units. One world unit is
// 400 screen pixels.
const WorldScaleFactor = 0.05 / 20.0

const (
	// Gravity is the downward acceleration in world units per second squared.
	Gravity = 9.81
	// FixedTimestep is the duration of one simulation tick in seconds.
	FixedTimestep = 1.0 / 60.0
)

// ToWorld converts a screen-space position to world space.
func ToWorld(x, y float64) cp.Vector {
	return cp.Vector{X: x * WorldScaleFactor, Y: y * WorldScaleFactor}
}

// ToRender converts a world-space position back to screen space.
func ToRender(v cp.Vector) (float64, float64) {
	return v.X / WorldScaleFactor, v.Y / WorldScaleFactor
}

// ToRenderLength converts a world-space length to screen space.
func ToRenderLength(l float64) float64 {
	return l / WorldScaleFactor
}
