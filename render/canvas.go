// Package render holds the immediate-mode canvas the sandbox draws through
// and a recording implementation. Backends live in subpackages.
package render

import "image/color"

// Canvas is an immediate-mode 2D vector canvas. Coordinates are in render
// space and pass through the current affine transform.
type Canvas interface {
	SetColor(c color.RGBA)
	// SetTransform sets x' = a*x + c*y + e, y' = b*x + d*y + f.
	SetTransform(a, b, c, d, e, f float64)
	ResetTransform()
	DrawCircle(x, y, radius float64)
	DrawRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Fill()
}
