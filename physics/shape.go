package physics

import "github.com/jakecoffman/cp"

// Shape describes the geometry of a collider. It is a closed set: Ball, Box
// and ConvexPolygon can be attached to bodies; Unsupported is reported for
// shapes that reached the space by other means.
type Shape interface {
	isShape()
}

// Ball is a circle centred on the body origin.
type Ball struct {
	Radius float64
}

// Box is an axis-aligned (in body space) rectangle centred on the body origin.
type Box struct {
	HalfExtents cp.Vector
}

// ConvexPolygon is a convex hull in body space, wound counter-clockwise.
type ConvexPolygon struct {
	Points []cp.Vector
}

// Unsupported is any collider geometry the sandbox cannot draw.
type Unsupported struct {
	Class string
}

func (Ball) isShape()          {}
func (Box) isShape()           {}
func (ConvexPolygon) isShape() {}
func (Unsupported) isShape()   {}

// NewBox returns a Box with the given half extents.
func NewBox(halfWidth, halfHeight float64) Box {
	return Box{HalfExtents: cp.Vector{X: halfWidth, Y: halfHeight}}
}

// Transform places a collider in world space.
type Transform struct {
	Position cp.Vector
	Angle    float64
}

// Matrix returns the affine matrix (a, b, c, d, e, f) of the transform with
// every component multiplied by scale, in canvas order:
// x' = a*x + c*y + e, y' = b*x + d*y + f.
func (t Transform) Matrix(scale float64) (a, b, c, d, e, f float64) {
	rot := cp.ForAngle(t.Angle)
	return rot.X * scale, rot.Y * scale, -rot.Y * scale, rot.X * scale, t.Position.X * scale, t.Position.Y * scale
}

// Collider is a shape together with its current world transform.
type Collider struct {
	Shape     Shape
	Transform Transform
}

func convexHull(points []cp.Vector) ([]cp.Vector, error) {
	if len(points) < 3 {
		return nil, ErrDegenerateHull
	}
	verts := append([]cp.Vector(nil), points...)
	count := cp.ConvexHull(len(verts), verts, nil, 0)
	if count < 3 {
		return nil, ErrDegenerateHull
	}
	verts = verts[:count]
	if cp.AreaForPoly(count, verts, 0) <= minHullArea {
		return nil, ErrDegenerateHull
	}
	return verts, nil
}
