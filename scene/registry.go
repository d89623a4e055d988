package scene

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grabbox/physics"
)

const (
	linearDamping  = 1.4
	angularDamping = 0.3

	roundRestitution = 0.4
	boxRestitution   = 0.5
)

// Object is one drawable body. Its geometry lives in the physics world.
type Object struct {
	Body  physics.BodyHandle
	Color color.RGBA
}

// Registry holds the objects created at startup, in creation order.
type Registry struct {
	world   *physics.World
	rng     *rand.Rand
	objects []Object
}

// NewRegistry creates an empty registry that builds bodies in world and draws
// generic object colours from rng.
func NewRegistry(world *physics.World, rng *rand.Rand) *Registry {
	return &Registry{world: world, rng: rng}
}

// World returns the physics world objects are created in.
func (r *Registry) World() *physics.World {
	return r.world
}

// Objects returns every registered object in creation order.
func (r *Registry) Objects() []Object {
	return r.objects
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// AddBall adds a dynamic ball centred at (x, y) with a palette colour.
func (r *Registry) AddBall(x, y, radius float64) (Object, error) {
	return r.add(physics.Dynamic, cp.Vector{X: x, Y: y}, physics.Ball{Radius: radius}, roundRestitution, nil)
}

// AddRectangle adds a box centred at (x, y). A nil colour draws from the palette.
func (r *Registry) AddRectangle(x, y, halfWidth, halfHeight float64, kinematic bool, c *color.RGBA) (Object, error) {
	kind := physics.Dynamic
	if kinematic {
		kind = physics.Kinematic
	}
	return r.add(kind, cp.Vector{X: x, Y: y}, physics.NewBox(halfWidth, halfHeight), boxRestitution, c)
}

// AddRegularPolygon adds a dynamic polygon with the given number of sides
// whose vertices lie size away from (x, y).
func (r *Registry) AddRegularPolygon(x, y float64, sides int, size float64) (Object, error) {
	points := make([]cp.Vector, 0, sides)
	for i := 0; i < sides; i++ {
		angle := float64(i) / float64(sides) * 2 * math.Pi
		sin, cos := math.Sincos(angle)
		points = append(points, cp.Vector{X: sin * size, Y: cos * size})
	}
	return r.AddConvexHull(x, y, points, nil)
}

// AddConvexHull adds a dynamic body shaped like the convex hull of points,
// which are relative to (x, y).
func (r *Registry) AddConvexHull(x, y float64, points []cp.Vector, c *color.RGBA) (Object, error) {
	return r.add(physics.Dynamic, cp.Vector{X: x, Y: y}, physics.ConvexPolygon{Points: points}, roundRestitution, c)
}

func (r *Registry) add(kind physics.BodyKind, pos cp.Vector, shape physics.Shape, restitution float64, c *color.RGBA) (Object, error) {
	h := r.world.CreateBody(kind, pos, physics.Damping{Linear: linearDamping, Angular: angularDamping})
	if err := r.world.AttachCollider(h, shape, restitution); err != nil {
		_ = r.world.RemoveBody(h)
		return Object{}, fmt.Errorf("scene: add %s %T at %v: %w", kind, shape, pos, err)
	}

	obj := Object{Body: h}
	if c != nil {
		obj.Color = *c
	} else {
		obj.Color = RandomColor(r.rng)
	}
	r.objects = append(r.objects, obj)
	return obj, nil
}
