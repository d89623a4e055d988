package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grabbox/common"
	"go.uber.org/zap"
)

var (
	ErrBodyNotFound   = errors.New("physics: body not found")
	ErrInvalidShape   = errors.New("physics: invalid shape")
	ErrDegenerateHull = errors.New("physics: degenerate convex hull")
)

const (
	solverIterations = 20
	density          = 1.0
	defaultFriction  = 0.7
	minHullArea      = 1e-9

	// nearestQueryRadius bounds how far from a point the nearest-shape query
	// looks. The whole scene fits well inside it.
	nearestQueryRadius = 10.0
)

const (
	grabbableCategory uint = 1 << iota
	fixedCategory
)

var (
	grabbableFilter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: grabbableCategory, Mask: cp.ALL_CATEGORIES}
	fixedFilter     = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: fixedCategory, Mask: cp.ALL_CATEGORIES}
	grabQueryFilter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: grabbableCategory}
)

// BodyKind selects how a body is simulated.
type BodyKind int

const (
	// Dynamic bodies respond to gravity, damping and collisions.
	Dynamic BodyKind = iota
	// Kinematic bodies move only when told to and push dynamic bodies aside.
	Kinematic
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Damping holds per-body velocity damping coefficients.
type Damping struct {
	Linear  float64
	Angular float64
}

// Hit is the result of a nearest-body point query.
type Hit struct {
	Body     BodyHandle
	Inside   bool
	Distance float64
}

type bodyRecord struct {
	body         *cp.Body
	kind         BodyKind
	gravityScale float64
	damping      Damping
	mass         float64
	moment       float64
}

// updateVelocity replaces Chipmunk's default integrator for dynamic bodies so
// that gravity scale and damping are tracked per body.
func (r *bodyRecord) updateVelocity(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
	cp.BodyUpdateVelocity(body, gravity.Mult(r.gravityScale), damping, dt)
	v := body.Velocity().Mult(1.0 / (1.0 + dt*r.damping.Linear))
	body.SetVelocity(v.X, v.Y)
	body.SetAngularVelocity(body.AngularVelocity() / (1.0 + dt*r.damping.Angular))
}

// World owns the Chipmunk space and every body in it.
type World struct {
	space    *cp.Space
	timestep float64
	bodies   bodyStore
	shapes   map[*cp.Shape]Shape
	logger   *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithGravity overrides the default downward gravity.
func WithGravity(g cp.Vector) Option {
	return func(w *World) {
		w.space.SetGravity(g)
	}
}

// WithTimestep overrides the fixed step duration in seconds.
func WithTimestep(dt float64) Option {
	return func(w *World) {
		if dt > 0 {
			w.timestep = dt
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorld creates an empty world with gravity pointing down the screen.
func NewWorld(opts ...Option) *World {
	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})

	w := &World{
		space:    space,
		timestep: common.FixedTimestep,
		shapes:   make(map[*cp.Shape]Shape),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return w.bodies.len()
}

// CreateBody adds a body without colliders at position.
func (w *World) CreateBody(kind BodyKind, position cp.Vector, damping Damping) BodyHandle {
	rec := &bodyRecord{kind: kind, gravityScale: 1, damping: damping}
	if kind == Kinematic {
		rec.body = cp.NewKinematicBody()
	} else {
		// Mass and moment are placeholders until a collider is attached.
		rec.body = cp.NewBody(1, 1)
		rec.body.SetVelocityUpdateFunc(rec.updateVelocity)
	}
	rec.body.SetPosition(position)
	w.space.AddBody(rec.body)

	h := w.bodies.insert(rec)
	rec.body.UserData = h
	w.logger.Debug("physics: created body", zap.Stringer("body", h), zap.Stringer("kind", kind))
	return h
}

// AttachCollider gives a body its geometry. Dynamic bodies take their mass and
// moment of inertia from the collider at unit density.
func (w *World) AttachCollider(h BodyHandle, shape Shape, restitution float64) error {
	rec, err := w.lookup(h, "attach collider")
	if err != nil {
		return err
	}

	var (
		cs     *cp.Shape
		mass   float64
		moment float64
	)
	switch s := shape.(type) {
	case Ball:
		if s.Radius <= 0 {
			return fmt.Errorf("physics: ball radius %v: %w", s.Radius, ErrInvalidShape)
		}
		cs = cp.NewCircle(rec.body, s.Radius, cp.Vector{})
		mass = cp.AreaForCircle(0, s.Radius) * density
		moment = cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
	case Box:
		width, height := s.HalfExtents.X*2, s.HalfExtents.Y*2
		if width <= 0 || height <= 0 {
			return fmt.Errorf("physics: box extents %v: %w", s.HalfExtents, ErrInvalidShape)
		}
		cs = cp.NewBox(rec.body, width, height, 0)
		mass = width * height * density
		moment = cp.MomentForBox(mass, width, height)
	case ConvexPolygon:
		hull, err := convexHull(s.Points)
		if err != nil {
			return fmt.Errorf("physics: convex polygon with %d points: %w", len(s.Points), err)
		}
		cs = cp.NewPolyShapeRaw(rec.body, len(hull), hull, 0)
		mass = cp.AreaForPoly(len(hull), hull, 0) * density
		moment = cp.MomentForPoly(mass, len(hull), hull, cp.Vector{}, 0)
		shape = ConvexPolygon{Points: hull}
	default:
		return fmt.Errorf("physics: attach %T: %w", shape, ErrInvalidShape)
	}

	cs.SetElasticity(restitution)
	cs.SetFriction(defaultFriction)
	if rec.kind == Dynamic {
		cs.SetFilter(grabbableFilter)
		rec.mass += mass
		rec.moment += moment
		rec.body.SetMass(rec.mass)
		rec.body.SetMoment(rec.moment)
	} else {
		cs.SetFilter(fixedFilter)
	}

	w.space.AddShape(cs)
	w.shapes[cs] = shape
	return nil
}

// Step advances the simulation by one fixed timestep. Chipmunk refreshes the
// dynamic spatial index as part of the step, so point queries made afterwards
// see the new positions.
func (w *World) Step() {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(w.timestep)
}

// SetTranslation teleports a body.
func (w *World) SetTranslation(h BodyHandle, p cp.Vector) error {
	rec, err := w.lookup(h, "set translation")
	if err != nil {
		return err
	}
	rec.body.SetPosition(p)
	return nil
}

func (w *World) SetLinearVelocity(h BodyHandle, v cp.Vector) error {
	rec, err := w.lookup(h, "set linear velocity")
	if err != nil {
		return err
	}
	rec.body.SetVelocity(v.X, v.Y)
	return nil
}

func (w *World) SetAngularVelocity(h BodyHandle, v float64) error {
	rec, err := w.lookup(h, "set angular velocity")
	if err != nil {
		return err
	}
	rec.body.SetAngularVelocity(v)
	return nil
}

// SetGravityScale scales world gravity for one body. 1 is normal gravity.
func (w *World) SetGravityScale(h BodyHandle, scale float64) error {
	rec, err := w.lookup(h, "set gravity scale")
	if err != nil {
		return err
	}
	rec.gravityScale = scale
	rec.body.Activate()
	return nil
}

func (w *World) SetAngularDamping(h BodyHandle, damping float64) error {
	rec, err := w.lookup(h, "set angular damping")
	if err != nil {
		return err
	}
	rec.damping.Angular = damping
	return nil
}

func (w *World) Translation(h BodyHandle) (cp.Vector, error) {
	rec, err := w.lookup(h, "translation")
	if err != nil {
		return cp.Vector{}, err
	}
	return rec.body.Position(), nil
}

func (w *World) LinearVelocity(h BodyHandle) (cp.Vector, error) {
	rec, err := w.lookup(h, "linear velocity")
	if err != nil {
		return cp.Vector{}, err
	}
	return rec.body.Velocity(), nil
}

func (w *World) AngularVelocity(h BodyHandle) (float64, error) {
	rec, err := w.lookup(h, "angular velocity")
	if err != nil {
		return 0, err
	}
	return rec.body.AngularVelocity(), nil
}

func (w *World) GravityScale(h BodyHandle) (float64, error) {
	rec, err := w.lookup(h, "gravity scale")
	if err != nil {
		return 0, err
	}
	return rec.gravityScale, nil
}

func (w *World) AngularDamping(h BodyHandle) (float64, error) {
	rec, err := w.lookup(h, "angular damping")
	if err != nil {
		return 0, err
	}
	return rec.damping.Angular, nil
}

func (w *World) Kind(h BodyHandle) (BodyKind, error) {
	rec, err := w.lookup(h, "kind")
	if err != nil {
		return 0, err
	}
	return rec.kind, nil
}

// Body exposes the Chipmunk body behind a handle.
func (w *World) Body(h BodyHandle) (*cp.Body, error) {
	rec, err := w.lookup(h, "body")
	if err != nil {
		return nil, err
	}
	return rec.body, nil
}

// QueryNearestDynamic finds the dynamic body whose shape is nearest to point.
// Kinematic bodies are never reported.
func (w *World) QueryNearestDynamic(point cp.Vector) (Hit, bool) {
	if w == nil || w.space == nil {
		return Hit{}, false
	}
	info := w.space.PointQueryNearest(point, nearestQueryRadius, grabQueryFilter)
	if info == nil || info.Shape == nil {
		return Hit{}, false
	}
	body := info.Shape.Body()
	if body == nil || body.GetType() != cp.BODY_DYNAMIC {
		return Hit{}, false
	}
	h, ok := body.UserData.(BodyHandle)
	if !ok {
		return Hit{}, false
	}
	if _, ok := w.bodies.get(h); !ok {
		return Hit{}, false
	}
	return Hit{Body: h, Inside: info.Distance < 0, Distance: info.Distance}, true
}

// Colliders returns every collider on a body with its world transform.
func (w *World) Colliders(h BodyHandle) ([]Collider, error) {
	rec, err := w.lookup(h, "colliders")
	if err != nil {
		return nil, err
	}
	tr := Transform{Position: rec.body.Position(), Angle: rec.body.Angle()}
	var out []Collider
	rec.body.EachShape(func(s *cp.Shape) {
		desc, ok := w.shapes[s]
		if !ok {
			desc = Unsupported{Class: fmt.Sprintf("%T", s.Class)}
		}
		out = append(out, Collider{Shape: desc, Transform: tr})
	})
	return out, nil
}

// RemoveBody deletes a body and its colliders. Handles to it go stale.
func (w *World) RemoveBody(h BodyHandle) error {
	rec, ok := w.bodies.remove(h)
	if !ok {
		return fmt.Errorf("physics: remove body %v: %w", h, ErrBodyNotFound)
	}
	var shapes []*cp.Shape
	rec.body.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		w.space.RemoveShape(s)
		delete(w.shapes, s)
	}
	w.space.RemoveBody(rec.body)
	rec.body.UserData = nil
	w.logger.Debug("physics: removed body", zap.Stringer("body", h))
	return nil
}

func (w *World) lookup(h BodyHandle, op string) (*bodyRecord, error) {
	if w == nil {
		return nil, fmt.Errorf("physics: %s %v: %w", op, h, ErrBodyNotFound)
	}
	rec, ok := w.bodies.get(h)
	if !ok {
		return nil, fmt.Errorf("physics: %s %v: %w", op, h, ErrBodyNotFound)
	}
	return rec, nil
}
