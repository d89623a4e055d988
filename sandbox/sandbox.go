// Package sandbox ties the physics world, the scene and the pointer machine
// together and dispatches host events to them.
package sandbox

import (
	"fmt"

	"github.com/milk9111/grabbox/physics"
	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/render"
	"github.com/milk9111/grabbox/scene"
	"go.uber.org/zap"
)

// DefaultSeed seeds the generator when no seed option is given.
const DefaultSeed uint64 = 19

type options struct {
	seed      uint64
	logger    *zap.Logger
	build     func(*scene.Registry) error
	worldOpts []physics.Option
}

// Option configures a Sandbox.
type Option func(*options)

// WithSeed sets the seed for palette draws.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScene replaces the default startup scene.
func WithScene(build func(*scene.Registry) error) Option {
	return func(o *options) {
		if build != nil {
			o.build = build
		}
	}
}

// WithWorld passes options through to the physics world.
func WithWorld(opts ...physics.Option) Option {
	return func(o *options) {
		o.worldOpts = append(o.worldOpts, opts...)
	}
}

// Sandbox owns all simulation state. It is not safe for concurrent use; the
// host delivers events from a single goroutine.
type Sandbox struct {
	world    *physics.World
	registry *scene.Registry
	machine  *pointer.Machine
	logger   *zap.Logger

	ticks uint64
}

// New builds the world and the startup scene. Scene construction failures are
// returned as is.
func New(opts ...Option) (*Sandbox, error) {
	o := options{
		seed:   DefaultSeed,
		logger: zap.NewNop(),
		build:  scene.Default,
	}
	for _, opt := range opts {
		opt(&o)
	}

	worldOpts := append([]physics.Option{physics.WithLogger(o.logger)}, o.worldOpts...)
	world := physics.NewWorld(worldOpts...)
	rng := scene.NewRand(o.seed)
	registry := scene.NewRegistry(world, rng)
	if err := o.build(registry); err != nil {
		return nil, fmt.Errorf("sandbox: build scene: %w", err)
	}

	s := &Sandbox{
		world:    world,
		registry: registry,
		machine:  pointer.NewMachine(world, pointer.NewColors(rng), o.logger),
		logger:   o.logger,
	}
	s.logger.Info("sandbox ready",
		zap.Int("objects", registry.Len()),
		zap.Uint64("seed", o.seed))
	return s, nil
}

// Handle dispatches one event. canvas is only used by Draw and may be nil
// otherwise.
func (s *Sandbox) Handle(evt Event, canvas render.Canvas) {
	switch e := evt.(type) {
	case FixedUpdate:
		s.FixedUpdate()
	case Draw:
		if canvas == nil {
			s.logger.Debug("sandbox: draw without canvas")
			return
		}
		s.Draw(canvas)
	case PlayerJoined:
		c := s.machine.Join(e.Player)
		s.logger.Info("player joined",
			zap.Uint32("player", uint32(e.Player)),
			zap.String("color", fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	case PlayerLeft:
		s.machine.Leave(e.Player)
		s.logger.Info("player left", zap.Uint32("player", uint32(e.Player)))
	case PointerMove:
		s.machine.Move(e.Player, e.Pointer, e.X, e.Y)
	case PointerDown:
		s.machine.Down(e.Player, e.Pointer, e.X, e.Y)
	case PointerUp:
		s.machine.Up(e.Player, e.Pointer, e.IsMouse, e.X, e.Y)
	default:
		s.logger.Warn("sandbox: unknown event", zap.String("type", fmt.Sprintf("%T", evt)))
	}
}

// World returns the physics world.
func (s *Sandbox) World() *physics.World {
	return s.world
}

// Registry returns the scene registry.
func (s *Sandbox) Registry() *scene.Registry {
	return s.registry
}

// Machine returns the pointer state machine.
func (s *Sandbox) Machine() *pointer.Machine {
	return s.machine
}

// Ticks returns how many fixed updates have run.
func (s *Sandbox) Ticks() uint64 {
	return s.ticks
}
