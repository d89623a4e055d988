package pointer

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grabbox/common"
	"github.com/milk9111/grabbox/physics"
	"go.uber.org/zap"
)

const (
	// ReleaseVelocityScale turns the last cursor displacement into a fling
	// velocity when a body is let go.
	ReleaseVelocityScale = 30.0

	grabAngularDamping    = 0.99
	releaseAngularDamping = 0.2
)

// PlayerID identifies a connected player.
type PlayerID uint32

// ID identifies one pointer (mouse, touch or stylus) of a player.
type ID uint32

// Key addresses a single pointer.
type Key struct {
	Player  PlayerID
	Pointer ID
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Player, b.Player); c != 0 {
		return c
	}
	return cmp.Compare(a.Pointer, b.Pointer)
}

// State is everything tracked about one pointer. A zero Held handle means the
// pointer is idle.
type State struct {
	Held       physics.BodyHandle
	Cursor     cp.Vector
	PrevCursor cp.Vector
	GrabOffset cp.Vector
	Pressed    bool
	Render     bool
	Color      color.RGBA
}

// Holding reports whether the pointer is dragging a body.
func (s *State) Holding() bool {
	return s.Held.Valid()
}

// Target is where a held body should be placed this tick.
func (s *State) Target() cp.Vector {
	return s.Cursor.Add(s.GrabOffset)
}

// Machine turns pointer events into grabs, drags and flings.
type Machine struct {
	world    *physics.World
	colors   *Colors
	pointers map[Key]*State
	logger   *zap.Logger
}

// NewMachine creates a machine acting on world. A nil logger disables logging.
func NewMachine(world *physics.World, colors *Colors, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		world:    world,
		colors:   colors,
		pointers: make(map[Key]*State),
		logger:   logger,
	}
}

// Join registers a player and returns its colour.
func (m *Machine) Join(p PlayerID) color.RGBA {
	return m.colors.Assign(p)
}

// Leave forgets a player and every pointer it owns. Bodies the player was
// holding get their gravity and damping back but no fling.
func (m *Machine) Leave(p PlayerID) {
	for key, st := range m.pointers {
		if key.Player != p {
			continue
		}
		if st.Holding() {
			m.restore(st.Held)
			st.Held = 0
		}
		delete(m.pointers, key)
	}
	m.colors.Release(p)
}

// Down presses a pointer at a screen position and grabs the dynamic body
// under it, if any.
func (m *Machine) Down(p PlayerID, id ID, x, y float64) {
	key := Key{Player: p, Pointer: id}
	st, ok := m.ensure(key)
	if !ok {
		return
	}

	st.Pressed = true
	st.Render = true
	st.Cursor = common.ToWorld(x, y)

	if st.Holding() {
		m.logger.Debug("pointer: pressed while holding, dropping previous body", zap.Uint32("player", uint32(p)), zap.Uint32("pointer", uint32(id)))
		m.restore(st.Held)
		st.Held = 0
	}

	hit, ok := m.world.QueryNearestDynamic(st.Cursor)
	if !ok {
		return
	}
	if !hit.Inside {
		m.logger.Debug("pointer: press missed",
			zap.Stringer("nearest", hit.Body),
			zap.Float64("distance", hit.Distance))
		return
	}
	if owner, held := m.HeldBy(hit.Body); held {
		m.logger.Debug("pointer: body already held",
			zap.Stringer("body", hit.Body),
			zap.Uint32("owner_player", uint32(owner.Player)),
			zap.Uint32("owner_pointer", uint32(owner.Pointer)))
		return
	}

	pos, err := m.world.Translation(hit.Body)
	if err != nil {
		m.logger.Debug("pointer: grab target vanished", zap.Error(err))
		return
	}

	st.Held = hit.Body
	st.GrabOffset = pos.Sub(st.Cursor)
	m.check("zero gravity", m.world.SetGravityScale(hit.Body, 0))
	m.check("stop spin", m.world.SetAngularVelocity(hit.Body, 0))
	m.check("grab damping", m.world.SetAngularDamping(hit.Body, grabAngularDamping))
}

// Move records a new cursor position. Held bodies follow on the next tick.
func (m *Machine) Move(p PlayerID, id ID, x, y float64) {
	st, ok := m.ensure(Key{Player: p, Pointer: id})
	if !ok {
		return
	}
	st.PrevCursor = st.Cursor
	st.Cursor = common.ToWorld(x, y)
}

// Up releases a pointer. A held body is flung with the last cursor
// displacement. Touch and stylus cursors stop rendering once lifted.
func (m *Machine) Up(p PlayerID, id ID, isMouse bool, x, y float64) {
	st, ok := m.ensure(Key{Player: p, Pointer: id})
	if !ok {
		return
	}

	st.Render = isMouse
	st.Pressed = false
	if !st.Holding() {
		return
	}

	velocity := st.Cursor.Sub(st.PrevCursor).Mult(ReleaseVelocityScale)
	m.check("fling", m.world.SetLinearVelocity(st.Held, velocity))
	m.restore(st.Held)
	st.Held = 0
}

// State returns a copy of a pointer's state.
func (m *Machine) State(key Key) (State, bool) {
	st, ok := m.pointers[key]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Len returns the number of tracked pointers.
func (m *Machine) Len() int {
	return len(m.pointers)
}

// HeldBy reports which pointer, if any, is holding body.
func (m *Machine) HeldBy(body physics.BodyHandle) (Key, bool) {
	for key, st := range m.pointers {
		if st.Held == body {
			return key, true
		}
	}
	return Key{}, false
}

// Each visits pointers ordered by player then pointer id.
func (m *Machine) Each(fn func(Key, *State)) {
	keys := make([]Key, 0, len(m.pointers))
	for key := range m.pointers {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	for _, key := range keys {
		fn(key, m.pointers[key])
	}
}

func (m *Machine) ensure(key Key) (*State, bool) {
	col, ok := m.colors.Lookup(key.Player)
	if !ok {
		m.logger.Debug("pointer: ignoring event from unknown player", zap.Uint32("player", uint32(key.Player)))
		return nil, false
	}
	st, ok := m.pointers[key]
	if !ok {
		st = &State{Color: col}
		m.pointers[key] = st
	}
	return st, true
}

func (m *Machine) restore(body physics.BodyHandle) {
	m.check("restore gravity", m.world.SetGravityScale(body, 1))
	m.check("release damping", m.world.SetAngularDamping(body, releaseAngularDamping))
}

func (m *Machine) check(op string, err error) {
	if err != nil {
		m.logger.Debug("pointer: body override skipped", zap.String("op", op), zap.Error(err))
	}
}
