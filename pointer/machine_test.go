package pointer

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grabbox/common"
	"github.com/milk9111/grabbox/physics"
	"github.com/milk9111/grabbox/scene"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	world   *physics.World
	machine *Machine
	box     physics.BodyHandle
	floor   physics.BodyHandle
}

// screen converts a world position to the screen units pointer events use.
func screen(v cp.Vector) (float64, float64) {
	return common.ToRender(v)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	world := physics.NewWorld()
	reg := scene.NewRegistry(world, scene.NewRand(19))
	floorColor := scene.FloorColor
	floor, err := reg.AddRectangle(0.5, 1.5, 4, 0.02, true, &floorColor)
	require.NoError(t, err)
	box, err := reg.AddRectangle(1, 0.5, 0.1, 0.1, false, nil)
	require.NoError(t, err)

	m := NewMachine(world, NewColors(scene.NewRand(19)), zaptest.NewLogger(t))
	return &fixture{world: world, machine: m, box: box.Body, floor: floor.Body}
}

func (f *fixture) gravityScale(t *testing.T, h physics.BodyHandle) float64 {
	t.Helper()
	g, err := f.world.GravityScale(h)
	require.NoError(t, err)
	return g
}

func TestUnknownPlayerIsIgnored(t *testing.T) {
	f := newFixture(t)
	x, y := screen(cp.Vector{X: 1, Y: 0.5})

	f.machine.Down(7, 0, x, y)
	f.machine.Move(7, 0, x+1, y)
	f.machine.Up(7, 0, true, x, y)

	require.Equal(t, 0, f.machine.Len())
	require.Equal(t, 1.0, f.gravityScale(t, f.box))
}

func TestGrabDragRelease(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	key := Key{Player: 1, Pointer: 0}

	x, y := screen(cp.Vector{X: 1.05, Y: 0.5})
	f.machine.Move(1, 0, x, y)
	f.machine.Down(1, 0, x, y)

	st, ok := f.machine.State(key)
	require.True(t, ok)
	require.True(t, st.Holding())
	require.Equal(t, f.box, st.Held)
	require.True(t, st.Pressed)
	require.True(t, st.Render)
	require.InDelta(t, -0.05, st.GrabOffset.X, 1e-9)
	require.InDelta(t, 0, st.GrabOffset.Y, 1e-9)
	require.Equal(t, 0.0, f.gravityScale(t, f.box))
	damping, err := f.world.AngularDamping(f.box)
	require.NoError(t, err)
	require.Equal(t, grabAngularDamping, damping)

	for i := 1; i <= 5; i++ {
		f.machine.Move(1, 0, x+float64(i)*4, y)
		require.Equal(t, 0.0, f.gravityScale(t, f.box), "gravity must stay off while held")
	}

	f.machine.Up(1, 0, true, x+20, y)
	st, _ = f.machine.State(key)
	require.False(t, st.Holding())
	require.False(t, st.Pressed)
	require.True(t, st.Render, "mouse cursors keep rendering")
	require.Equal(t, 1.0, f.gravityScale(t, f.box))

	damping, err = f.world.AngularDamping(f.box)
	require.NoError(t, err)
	require.Equal(t, releaseAngularDamping, damping)

	v, err := f.world.LinearVelocity(f.box)
	require.NoError(t, err)
	require.InDelta(t, 4*common.WorldScaleFactor*ReleaseVelocityScale, v.X, 1e-9)
	require.InDelta(t, 0, v.Y, 1e-9)
}

func TestReleaseVelocityScale(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)

	start := cp.Vector{X: 1, Y: 0.5}
	x, y := screen(start)
	f.machine.Down(1, 0, x, y)
	f.machine.Move(1, 0, x, y)
	x, y = screen(start.Add(cp.Vector{X: 0.01}))
	f.machine.Move(1, 0, x, y)
	f.machine.Up(1, 0, false, x, y)

	v, err := f.world.LinearVelocity(f.box)
	require.NoError(t, err)
	require.InDelta(t, 0.3, v.X, 1e-9)
	require.InDelta(t, 0, v.Y, 1e-9)

	st, _ := f.machine.State(Key{Player: 1})
	require.False(t, st.Render, "touch cursors disappear on release")
}

func TestMissDoesNotGrab(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)

	// Near the box but outside it.
	x, y := screen(cp.Vector{X: 1.2, Y: 0.5})
	f.machine.Down(1, 0, x, y)
	st, _ := f.machine.State(Key{Player: 1})
	require.False(t, st.Holding())
	require.True(t, st.Pressed)
	require.Equal(t, 1.0, f.gravityScale(t, f.box))

	av, err := f.world.AngularDamping(f.box)
	require.NoError(t, err)
	require.Equal(t, 0.3, av)
}

func TestKinematicFloorIsNeverGrabbed(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)

	x, y := screen(cp.Vector{X: -3, Y: 1.5})
	f.machine.Down(1, 0, x, y)
	st, _ := f.machine.State(Key{Player: 1})
	require.False(t, st.Holding())
	require.Equal(t, 1.0, f.gravityScale(t, f.floor))
}

func TestUpTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	x, y := screen(cp.Vector{X: 1, Y: 0.5})
	f.machine.Down(1, 0, x, y)
	f.machine.Up(1, 0, true, x, y)

	first, _ := f.machine.State(Key{Player: 1})
	v1, err := f.world.LinearVelocity(f.box)
	require.NoError(t, err)

	f.machine.Up(1, 0, true, x, y)
	second, _ := f.machine.State(Key{Player: 1})
	v2, err := f.world.LinearVelocity(f.box)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, v1, v2)
}

func TestPressWhileHoldingDropsPreviousBody(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	key := Key{Player: 1, Pointer: 0}
	bx, by := screen(cp.Vector{X: 1, Y: 0.5})

	f.machine.Down(1, 0, bx, by)
	st, _ := f.machine.State(key)
	require.True(t, st.Holding())
	require.Equal(t, 0.0, f.gravityScale(t, f.box))

	// No Up in between, then a press on empty space.
	ex, ey := screen(cp.Vector{X: 3, Y: 0.2})
	f.machine.Down(1, 0, ex, ey)
	st, _ = f.machine.State(key)
	require.False(t, st.Holding())
	require.Equal(t, 1.0, f.gravityScale(t, f.box))
	damping, err := f.world.AngularDamping(f.box)
	require.NoError(t, err)
	require.Equal(t, releaseAngularDamping, damping)
	_, held := f.machine.HeldBy(f.box)
	require.False(t, held)

	f.machine.Down(1, 0, bx, by)
	st, _ = f.machine.State(key)
	require.True(t, st.Holding())
	require.Equal(t, f.box, st.Held)
	require.Equal(t, 0.0, f.gravityScale(t, f.box))
}

func TestSecondPointerCannotStealBody(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	f.machine.Join(2)
	x, y := screen(cp.Vector{X: 1, Y: 0.5})

	f.machine.Down(1, 0, x, y)
	f.machine.Down(2, 3, x, y)

	owner, ok := f.machine.HeldBy(f.box)
	require.True(t, ok)
	require.Equal(t, Key{Player: 1, Pointer: 0}, owner)

	other, _ := f.machine.State(Key{Player: 2, Pointer: 3})
	require.False(t, other.Holding())

	f.machine.Up(2, 3, false, x, y)
	require.Equal(t, 0.0, f.gravityScale(t, f.box), "the other pointer's release must not affect the hold")
}

func TestLeaveRestoresHeldBody(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	f.machine.Join(2)
	x, y := screen(cp.Vector{X: 1, Y: 0.5})
	f.machine.Down(1, 0, x, y)
	f.machine.Move(1, 1, x, y)
	f.machine.Move(2, 0, x, y)
	require.Equal(t, 3, f.machine.Len())

	f.machine.Leave(1)

	require.Equal(t, 1, f.machine.Len())
	_, ok := f.machine.State(Key{Player: 1, Pointer: 0})
	require.False(t, ok)
	_, ok = f.machine.HeldBy(f.box)
	require.False(t, ok)
	require.Equal(t, 1.0, f.gravityScale(t, f.box))

	// Events after leaving are ignored.
	f.machine.Down(1, 0, x, y)
	require.Equal(t, 1, f.machine.Len())
}

func TestStaleHeldBodyIsHarmless(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(1)
	x, y := screen(cp.Vector{X: 1, Y: 0.5})
	f.machine.Down(1, 0, x, y)
	require.NoError(t, f.world.RemoveBody(f.box))

	require.NotPanics(t, func() {
		f.machine.Move(1, 0, x+10, y)
		f.machine.Up(1, 0, true, x+10, y)
	})
	st, _ := f.machine.State(Key{Player: 1})
	require.False(t, st.Holding())
}

func TestEachIsOrdered(t *testing.T) {
	f := newFixture(t)
	f.machine.Join(2)
	f.machine.Join(1)
	f.machine.Move(2, 1, 0, 0)
	f.machine.Move(1, 5, 0, 0)
	f.machine.Move(2, 0, 0, 0)

	var keys []Key
	f.machine.Each(func(k Key, _ *State) {
		keys = append(keys, k)
	})
	require.Equal(t, []Key{{Player: 1, Pointer: 5}, {Player: 2, Pointer: 0}, {Player: 2, Pointer: 1}}, keys)
}

func TestColorsAreDistinctWhilePaletteLasts(t *testing.T) {
	c := NewColors(scene.NewRand(42))
	for p := PlayerID(1); int(p) <= len(scene.Palette); p++ {
		c.Assign(p)
	}

	used := make(map[[4]uint8]bool)
	for p := PlayerID(1); int(p) <= len(scene.Palette); p++ {
		col, ok := c.Lookup(p)
		require.True(t, ok)
		key := [4]uint8{col.R, col.G, col.B, col.A}
		require.False(t, used[key], "colour reused while palette still had free entries")
		used[key] = true
	}

	extra := c.Assign(99)
	require.Contains(t, scene.Palette, extra)

	first, _ := c.Lookup(1)
	require.Equal(t, first, c.Assign(1), "re-assigning keeps the colour")

	c.Release(1)
	_, ok := c.Lookup(1)
	require.False(t, ok)
	require.Equal(t, len(scene.Palette), c.Len())
}

func TestColorsDeterministicForSeed(t *testing.T) {
	a := NewColors(scene.NewRand(5))
	b := NewColors(scene.NewRand(5))
	for p := PlayerID(1); p < 10; p++ {
		require.Equal(t, a.Assign(p), b.Assign(p))
	}
}
