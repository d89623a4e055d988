package sandbox

import "github.com/milk9111/grabbox/pointer"

// Event is one input delivered by the host. The set is closed: only the
// types in this file implement it.
type Event interface {
	isEvent()
}

// FixedUpdate advances the simulation by one tick.
type FixedUpdate struct{}

// Draw asks for the current frame to be emitted to a canvas.
type Draw struct{}

// PlayerJoined registers a player and assigns its colour.
type PlayerJoined struct {
	Player pointer.PlayerID
}

// PlayerLeft forgets a player and all of its pointers.
type PlayerLeft struct {
	Player pointer.PlayerID
}

// PointerMove reports a cursor position in screen units.
type PointerMove struct {
	Player  pointer.PlayerID
	Pointer pointer.ID
	X, Y    float64
}

// PointerDown reports a press in screen units.
type PointerDown struct {
	Player  pointer.PlayerID
	Pointer pointer.ID
	X, Y    float64
}

// PointerUp reports a release. X and Y are carried for completeness; the
// release uses the last recorded cursor.
type PointerUp struct {
	Player  pointer.PlayerID
	Pointer pointer.ID
	IsMouse bool
	X, Y    float64
}

func (FixedUpdate) isEvent()  {}
func (Draw) isEvent()         {}
func (PlayerJoined) isEvent() {}
func (PlayerLeft) isEvent()   {}
func (PointerMove) isEvent()  {}
func (PointerDown) isEvent()  {}
func (PointerUp) isEvent()    {}
