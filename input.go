package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/sandbox"
)

// localPlayer is the player driving the window's own mouse and touches.
// Remote players are numbered from 1.
const localPlayer pointer.PlayerID = 0

// mousePointer is the pointer id of the mouse. Touches follow it.
const mousePointer pointer.ID = 0

type point struct {
	x, y int
}

// Input polls the window's mouse and touchscreen and turns changes into
// pointer events for the local player.
type Input struct {
	mouse      point
	mouseKnown bool
	touches    map[ebiten.TouchID]point

	touchIDs []ebiten.TouchID
	events   []sandbox.Event
}

func NewInput() *Input {
	return &Input{touches: make(map[ebiten.TouchID]point)}
}

// Update returns the events since the last tick. The slice is reused on the
// next call.
func (i *Input) Update() []sandbox.Event {
	i.events = i.events[:0]
	i.pollMouse()
	i.pollTouches()
	return i.events
}

func (i *Input) pollMouse() {
	mx, my := ebiten.CursorPosition()
	cur := point{mx, my}
	if !i.mouseKnown || cur != i.mouse {
		move := sandbox.PointerMove{Player: localPlayer, Pointer: mousePointer, X: float64(mx), Y: float64(my)}
		if !i.mouseKnown {
			// First sighting: seed the previous cursor as well.
			i.events = append(i.events, move)
		}
		i.mouse = cur
		i.mouseKnown = true
		i.events = append(i.events, move)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		i.events = append(i.events, sandbox.PointerDown{Player: localPlayer, Pointer: mousePointer, X: float64(mx), Y: float64(my)})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		i.events = append(i.events, sandbox.PointerUp{Player: localPlayer, Pointer: mousePointer, IsMouse: true, X: float64(mx), Y: float64(my)})
	}
}

func (i *Input) pollTouches() {
	i.touchIDs = inpututil.AppendJustPressedTouchIDs(i.touchIDs[:0])
	for _, id := range i.touchIDs {
		x, y := ebiten.TouchPosition(id)
		i.touches[id] = point{x, y}
		i.events = appendTouchPress(i.events, touchPointer(id), x, y)
	}

	i.touchIDs = ebiten.AppendTouchIDs(i.touchIDs[:0])
	for _, id := range i.touchIDs {
		x, y := ebiten.TouchPosition(id)
		cur := point{x, y}
		if prev, ok := i.touches[id]; ok && prev == cur {
			continue
		}
		i.touches[id] = cur
		i.events = append(i.events, sandbox.PointerMove{Player: localPlayer, Pointer: touchPointer(id), X: float64(x), Y: float64(y)})
	}

	i.touchIDs = inpututil.AppendJustReleasedTouchIDs(i.touchIDs[:0])
	for _, id := range i.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		delete(i.touches, id)
		i.events = append(i.events, sandbox.PointerUp{Player: localPlayer, Pointer: touchPointer(id), X: float64(x), Y: float64(y)})
	}
}

// appendTouchPress reports a new touch. The position is moved to twice so a
// fresh pointer's previous cursor matches the press and a tap without motion
// releases with zero velocity.
func appendTouchPress(events []sandbox.Event, id pointer.ID, x, y int) []sandbox.Event {
	move := sandbox.PointerMove{Player: localPlayer, Pointer: id, X: float64(x), Y: float64(y)}
	return append(events,
		move,
		move,
		sandbox.PointerDown{Player: localPlayer, Pointer: id, X: float64(x), Y: float64(y)})
}

func touchPointer(id ebiten.TouchID) pointer.ID {
	return mousePointer + 1 + pointer.ID(id)
}
