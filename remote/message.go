package remote

import (
	"errors"
	"fmt"

	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/sandbox"
)

// ErrUnknownMessage is returned for a message type the hub does not handle.
var ErrUnknownMessage = errors.New("remote: unknown message type")

const (
	TypePointerDown = "pointer_down"
	TypePointerMove = "pointer_move"
	TypePointerUp   = "pointer_up"
	TypeWelcome     = "welcome"
)

// Message is one pointer update sent by a client. Coordinates are in screen
// units.
type Message struct {
	Type      string  `json:"type"`
	PointerID uint32  `json:"pointer_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsMouse   bool    `json:"is_mouse"`
}

// Welcome is sent to a client right after it connects.
type Welcome struct {
	Type    string `json:"type"`
	Player  uint32 `json:"player"`
	Session string `json:"session"`
}

// Event converts the message into a sandbox event for player.
func (m Message) Event(player pointer.PlayerID) (sandbox.Event, error) {
	id := pointer.ID(m.PointerID)
	switch m.Type {
	case TypePointerDown:
		return sandbox.PointerDown{Player: player, Pointer: id, X: m.X, Y: m.Y}, nil
	case TypePointerMove:
		return sandbox.PointerMove{Player: player, Pointer: id, X: m.X, Y: m.Y}, nil
	case TypePointerUp:
		return sandbox.PointerUp{Player: player, Pointer: id, IsMouse: m.IsMouse, X: m.X, Y: m.Y}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}
