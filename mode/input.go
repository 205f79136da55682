package mode

import (
	"fmt"

	"github.com/milk9111/worldmap/geom"
)

// Raw key characters with a meaning to the modes.
const (
	KeyEscape rune = 0x1b
	KeyEnter  rune = '\r'
	KeyDelete rune = 0x7f
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// PointerEvent carries a pointer position both in map space and on screen.
type PointerEvent struct {
	World  geom.Vec3
	Screen geom.Vec2
	Button Button
	// Clicks is 2 for the second press of a double click.
	Clicks int
	Shift  bool
}

// KeyEvent carries a raw character.
type KeyEvent struct {
	Key rune
}

// IsEnter reports whether the key finishes a gesture.
func (k KeyEvent) IsEnter() bool { return k.Key == '\r' || k.Key == '\n' }

// InputKind selects the Mode method an Input is routed to.
type InputKind int

const (
	InputPointerDown InputKind = iota
	InputPointerMove
	InputPointerUp
	InputKeyPress
)

func (k InputKind) String() string {
	switch k {
	case InputPointerDown:
		return "pointer-down"
	case InputPointerMove:
		return "pointer-move"
	case InputPointerUp:
		return "pointer-up"
	case InputKeyPress:
		return "key-press"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// Input is one input event for the host queue.
type Input struct {
	Kind    InputKind
	Pointer PointerEvent
	Key     KeyEvent

	epoch uint64
}

func PointerDown(ev PointerEvent) Input { return Input{Kind: InputPointerDown, Pointer: ev} }
func PointerMove(ev PointerEvent) Input { return Input{Kind: InputPointerMove, Pointer: ev} }
func PointerUp(ev PointerEvent) Input   { return Input{Kind: InputPointerUp, Pointer: ev} }
func KeyPress(key rune) Input           { return Input{Kind: InputKeyPress, Key: KeyEvent{Key: key}} }
