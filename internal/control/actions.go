package control

import (
	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
)

// ActionType identifies the kind of input action to execute.
type ActionType string

const (
	// ActMove moves the cursor to a logical point.
	ActMove ActionType = "move"
	// ActMoveRel moves the cursor by a logical delta, caged to Cage when set.
	ActMoveRel ActionType = "move_rel"
	// ActMovePx moves to a pixel of the monitor under the cursor.
	ActMovePx ActionType = "move_px"
	// ActDown presses a mouse button.
	ActDown ActionType = "down"
	// ActUp releases a mouse button.
	ActUp ActionType = "up"
	// ActClick clicks a mouse button Count times.
	ActClick ActionType = "click"
	// ActDrag drags from X,Y to X2,Y2.
	ActDrag ActionType = "drag"
	// ActScroll scrolls by DX,DY lines, or pixels when Pixel is set.
	ActScroll ActionType = "scroll"
	// ActKey taps a key with modifiers held.
	ActKey ActionType = "key"
	// ActKeyDown presses a key and its modifiers.
	ActKeyDown ActionType = "key_down"
	// ActKeyUp releases a key and its modifiers.
	ActKeyUp ActionType = "key_up"
	// ActChord presses modifiers then the key, releasing in reverse.
	ActChord ActionType = "chord"
	// ActType types unicode text.
	ActType ActionType = "type"
)

// Action describes a resolved input operation to apply.
type Action struct {
	Type   ActionType
	X, Y   int
	X2, Y2 int
	DX, DY int
	Button input.Button
	Count  int
	Pixel  bool
	Key    Key
	Mods   input.Modifier
	Text   string
	Cage   calib.Rect
}

// Key names a key either by backend keycode or by character.
type Key struct {
	Code int
	Rune rune
}
