// Package input dispatches synthesized mouse and keyboard events to exactly one
// platform backend.
package input

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by every primitive of the inert backend.
	ErrUnavailable = errors.New("input backend unavailable")
	// ErrClosed is returned by primitives called after Close.
	ErrClosed = errors.New("input backend closed")
	// ErrCallFailed marks a native call that reported failure.
	ErrCallFailed = errors.New("native input call failed")
	// ErrInvalidButton is returned for buttons outside Left, Right, Middle.
	ErrInvalidButton = errors.New("invalid mouse button")
	// ErrInvalidKey is returned for keycodes the backend cannot send.
	ErrInvalidKey = errors.New("invalid key code")
)

// Kind identifies a backend implementation.
type Kind string

const (
	// KindNone is the inert backend used when no platform backend initializes.
	KindNone Kind = "none"
	// KindQuartz posts CoreGraphics events on macOS.
	KindQuartz Kind = "quartz"
	// KindWin32 uses SendInput on Windows.
	KindWin32 Kind = "win32"
	// KindX11 uses the XTest extension.
	KindX11 Kind = "x11"
	// KindWayland uses wlroots virtual pointer and keyboard protocols.
	KindWayland Kind = "wayland"
	// KindUinput creates a kernel virtual device through /dev/uinput.
	KindUinput Kind = "uinput"
)

// Button identifies a mouse button.
type Button int

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = iota
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the wheel button.
	ButtonMiddle
)

// Valid reports whether b is one of the supported buttons.
func (b Button) Valid() bool {
	return b >= ButtonLeft && b <= ButtonMiddle
}

// String returns the lowercase button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "invalid"
	}
}

// ParseButton maps a button name to a Button. Unknown names map to ButtonLeft.
func ParseButton(name string) Button {
	switch name {
	case "right":
		return ButtonRight
	case "middle":
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}

// Modifier is a bitset of modifier keys.
type Modifier uint8

const (
	// ModShift is the Shift key.
	ModShift Modifier = 1 << iota
	// ModControl is the Control key.
	ModControl
	// ModOption is Option on macOS and Alt elsewhere.
	ModOption
	// ModCommand is Command on macOS, the Windows key on Win32 and Super on Linux.
	ModCommand
)

// ModifierOrder is the press order of modifiers. Releases walk it backwards.
var ModifierOrder = [...]Modifier{ModShift, ModControl, ModOption, ModCommand}

// Has reports whether every bit of f is set in m.
func (m Modifier) Has(f Modifier) bool {
	return f != 0 && m&f == f
}

// ScrollUnit selects line or pixel scrolling.
type ScrollUnit int

const (
	// ScrollLine scrolls by wheel detents.
	ScrollLine ScrollUnit = iota
	// ScrollPixel scrolls by pixels where the platform supports it.
	ScrollPixel
)

// Backend is the fixed primitive set every platform implements. Coordinates are
// logical and already clamped by the caller.
type Backend interface {
	Kind() Kind
	DisplaySize() (w, h int)
	MoveTo(x, y int) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	KeyDown(code int) error
	KeyUp(code int) error
	Scroll(dx, dy int, unit ScrollUnit) error
	// CharToKeyCode returns the native keycode for r, or -1.
	CharToKeyCode(r rune) int
	// ModifierKeyCode returns the native keycode of a single modifier, or -1.
	ModifierKeyCode(m Modifier) int
	Close() error
}

// UnicodeTyper is implemented by backends that inject Unicode text directly.
type UnicodeTyper interface {
	TypeRune(r rune) error
}

// CursorReader is implemented by backends that can query the OS cursor.
type CursorReader interface {
	CursorPos() (x, y int, err error)
}

// callFailed wraps ErrCallFailed with the name of the native call.
func callFailed(call string) error {
	return fmt.Errorf("%s: %w", call, ErrCallFailed)
}
