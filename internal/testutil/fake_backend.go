// Package testutil provides recording input backends for tests.
package testutil

import (
	"fmt"

	"github.com/frudas24/deskinput/internal/input"
)

// Call records a single backend primitive.
type Call struct {
	Name   string
	X      int
	Y      int
	Code   int
	Button input.Button
	Unit   input.ScrollUnit
	Rune   rune
}

// String renders the call compactly for failure messages.
func (c Call) String() string {
	switch c.Name {
	case "MoveTo", "Scroll":
		return fmt.Sprintf("%s(%d,%d)", c.Name, c.X, c.Y)
	case "ButtonDown", "ButtonUp":
		return fmt.Sprintf("%s(%s)", c.Name, c.Button)
	case "KeyDown", "KeyUp":
		return fmt.Sprintf("%s(%d)", c.Name, c.Code)
	case "TypeRune":
		return fmt.Sprintf("%s(%q)", c.Name, c.Rune)
	default:
		return c.Name
	}
}

// Modifier keycodes reported by FakeBackend.
const (
	KeyShift   = 42
	KeyControl = 29
	KeyOption  = 56
	KeyCommand = 125
)

// FakeBackend implements input.Backend and records calls. It maps characters
// like the evdev backends and has no optional capabilities.
type FakeBackend struct {
	W, H int
	// PosX and PosY follow successful MoveTo calls.
	PosX, PosY int
	Calls      []Call
	// Fail, when set, is consulted before a call is recorded; a non-nil error
	// is returned and the call is not recorded.
	Fail   func(Call) error
	Closed bool
}

var _ input.Backend = (*FakeBackend)(nil)

// NewFakeBackend returns a recording backend with a w x h display.
func NewFakeBackend(w, h int) *FakeBackend {
	return &FakeBackend{W: w, H: h}
}

func (f *FakeBackend) record(c Call) error {
	if f.Fail != nil {
		if err := f.Fail(c); err != nil {
			return err
		}
	}
	f.Calls = append(f.Calls, c)
	return nil
}

// Kind returns KindUinput so the engine treats the fake as a live backend.
func (f *FakeBackend) Kind() input.Kind { return input.KindUinput }

// DisplaySize returns the configured size.
func (f *FakeBackend) DisplaySize() (int, int) { return f.W, f.H }

// MoveTo records a move and updates the position.
func (f *FakeBackend) MoveTo(x, y int) error {
	if err := f.record(Call{Name: "MoveTo", X: x, Y: y}); err != nil {
		return err
	}
	f.PosX, f.PosY = x, y
	return nil
}

// ButtonDown records a button press.
func (f *FakeBackend) ButtonDown(b input.Button) error {
	return f.record(Call{Name: "ButtonDown", Button: b})
}

// ButtonUp records a button release.
func (f *FakeBackend) ButtonUp(b input.Button) error {
	return f.record(Call{Name: "ButtonUp", Button: b})
}

// KeyDown records a key press.
func (f *FakeBackend) KeyDown(code int) error {
	return f.record(Call{Name: "KeyDown", Code: code})
}

// KeyUp records a key release.
func (f *FakeBackend) KeyUp(code int) error {
	return f.record(Call{Name: "KeyUp", Code: code})
}

// Scroll records a scroll with X=dx and Y=dy.
func (f *FakeBackend) Scroll(dx, dy int, unit input.ScrollUnit) error {
	return f.record(Call{Name: "Scroll", X: dx, Y: dy, Unit: unit})
}

// CharToKeyCode uses the evdev table.
func (f *FakeBackend) CharToKeyCode(r rune) int { return input.EvdevKeyCode(r) }

// ModifierKeyCode returns the Key* constants.
func (f *FakeBackend) ModifierKeyCode(m input.Modifier) int {
	switch m {
	case input.ModShift:
		return KeyShift
	case input.ModControl:
		return KeyControl
	case input.ModOption:
		return KeyOption
	case input.ModCommand:
		return KeyCommand
	default:
		return -1
	}
}

// Close records the close.
func (f *FakeBackend) Close() error {
	f.Closed = true
	return nil
}

// Names returns the recorded call names in order.
func (f *FakeBackend) Names() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Name
	}
	return out
}

// Reset clears recorded calls.
func (f *FakeBackend) Reset() {
	f.Calls = nil
}

// FakeCursorBackend adds an OS cursor query to FakeBackend.
type FakeCursorBackend struct {
	*FakeBackend
	CursorErr error
}

var _ input.CursorReader = (*FakeCursorBackend)(nil)

// CursorPos returns PosX, PosY, which tests may change to simulate the user.
func (f *FakeCursorBackend) CursorPos() (int, int, error) {
	if f.CursorErr != nil {
		return 0, 0, f.CursorErr
	}
	return f.PosX, f.PosY, nil
}

// FakeUnicodeBackend adds direct Unicode typing to FakeBackend.
type FakeUnicodeBackend struct {
	*FakeBackend
}

var _ input.UnicodeTyper = (*FakeUnicodeBackend)(nil)

// TypeRune records a Unicode character.
func (f *FakeUnicodeBackend) TypeRune(r rune) error {
	return f.record(Call{Name: "TypeRune", Rune: r})
}
