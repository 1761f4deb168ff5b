//go:build windows

package input

import (
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"github.com/frudas24/deskinput/internal/winapi"
	"github.com/lxn/win"
)

// wheelDelta is one wheel detent in MOUSEINPUT.MouseData units.
const wheelDelta = 120

// win32Backend injects events with SendInput on the primary screen.
type win32Backend struct {
	closed bool
}

// openWin32 checks that the primary screen reports a size.
func openWin32(Options) (Backend, error) {
	if win.GetSystemMetrics(win.SM_CXSCREEN) <= 0 {
		return nil, callFailed("GetSystemMetrics")
	}
	return &win32Backend{}, nil
}

func (b *win32Backend) Kind() Kind { return KindWin32 }

// DisplaySize returns the primary screen size in DIPs.
func (b *win32Backend) DisplaySize() (int, int) {
	return int(win.GetSystemMetrics(win.SM_CXSCREEN)), int(win.GetSystemMetrics(win.SM_CYSCREEN))
}

// MoveTo maps x,y onto the 0..65535 absolute range, falling back to SetCursorPos.
func (b *win32Backend) MoveTo(x, y int) error {
	if b.closed {
		return ErrClosed
	}
	w, h := b.DisplaySize()
	dx, dy := absoluteCoords(x, y, w, h)
	if err := sendMouse(win.MOUSEEVENTF_MOVE|win.MOUSEEVENTF_ABSOLUTE, dx, dy, 0); err != nil {
		if win.SetCursorPos(int32(x), int32(y)) {
			return nil
		}
		return err
	}
	return nil
}

func (b *win32Backend) ButtonDown(btn Button) error {
	if b.closed {
		return ErrClosed
	}
	down, _, err := buttonFlags(btn)
	if err != nil {
		return err
	}
	return sendMouse(down, 0, 0, 0)
}

func (b *win32Backend) ButtonUp(btn Button) error {
	if b.closed {
		return ErrClosed
	}
	_, up, err := buttonFlags(btn)
	if err != nil {
		return err
	}
	return sendMouse(up, 0, 0, 0)
}

// Scroll sends WHEEL_DELTA per line or one unit per pixel.
func (b *win32Backend) Scroll(dx, dy int, unit ScrollUnit) error {
	if b.closed {
		return ErrClosed
	}
	scale := wheelDelta
	if unit == ScrollPixel {
		scale = 1
	}
	if dy != 0 {
		if err := sendMouse(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(int32(dy*scale))); err != nil {
			return err
		}
	}
	if dx != 0 {
		if err := sendMouse(win.MOUSEEVENTF_HWHEEL, 0, 0, uint32(int32(dx*scale))); err != nil {
			return err
		}
	}
	return nil
}

func (b *win32Backend) KeyDown(code int) error { return b.key(code, 0) }

func (b *win32Backend) KeyUp(code int) error { return b.key(code, win.KEYEVENTF_KEYUP) }

func (b *win32Backend) key(code int, flags uint32) error {
	if b.closed {
		return ErrClosed
	}
	if code <= 0 || code > 0xfe {
		return fmt.Errorf("virtual-key %d: %w", code, ErrInvalidKey)
	}
	return sendKeyboard(win.KEYBDINPUT{WVk: uint16(code), DwFlags: flags})
}

// TypeRune sends r as KEYEVENTF_UNICODE events, one down/up pair per UTF-16 unit.
func (b *win32Backend) TypeRune(r rune) error {
	if b.closed {
		return ErrClosed
	}
	for _, unit := range utf16.Encode([]rune{r}) {
		if err := sendKeyboard(win.KEYBDINPUT{WScan: unit, DwFlags: win.KEYEVENTF_UNICODE}); err != nil {
			return err
		}
		if err := sendKeyboard(win.KEYBDINPUT{WScan: unit, DwFlags: win.KEYEVENTF_UNICODE | win.KEYEVENTF_KEYUP}); err != nil {
			return err
		}
	}
	return nil
}

// CharToKeyCode returns the low byte of VkKeyScanW.
func (b *win32Backend) CharToKeyCode(r rune) int {
	switch r {
	case '\n', '\r':
		return win.VK_RETURN
	case '\t':
		return win.VK_TAB
	}
	if r < 0 || r > 0xffff {
		return -1
	}
	vk := winapi.VkKeyScan(uint16(r))
	if vk == -1 {
		return -1
	}
	return int(vk & 0xff)
}

func (b *win32Backend) ModifierKeyCode(m Modifier) int {
	switch m {
	case ModShift:
		return win.VK_SHIFT
	case ModControl:
		return win.VK_CONTROL
	case ModOption:
		return win.VK_MENU
	case ModCommand:
		return win.VK_LWIN
	default:
		return -1
	}
}

// CursorPos returns the cursor position in DIPs.
func (b *win32Backend) CursorPos() (int, int, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return 0, 0, lastError("GetCursorPos")
	}
	return int(pt.X), int(pt.Y), nil
}

func (b *win32Backend) Close() error {
	b.closed = true
	return nil
}

// absoluteCoords converts screen coordinates to the SendInput absolute range.
func absoluteCoords(x, y, w, h int) (int32, int32) {
	if w <= 1 {
		w = 2
	}
	if h <= 1 {
		h = 2
	}
	return int32(int64(x) * 65535 / int64(w-1)), int32(int64(y) * 65535 / int64(h-1))
}

func buttonFlags(btn Button) (uint32, uint32, error) {
	switch btn {
	case ButtonLeft:
		return win.MOUSEEVENTF_LEFTDOWN, win.MOUSEEVENTF_LEFTUP, nil
	case ButtonRight:
		return win.MOUSEEVENTF_RIGHTDOWN, win.MOUSEEVENTF_RIGHTUP, nil
	case ButtonMiddle:
		return win.MOUSEEVENTF_MIDDLEDOWN, win.MOUSEEVENTF_MIDDLEUP, nil
	default:
		return 0, 0, ErrInvalidButton
	}
}

// sendMouse dispatches a single mouse input event.
func sendMouse(flags uint32, dx, dy int32, data uint32) error {
	in := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return lastError("SendInput")
	}
	return nil
}

// sendKeyboard dispatches a single keyboard input event.
func sendKeyboard(key win.KEYBDINPUT) error {
	in := win.KEYBD_INPUT{Type: win.INPUT_KEYBOARD, Ki: key}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return lastError("SendInput")
	}
	return nil
}

func lastError(call string) error {
	return fmt.Errorf("%s: %w: %w", call, ErrCallFailed, syscall.Errno(win.GetLastError()))
}
