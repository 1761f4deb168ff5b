//go:build linux && cgo

package input

/*
#cgo pkg-config: x11 xtst
#include <X11/Xlib.h>
#include <X11/extensions/XTest.h>
*/
import "C"

import (
	"errors"
	"fmt"
)

// x11Backend injects events through the XTest extension on one display
// connection owned by the backend.
type x11Backend struct {
	dpy  *C.Display
	w, h int
}

// openX11 connects to $DISPLAY and checks for XTest.
func openX11(Options) (Backend, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, errors.New("XOpenDisplay failed")
	}
	var evBase, errBase, major, minor C.int
	if C.XTestQueryExtension(dpy, &evBase, &errBase, &major, &minor) == 0 {
		C.XCloseDisplay(dpy)
		return nil, errors.New("XTest extension missing")
	}
	screen := C.XDefaultScreen(dpy)
	return &x11Backend{
		dpy: dpy,
		w:   int(C.XDisplayWidth(dpy, screen)),
		h:   int(C.XDisplayHeight(dpy, screen)),
	}, nil
}

func (b *x11Backend) Kind() Kind { return KindX11 }

func (b *x11Backend) DisplaySize() (int, int) { return b.w, b.h }

// MoveTo warps the pointer on the default screen.
func (b *x11Backend) MoveTo(x, y int) error {
	if b.dpy == nil {
		return ErrClosed
	}
	if C.XTestFakeMotionEvent(b.dpy, -1, C.int(x), C.int(y), 0) == 0 {
		return callFailed("XTestFakeMotionEvent")
	}
	C.XFlush(b.dpy)
	return nil
}

func (b *x11Backend) ButtonDown(btn Button) error { return b.button(btn, true) }

func (b *x11Backend) ButtonUp(btn Button) error { return b.button(btn, false) }

// button sends one core button press or release.
func (b *x11Backend) button(btn Button, press bool) error {
	if b.dpy == nil {
		return ErrClosed
	}
	num, err := x11Button(btn)
	if err != nil {
		return err
	}
	if err := b.fakeButton(num, press); err != nil {
		return err
	}
	C.XFlush(b.dpy)
	return nil
}

// fakeButton sends a button event without flushing.
func (b *x11Backend) fakeButton(num uint, press bool) error {
	if C.XTestFakeButtonEvent(b.dpy, C.uint(num), cBool(press), 0) == 0 {
		return callFailed("XTestFakeButtonEvent")
	}
	return nil
}

func (b *x11Backend) KeyDown(code int) error { return b.key(code, true) }

func (b *x11Backend) KeyUp(code int) error { return b.key(code, false) }

// key sends one X keycode press or release.
func (b *x11Backend) key(code int, press bool) error {
	if b.dpy == nil {
		return ErrClosed
	}
	if code <= 0 || code > 255 {
		return fmt.Errorf("x11 keycode %d: %w", code, ErrInvalidKey)
	}
	if C.XTestFakeKeyEvent(b.dpy, C.uint(code), cBool(press), 0) == 0 {
		return callFailed("XTestFakeKeyEvent")
	}
	C.XFlush(b.dpy)
	return nil
}

// Scroll clicks the wheel buttons once per line. Pixel units are treated as lines.
func (b *x11Backend) Scroll(dx, dy int, _ ScrollUnit) error {
	if b.dpy == nil {
		return ErrClosed
	}
	for _, click := range x11ScrollClicks(dx, dy) {
		for i := 0; i < click[1]; i++ {
			if err := b.fakeButton(uint(click[0]), true); err != nil {
				return err
			}
			if err := b.fakeButton(uint(click[0]), false); err != nil {
				return err
			}
		}
	}
	C.XFlush(b.dpy)
	return nil
}

// CharToKeyCode resolves the keysym of r to a keycode of the current keymap.
func (b *x11Backend) CharToKeyCode(r rune) int {
	sym, ok := x11Keysym(r)
	if !ok {
		return -1
	}
	return b.keysymToKeycode(sym)
}

// ModifierKeyCode resolves the left-hand modifier keysym.
func (b *x11Backend) ModifierKeyCode(m Modifier) int {
	sym, ok := x11ModifierKeysym(m)
	if !ok {
		return -1
	}
	return b.keysymToKeycode(sym)
}

// keysymToKeycode returns -1 when the keysym is not on the keyboard.
func (b *x11Backend) keysymToKeycode(sym uint64) int {
	if b.dpy == nil {
		return -1
	}
	code := int(C.XKeysymToKeycode(b.dpy, C.KeySym(sym)))
	if code == 0 {
		return -1
	}
	return code
}

// CursorPos queries the pointer relative to the root window.
func (b *x11Backend) CursorPos() (int, int, error) {
	if b.dpy == nil {
		return 0, 0, ErrClosed
	}
	var rootRet, childRet C.Window
	var rootX, rootY, winX, winY C.int
	var mask C.uint
	root := C.XDefaultRootWindow(b.dpy)
	if C.XQueryPointer(b.dpy, root, &rootRet, &childRet, &rootX, &rootY, &winX, &winY, &mask) == 0 {
		return 0, 0, callFailed("XQueryPointer")
	}
	return int(rootX), int(rootY), nil
}

// Close releases the display connection. Safe to call more than once.
func (b *x11Backend) Close() error {
	if b.dpy == nil {
		return nil
	}
	C.XCloseDisplay(b.dpy)
	b.dpy = nil
	return nil
}

func cBool(v bool) C.Bool {
	if v {
		return 1
	}
	return 0
}
