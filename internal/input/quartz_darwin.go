//go:build darwin && cgo

package input

/*
#cgo LDFLAGS: -framework ApplicationServices -framework Carbon -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <Carbon/Carbon.h>

static int di_post_mouse(CGEventType type, double x, double y, CGMouseButton button) {
	CGEventRef ev = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), button);
	if (ev == NULL) {
		return 0;
	}
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 1;
}

static int di_post_key(CGKeyCode code, bool down, CGEventFlags flags) {
	CGEventRef ev = CGEventCreateKeyboardEvent(NULL, code, down);
	if (ev == NULL) {
		return 0;
	}
	CGEventSetFlags(ev, flags);
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 1;
}

static int di_post_scroll(int pixel, int32_t dy, int32_t dx) {
	CGScrollEventUnit unit = pixel ? kCGScrollEventUnitPixel : kCGScrollEventUnitLine;
	CGEventRef ev = CGEventCreateScrollWheelEvent(NULL, unit, 2, dy, dx);
	if (ev == NULL) {
		return 0;
	}
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 1;
}

static int di_post_unicode(const UniChar *chars, int n) {
	CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
	CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
	if (down == NULL || up == NULL) {
		if (down) CFRelease(down);
		if (up) CFRelease(up);
		return 0;
	}
	CGEventKeyboardSetUnicodeString(down, n, chars);
	CGEventKeyboardSetUnicodeString(up, n, chars);
	CGEventPost(kCGHIDEventTap, down);
	CGEventPost(kCGHIDEventTap, up);
	CFRelease(down);
	CFRelease(up);
	return 1;
}

static int di_cursor(double *x, double *y) {
	CGEventRef ev = CGEventCreate(NULL);
	if (ev == NULL) {
		return 0;
	}
	CGPoint p = CGEventGetLocation(ev);
	CFRelease(ev);
	*x = p.x;
	*y = p.y;
	return 1;
}

// di_layout_chars writes the unshifted character of keycodes 0..127 of the
// current layout into out, 0 where the key produces nothing.
static int di_layout_chars(UniChar *out) {
	TISInputSourceRef src = TISCopyCurrentKeyboardLayoutInputSource();
	if (src == NULL) {
		return 0;
	}
	CFDataRef data = (CFDataRef)TISGetInputSourceProperty(src, kTISPropertyUnicodeKeyLayoutData);
	if (data == NULL) {
		CFRelease(src);
		return 0;
	}
	const UCKeyboardLayout *layout = (const UCKeyboardLayout *)CFDataGetBytePtr(data);
	for (UInt16 code = 0; code < 128; code++) {
		UInt32 dead = 0;
		UniCharCount n = 0;
		UniChar buf[4];
		OSStatus st = UCKeyTranslate(layout, code, kUCKeyActionDisplay, 0, LMGetKbdType(),
			kUCKeyTranslateNoDeadKeysBit, &dead, 4, &n, buf);
		out[code] = (st == noErr && n > 0) ? buf[0] : 0;
	}
	CFRelease(src);
	return 1;
}
*/
import "C"

import (
	"unicode"
	"unicode/utf16"
	"unsafe"
)

// macOS virtual keycodes outside the layout table.
const (
	kvkReturn  = 36
	kvkTab     = 48
	kvkSpace   = 49
	kvkCommand = 55
	kvkShift   = 56
	kvkOption  = 58
	kvkControl = 59
)

// CGEventFlags of the modifier keys.
const (
	flagShift   = 0x20000
	flagControl = 0x40000
	flagOption  = 0x80000
	flagCommand = 0x100000
)

// quartzBackend posts CoreGraphics events to the HID event tap.
type quartzBackend struct {
	held   [3]bool
	flags  uint64
	keymap map[rune]int
	closed bool
}

// openQuartz checks that a main display is available.
func openQuartz(Options) (Backend, error) {
	if C.CGDisplayPixelsWide(C.CGMainDisplayID()) == 0 {
		return nil, callFailed("CGMainDisplayID")
	}
	return &quartzBackend{}, nil
}

func (b *quartzBackend) Kind() Kind { return KindQuartz }

// DisplaySize returns the main display size in points.
func (b *quartzBackend) DisplaySize() (int, int) {
	id := C.CGMainDisplayID()
	return int(C.CGDisplayPixelsWide(id)), int(C.CGDisplayPixelsHigh(id))
}

// MoveTo posts a move, or a dragged event while a button is held.
func (b *quartzBackend) MoveTo(x, y int) error {
	if b.closed {
		return ErrClosed
	}
	typ, btn := C.CGEventType(C.kCGEventMouseMoved), C.CGMouseButton(C.kCGMouseButtonLeft)
	switch {
	case b.held[ButtonLeft]:
		typ = C.kCGEventLeftMouseDragged
	case b.held[ButtonRight]:
		typ, btn = C.kCGEventRightMouseDragged, C.kCGMouseButtonRight
	case b.held[ButtonMiddle]:
		typ, btn = C.kCGEventOtherMouseDragged, C.kCGMouseButtonCenter
	}
	if C.di_post_mouse(typ, C.double(x), C.double(y), btn) == 0 {
		return callFailed("CGEventCreateMouseEvent")
	}
	return nil
}

func (b *quartzBackend) ButtonDown(btn Button) error { return b.button(btn, true) }

func (b *quartzBackend) ButtonUp(btn Button) error { return b.button(btn, false) }

// button posts a press or release at the current cursor location.
func (b *quartzBackend) button(btn Button, down bool) error {
	if b.closed {
		return ErrClosed
	}
	var typ C.CGEventType
	var cgBtn C.CGMouseButton
	switch btn {
	case ButtonLeft:
		typ, cgBtn = C.kCGEventLeftMouseUp, C.kCGMouseButtonLeft
		if down {
			typ = C.kCGEventLeftMouseDown
		}
	case ButtonRight:
		typ, cgBtn = C.kCGEventRightMouseUp, C.kCGMouseButtonRight
		if down {
			typ = C.kCGEventRightMouseDown
		}
	case ButtonMiddle:
		typ, cgBtn = C.kCGEventOtherMouseUp, C.kCGMouseButtonCenter
		if down {
			typ = C.kCGEventOtherMouseDown
		}
	default:
		return ErrInvalidButton
	}
	x, y, err := b.CursorPos()
	if err != nil {
		return err
	}
	if C.di_post_mouse(typ, C.double(x), C.double(y), cgBtn) == 0 {
		return callFailed("CGEventCreateMouseEvent")
	}
	b.held[btn] = down
	return nil
}

func (b *quartzBackend) KeyDown(code int) error { return b.key(code, true) }

func (b *quartzBackend) KeyUp(code int) error { return b.key(code, false) }

// key posts a keyboard event carrying the modifier flags held so far.
func (b *quartzBackend) key(code int, down bool) error {
	if b.closed {
		return ErrClosed
	}
	if code < 0 || code > 0xffff {
		return ErrInvalidKey
	}
	if flag := quartzModifierFlag(code); flag != 0 {
		if down {
			b.flags |= flag
		} else {
			b.flags &^= flag
		}
	}
	if C.di_post_key(C.CGKeyCode(code), C.bool(down), C.CGEventFlags(b.flags)) == 0 {
		return callFailed("CGEventCreateKeyboardEvent")
	}
	return nil
}

// Scroll posts one wheel event in line or pixel units.
func (b *quartzBackend) Scroll(dx, dy int, unit ScrollUnit) error {
	if b.closed {
		return ErrClosed
	}
	pixel := C.int(0)
	if unit == ScrollPixel {
		pixel = 1
	}
	if C.di_post_scroll(pixel, C.int32_t(dy), C.int32_t(dx)) == 0 {
		return callFailed("CGEventCreateScrollWheelEvent")
	}
	return nil
}

// TypeRune posts r as a Unicode string on a keycode-0 event.
func (b *quartzBackend) TypeRune(r rune) error {
	if b.closed {
		return ErrClosed
	}
	units := utf16.Encode([]rune{r})
	if C.di_post_unicode((*C.UniChar)(unsafe.Pointer(&units[0])), C.int(len(units))) == 0 {
		return callFailed("CGEventKeyboardSetUnicodeString")
	}
	return nil
}

// CharToKeyCode maps r through the current layout. The table is built on
// first use and kept on the backend.
func (b *quartzBackend) CharToKeyCode(r rune) int {
	switch r {
	case '\n', '\r':
		return kvkReturn
	case '\t':
		return kvkTab
	case ' ':
		return kvkSpace
	}
	if b.keymap == nil {
		b.keymap = buildQuartzKeymap()
	}
	if code, ok := b.keymap[unicode.ToLower(r)]; ok {
		return code
	}
	return -1
}

// buildQuartzKeymap runs UCKeyTranslate over keycodes 0..127. The lowest
// keycode wins when a character appears twice.
func buildQuartzKeymap() map[rune]int {
	var chars [128]C.UniChar
	out := make(map[rune]int)
	if C.di_layout_chars(&chars[0]) == 0 {
		return out
	}
	for code, ch := range chars {
		r := unicode.ToLower(rune(ch))
		if ch == 0 || r < ' ' {
			continue
		}
		if _, ok := out[r]; !ok {
			out[r] = code
		}
	}
	return out
}

func (b *quartzBackend) ModifierKeyCode(m Modifier) int {
	switch m {
	case ModShift:
		return kvkShift
	case ModControl:
		return kvkControl
	case ModOption:
		return kvkOption
	case ModCommand:
		return kvkCommand
	default:
		return -1
	}
}

// CursorPos reads the global cursor location in points.
func (b *quartzBackend) CursorPos() (int, int, error) {
	var x, y C.double
	if C.di_cursor(&x, &y) == 0 {
		return 0, 0, callFailed("CGEventCreate")
	}
	return int(x), int(y), nil
}

// Close marks the backend closed; CoreGraphics holds no per-backend handles.
func (b *quartzBackend) Close() error {
	b.closed = true
	b.keymap = nil
	return nil
}

// quartzModifierFlag returns the event flag of a modifier keycode.
func quartzModifierFlag(code int) uint64 {
	switch code {
	case kvkShift:
		return flagShift
	case kvkControl:
		return flagControl
	case kvkOption:
		return flagOption
	case kvkCommand:
		return flagCommand
	default:
		return 0
	}
}
