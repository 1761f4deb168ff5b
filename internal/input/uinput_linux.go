//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// uinput ioctl requests from linux/uinput.h.
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
)

const (
	uinputPath    = "/dev/uinput"
	uinputName    = "deskinput-uinput-virtual"
	uinputVendor  = 0x1234
	uinputProduct = 0x5678
	busUSB        = 0x03
	// uinputSettle gives udev time to pick up the new device.
	uinputSettle = 200 * time.Millisecond
)

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name [80]byte
	ID   struct {
		Bustype uint16
		Vendor  uint16
		Product uint16
		Version uint16
	}
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// inputEvent mirrors struct input_event on 64-bit kernels.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// uinputBackend writes relative events to a kernel virtual device. Motion is
// relative, so the backend tracks where it last put the pointer.
type uinputBackend struct {
	fd     int
	w, h   int
	x, y   int
	closed bool
}

// openUinput creates the virtual device and homes the pointer to (0,0).
func openUinput(opts Options) (Backend, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}
	b := &uinputBackend{fd: fd}
	b.w, b.h = opts.displaySize()
	if err := b.setup(); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	time.Sleep(uinputSettle)
	if err := b.relative(-2*b.w, -2*b.h); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("home pointer: %w", err)
	}
	return b, nil
}

// setup enables the event bits and registers the device.
func (b *uinputBackend) setup() error {
	bits := []struct {
		req  uint
		vals []int
	}{
		{uiSetEvBit, []int{evKey, evRel, evSyn}},
		{uiSetRelBit, []int{relX, relY, relWheel, relHWheel}},
		{uiSetKeyBit, []int{btnLeft, btnRight, btnMiddle}},
	}
	for _, set := range bits {
		for _, v := range set.vals {
			if err := unix.IoctlSetInt(b.fd, set.req, v); err != nil {
				return fmt.Errorf("uinput ioctl %#x %d: %w", set.req, v, err)
			}
		}
	}
	for code := 1; code <= 255; code++ {
		if err := unix.IoctlSetInt(b.fd, uiSetKeyBit, code); err != nil {
			return fmt.Errorf("uinput enable key %d: %w", code, err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], uinputName)
	dev.ID.Bustype = busUSB
	dev.ID.Vendor = uinputVendor
	dev.ID.Product = uinputProduct
	dev.ID.Version = 1
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &dev); err != nil {
		return err
	}
	if _, err := unix.Write(b.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}
	if err := unix.IoctlSetInt(b.fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

func (b *uinputBackend) Kind() Kind { return KindUinput }

func (b *uinputBackend) DisplaySize() (int, int) { return b.w, b.h }

// MoveTo emits the delta from the last position written by this backend.
func (b *uinputBackend) MoveTo(x, y int) error {
	if b.closed {
		return ErrClosed
	}
	if err := b.relative(x-b.x, y-b.y); err != nil {
		return err
	}
	b.x, b.y = x, y
	return nil
}

// relative writes REL_X/REL_Y and a SYN_REPORT.
func (b *uinputBackend) relative(dx, dy int) error {
	var events []inputEvent
	if dx != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relX, Value: int32(dx)})
	}
	if dy != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relY, Value: int32(dy)})
	}
	if len(events) == 0 {
		return nil
	}
	return b.emit(events...)
}

func (b *uinputBackend) ButtonDown(btn Button) error { return b.button(btn, 1) }

func (b *uinputBackend) ButtonUp(btn Button) error { return b.button(btn, 0) }

func (b *uinputBackend) button(btn Button, value int32) error {
	if b.closed {
		return ErrClosed
	}
	code, err := evdevButton(btn)
	if err != nil {
		return err
	}
	return b.emit(inputEvent{Type: evKey, Code: uint16(code), Value: value})
}

func (b *uinputBackend) KeyDown(code int) error { return b.key(code, 1) }

func (b *uinputBackend) KeyUp(code int) error { return b.key(code, 0) }

func (b *uinputBackend) key(code int, value int32) error {
	if b.closed {
		return ErrClosed
	}
	if code <= 0 || code > 255 {
		return fmt.Errorf("evdev keycode %d: %w", code, ErrInvalidKey)
	}
	return b.emit(inputEvent{Type: evKey, Code: uint16(code), Value: value})
}

// Scroll writes REL_WHEEL for dy and REL_HWHEEL for dx. Pixel units are treated as lines.
func (b *uinputBackend) Scroll(dx, dy int, _ ScrollUnit) error {
	if b.closed {
		return ErrClosed
	}
	var events []inputEvent
	if dy != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relWheel, Value: int32(dy)})
	}
	if dx != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relHWheel, Value: int32(dx)})
	}
	if len(events) == 0 {
		return nil
	}
	return b.emit(events...)
}

// emit writes the events followed by SYN_REPORT in one write.
func (b *uinputBackend) emit(events ...inputEvent) error {
	events = append(events, inputEvent{Type: evSyn, Code: synReport})
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, events); err != nil {
		return err
	}
	if _, err := unix.Write(b.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write input_event: %w", errors.Join(ErrCallFailed, err))
	}
	return nil
}

func (b *uinputBackend) CharToKeyCode(r rune) int { return EvdevKeyCode(r) }

func (b *uinputBackend) ModifierKeyCode(m Modifier) int { return evdevModifier(m) }

// Close destroys the virtual device and closes the descriptor.
func (b *uinputBackend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	destroyErr := unix.IoctlSetInt(b.fd, uiDevDestroy, 0)
	return errors.Join(destroyErr, unix.Close(b.fd))
}
