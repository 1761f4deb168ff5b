//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wayland-virtual-input-go/virtual_keyboard"
	"github.com/bnema/wayland-virtual-input-go/virtual_pointer"
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// waylandAxisPerLine is the axis value of one wheel detent.
const waylandAxisPerLine = 15.0

// Depressed-modifier bits of the default xkb keymap.
const (
	xkbModShift uint32 = 1 << 0
	xkbModCtrl  uint32 = 1 << 2
	xkbModAlt   uint32 = 1 << 3
	xkbModSuper uint32 = 1 << 6
)

// waylandBackend drives wlroots virtual pointer and keyboard devices.
type waylandBackend struct {
	w, h int

	pointerMgr  *virtual_pointer.VirtualPointerManager
	keyboardMgr *virtual_keyboard.VirtualKeyboardManager
	ptr         *virtual_pointer.VirtualPointer
	kbd         *virtual_keyboard.VirtualKeyboard

	mods   uint32
	closed bool
}

// openWayland probes the compositor and creates both virtual devices.
func openWayland(opts Options) (Backend, error) {
	display, err := client.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connect wayland display: %w", err)
	}
	if err := display.Destroy(); err != nil {
		return nil, fmt.Errorf("close wayland probe: %w", err)
	}

	b := &waylandBackend{}
	b.w, b.h = opts.displaySize()
	ctx := context.Background()

	if b.pointerMgr, err = virtual_pointer.NewVirtualPointerManager(ctx); err != nil {
		return nil, fmt.Errorf("virtual pointer manager: %w", err)
	}
	if b.ptr, err = b.pointerMgr.CreatePointer(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("create virtual pointer: %w", err)
	}
	if b.keyboardMgr, err = virtual_keyboard.NewVirtualKeyboardManager(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("virtual keyboard manager: %w", err)
	}
	if b.kbd, err = b.keyboardMgr.CreateKeyboard(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}
	return b, nil
}

func (b *waylandBackend) Kind() Kind { return KindWayland }

func (b *waylandBackend) DisplaySize() (int, int) { return b.w, b.h }

// MoveTo sends an absolute motion normalized to the configured extent.
func (b *waylandBackend) MoveTo(x, y int) error {
	if b.closed {
		return ErrClosed
	}
	if err := b.ptr.MotionAbsolute(time.Now(), uint32(max(x, 0)), uint32(max(y, 0)), uint32(b.w), uint32(b.h)); err != nil {
		return fmt.Errorf("virtual pointer motion: %w", err)
	}
	return b.frame()
}

func (b *waylandBackend) ButtonDown(btn Button) error {
	return b.button(btn, virtual_pointer.ButtonStatePressed)
}

func (b *waylandBackend) ButtonUp(btn Button) error {
	return b.button(btn, virtual_pointer.ButtonStateReleased)
}

func (b *waylandBackend) button(btn Button, state virtual_pointer.ButtonState) error {
	if b.closed {
		return ErrClosed
	}
	code, err := evdevButton(btn)
	if err != nil {
		return err
	}
	if err := b.ptr.Button(time.Now(), uint32(code), state); err != nil {
		return fmt.Errorf("virtual pointer button: %w", err)
	}
	return b.frame()
}

// Scroll emits wheel axis events. Pixel units are treated as lines.
func (b *waylandBackend) Scroll(dx, dy int, _ ScrollUnit) error {
	if b.closed {
		return ErrClosed
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	if err := b.ptr.AxisSource(virtual_pointer.AxisSourceWheel); err != nil {
		return fmt.Errorf("virtual pointer axis source: %w", err)
	}
	now := time.Now()
	if dy != 0 {
		if err := b.ptr.Axis(now, virtual_pointer.AxisVertical, -float64(dy)*waylandAxisPerLine); err != nil {
			return fmt.Errorf("virtual pointer vertical axis: %w", err)
		}
	}
	if dx != 0 {
		if err := b.ptr.Axis(now, virtual_pointer.AxisHorizontal, -float64(dx)*waylandAxisPerLine); err != nil {
			return fmt.Errorf("virtual pointer horizontal axis: %w", err)
		}
	}
	return b.frame()
}

func (b *waylandBackend) frame() error {
	if err := b.ptr.Frame(); err != nil {
		return fmt.Errorf("virtual pointer frame: %w", err)
	}
	return nil
}

func (b *waylandBackend) KeyDown(code int) error {
	return b.key(code, virtual_keyboard.KeyStatePressed, true)
}

func (b *waylandBackend) KeyUp(code int) error {
	return b.key(code, virtual_keyboard.KeyStateReleased, false)
}

// key sends an evdev key and keeps the depressed modifier mask in sync.
func (b *waylandBackend) key(code int, state virtual_keyboard.KeyState, press bool) error {
	if b.closed {
		return ErrClosed
	}
	if code <= 0 {
		return fmt.Errorf("evdev keycode %d: %w", code, ErrInvalidKey)
	}
	if err := b.kbd.Key(time.Now(), uint32(code), state); err != nil {
		return fmt.Errorf("virtual keyboard key: %w", err)
	}
	bit := xkbModifierBit(code)
	if bit == 0 {
		return nil
	}
	if press {
		b.mods |= bit
	} else {
		b.mods &^= bit
	}
	if err := b.kbd.Modifiers(b.mods, 0, 0, 0); err != nil {
		return fmt.Errorf("virtual keyboard modifiers: %w", err)
	}
	return nil
}

func (b *waylandBackend) CharToKeyCode(r rune) int { return EvdevKeyCode(r) }

func (b *waylandBackend) ModifierKeyCode(m Modifier) int { return evdevModifier(m) }

// Close destroys the devices and managers. Safe after partial init.
func (b *waylandBackend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	var errs []error
	if b.ptr != nil {
		errs = append(errs, b.ptr.Close())
	}
	if b.kbd != nil {
		errs = append(errs, b.kbd.Close())
	}
	if b.pointerMgr != nil {
		errs = append(errs, b.pointerMgr.Close())
	}
	if b.keyboardMgr != nil {
		errs = append(errs, b.keyboardMgr.Close())
	}
	return errors.Join(errs...)
}

// xkbModifierBit maps an evdev modifier keycode to its depressed-mask bit.
func xkbModifierBit(code int) uint32 {
	switch code {
	case keyLeftShift:
		return xkbModShift
	case keyLeftCtrl:
		return xkbModCtrl
	case keyLeftAlt:
		return xkbModAlt
	case keyLeftMeta:
		return xkbModSuper
	default:
		return 0
	}
}
