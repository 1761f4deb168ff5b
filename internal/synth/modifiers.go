package synth

import (
	"errors"
	"fmt"

	"github.com/frudas24/deskinput/internal/input"
	"go.uber.org/zap"
)

// KeyDownWithMods presses the modifiers in mods (Shift, Control, Option,
// Command) and then code. When a press fails, everything already pressed is
// released in reverse order before the error is returned.
func (s *System) KeyDownWithMods(code int, mods input.Modifier) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.keyDownWithMods(code, mods)
}

// KeyUpWithMods releases code and then the modifiers in reverse press order.
// Every release is attempted; failures are joined.
func (s *System) KeyUpWithMods(code int, mods input.Modifier) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.keyUpWithMods(code, mods)
}

// KeyboardClickWithMods runs the full down phase and then the full up phase.
func (s *System) KeyboardClickWithMods(code int, mods input.Modifier) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.keyDownWithMods(code, mods); err != nil {
		return err
	}
	return s.keyUpWithMods(code, mods)
}

// KeyChord clicks code while holding mods.
func (s *System) KeyChord(mods input.Modifier, code int) error {
	return s.KeyboardClickWithMods(code, mods)
}

func (s *System) keyDownWithMods(code int, mods input.Modifier) error {
	var pressed []int
	for _, m := range input.ModifierOrder {
		if !mods.Has(m) {
			continue
		}
		mc := s.backend.ModifierKeyCode(m)
		if mc < 0 {
			s.release(pressed)
			return fmt.Errorf("modifier %d: %w", m, input.ErrInvalidKey)
		}
		if err := s.backend.KeyDown(mc); err != nil {
			s.release(pressed)
			return err
		}
		pressed = append(pressed, mc)
	}
	if err := s.backend.KeyDown(code); err != nil {
		s.release(pressed)
		return err
	}
	return nil
}

func (s *System) keyUpWithMods(code int, mods input.Modifier) error {
	errs := []error{s.backend.KeyUp(code)}
	for i := len(input.ModifierOrder) - 1; i >= 0; i-- {
		m := input.ModifierOrder[i]
		if !mods.Has(m) {
			continue
		}
		if mc := s.backend.ModifierKeyCode(m); mc >= 0 {
			errs = append(errs, s.backend.KeyUp(mc))
		}
	}
	return errors.Join(errs...)
}

// release lets go of pressed keys in reverse order, logging failures.
func (s *System) release(pressed []int) {
	for i := len(pressed) - 1; i >= 0; i-- {
		if err := s.backend.KeyUp(pressed[i]); err != nil {
			s.log.Warn("modifier release failed", zap.Int("code", pressed[i]), zap.Error(err))
		}
	}
}

// ParseModifiers maps names such as "shift", "ctrl", "alt" and "cmd" to a mask.
// Unknown names are reported as an error.
func ParseModifiers(names []string) (input.Modifier, error) {
	var mask input.Modifier
	for _, name := range names {
		switch name {
		case "shift":
			mask |= input.ModShift
		case "ctrl", "control":
			mask |= input.ModControl
		case "alt", "option", "opt":
			mask |= input.ModOption
		case "cmd", "command", "super", "win", "meta":
			mask |= input.ModCommand
		default:
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return mask, nil
}
