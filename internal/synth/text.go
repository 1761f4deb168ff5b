package synth

import (
	"unicode/utf8"

	"github.com/frudas24/deskinput/internal/input"
	"go.uber.org/zap"
)

// TypeUTF8 injects text. Backends with Unicode support receive every
// codepoint; keycode backends receive the characters CharToKeyCode maps and
// skip the rest. Invalid UTF-8 bytes are skipped.
func (s *System) TypeUTF8(text string) error {
	if err := s.ready(); err != nil {
		return err
	}
	typer, unicodeOK := s.backend.(input.UnicodeTyper)
	skipped := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == utf8.RuneError && size == 1 {
			skipped++
			continue
		}
		if unicodeOK {
			if err := typer.TypeRune(r); err != nil {
				return err
			}
			continue
		}
		code := s.backend.CharToKeyCode(r)
		if code < 0 {
			skipped++
			continue
		}
		if err := s.click(code); err != nil {
			return err
		}
	}
	if skipped > 0 {
		s.log.Debug("skipped unsupported characters", zap.Int("count", skipped))
	}
	return nil
}

// KeySequence clicks the keycode of each ASCII character of text, skipping
// characters without a keycode.
func (s *System) KeySequence(text string) error {
	if err := s.ready(); err != nil {
		return err
	}
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			continue
		}
		code := s.backend.CharToKeyCode(rune(text[i]))
		if code < 0 {
			continue
		}
		if err := s.click(code); err != nil {
			return err
		}
	}
	return nil
}

// click presses and releases one key.
func (s *System) click(code int) error {
	if err := s.backend.KeyDown(code); err != nil {
		return err
	}
	return s.backend.KeyUp(code)
}
