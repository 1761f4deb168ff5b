package input

// Inert is the backend installed when no platform backend could initialize.
// Every primitive is a no-op that reports ErrUnavailable.
type Inert struct {
	w, h int
}

// NewInert returns an inert backend reporting the given display size.
func NewInert(w, h int) *Inert {
	if w <= 0 || h <= 0 {
		w, h = DefaultDisplayWidth, DefaultDisplayHeight
	}
	return &Inert{w: w, h: h}
}

// Kind returns KindNone.
func (n *Inert) Kind() Kind { return KindNone }

// DisplaySize returns the configured fallback size.
func (n *Inert) DisplaySize() (int, int) { return n.w, n.h }

// MoveTo returns ErrUnavailable.
func (n *Inert) MoveTo(int, int) error { return ErrUnavailable }

// ButtonDown returns ErrUnavailable.
func (n *Inert) ButtonDown(Button) error { return ErrUnavailable }

// ButtonUp returns ErrUnavailable.
func (n *Inert) ButtonUp(Button) error { return ErrUnavailable }

// KeyDown returns ErrUnavailable.
func (n *Inert) KeyDown(int) error { return ErrUnavailable }

// KeyUp returns ErrUnavailable.
func (n *Inert) KeyUp(int) error { return ErrUnavailable }

// Scroll returns ErrUnavailable.
func (n *Inert) Scroll(int, int, ScrollUnit) error { return ErrUnavailable }

// CharToKeyCode always returns -1.
func (n *Inert) CharToKeyCode(rune) int { return -1 }

// ModifierKeyCode always returns -1.
func (n *Inert) ModifierKeyCode(Modifier) int { return -1 }

// Close is a no-op.
func (n *Inert) Close() error { return nil }
