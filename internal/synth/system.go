// Package synth turns high-level mouse and keyboard requests into backend
// primitives: clamped moves, drag paths, modifier chords and text.
package synth

import (
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/monitor"
	"go.uber.org/zap"
)

// DefaultDragStepDelay is the pause between intermediate drag moves.
const DefaultDragStepDelay = 2 * time.Millisecond

// Options configures a System.
type Options struct {
	// DragStepDelay paces drags; zero disables pacing. Negative selects the default.
	DragStepDelay time.Duration
	// Monitors enumerates displays for calibration; nil always falls back.
	Monitors calib.MonitorLister
	// Sleep replaces time.Sleep, mainly for tests.
	Sleep func(time.Duration)
}

// System is the input facade. It owns one backend and the tracked cursor.
// It is not safe for concurrent use.
type System struct {
	backend input.Backend
	cursor  Tracker
	calib   *calib.Calibrator
	pace    time.Duration
	sleep   func(time.Duration)
	log     *zap.Logger
	closed  bool
}

// New wraps backend and seeds the tracker from the OS cursor when available.
func New(backend input.Backend, opts Options) *System {
	s := &System{
		backend: backend,
		pace:    opts.DragStepDelay,
		sleep:   opts.Sleep,
		log:     logging.L("synth"),
	}
	if s.pace < 0 {
		s.pace = DefaultDragStepDelay
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}
	cursor := func() (int, int, error) {
		p := s.cursor.Pos()
		return p.X, p.Y, nil
	}
	s.calib = calib.NewCalibrator(opts.Monitors, cursor, backend.DisplaySize)
	s.sync()
	return s
}

// Backend returns the active backend.
func (s *System) Backend() input.Backend { return s.backend }

// Ready reports whether a live backend is attached and the system is open.
func (s *System) Ready() bool { return s.ready() == nil }

func (s *System) ready() error {
	if s.closed {
		return input.ErrClosed
	}
	if s.backend.Kind() == input.KindNone {
		return input.ErrUnavailable
	}
	return nil
}

// Close releases the backend. Further calls return input.ErrClosed.
func (s *System) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.backend.Close()
}

// DisplaySize returns the logical display size of the backend.
func (s *System) DisplaySize() (int, int) { return s.backend.DisplaySize() }

// Cursor returns the tracked logical cursor position.
func (s *System) Cursor() (int, int) {
	p := s.cursor.Pos()
	return p.X, p.Y
}

// Sync re-reads the OS cursor on backends that can report it.
func (s *System) Sync() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.sync()
}

func (s *System) sync() error {
	reader, ok := s.backend.(input.CursorReader)
	if !ok || s.closed {
		return nil
	}
	x, y, err := reader.CursorPos()
	if err != nil {
		return err
	}
	s.cursor.Set(Point{X: x, Y: y})
	return nil
}

// Calibrate syncs the cursor and returns the calibration of its monitor.
func (s *System) Calibrate() calib.Calibration {
	if s.ready() == nil {
		if err := s.sync(); err != nil {
			s.log.Debug("cursor sync failed", zap.Error(err))
		}
	}
	return s.calib.Calibrate()
}

// Monitors returns the enumerated monitors or a single desktop-sized one.
func (s *System) Monitors() []monitor.Monitor { return s.calib.Monitors() }

// moveTo clamps p, moves, and records the clamped position on success.
func (s *System) moveTo(p Point) error {
	w, h := s.backend.DisplaySize()
	p = clampPoint(p, w, h)
	if err := s.backend.MoveTo(p.X, p.Y); err != nil {
		return err
	}
	s.cursor.Set(p)
	return nil
}

// MouseMoveTo moves to a logical point, clamped to the display.
func (s *System) MouseMoveTo(x, y int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.moveTo(Point{X: x, Y: y})
}

// MouseMoveRelative moves by dx, dy from the synced cursor.
func (s *System) MouseMoveRelative(dx, dy int) error {
	if err := s.Sync(); err != nil {
		return err
	}
	p := s.cursor.Pos()
	return s.moveTo(Point{X: p.X + dx, Y: p.Y + dy})
}

// MouseMoveToPixels moves to a pixel of the monitor under the cursor.
func (s *System) MouseMoveToPixels(px, py int) error {
	if err := s.ready(); err != nil {
		return err
	}
	l := s.Calibrate().PixelToLogical(calib.PixelPoint{X: px, Y: py})
	return s.moveTo(Point{X: l.X, Y: l.Y})
}

// MouseDown presses b at the current position.
func (s *System) MouseDown(b input.Button) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	return s.backend.ButtonDown(b)
}

// MouseUp releases b at the current position.
func (s *System) MouseUp(b input.Button) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	return s.backend.ButtonUp(b)
}

// MouseClick presses and releases b.
func (s *System) MouseClick(b input.Button) error {
	return s.clickN(b, 1)
}

// MouseDoubleClick clicks b twice.
func (s *System) MouseDoubleClick(b input.Button) error {
	return s.clickN(b, 2)
}

// MouseTripleClick clicks b three times.
func (s *System) MouseTripleClick(b input.Button) error {
	return s.clickN(b, 3)
}

func (s *System) clickN(b input.Button, n int) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.backend.ButtonDown(b); err != nil {
			return err
		}
		if err := s.backend.ButtonUp(b); err != nil {
			return err
		}
	}
	return nil
}

// MouseHold presses b, waits d and releases it.
func (s *System) MouseHold(b input.Button, d time.Duration) error {
	if err := s.MouseDown(b); err != nil {
		return err
	}
	s.sleep(d)
	return s.backend.ButtonUp(b)
}

// MouseDownAt moves to x, y and presses b.
func (s *System) MouseDownAt(b input.Button, x, y int) error {
	if err := s.moveThenButton(b, x, y); err != nil {
		return err
	}
	return s.backend.ButtonDown(b)
}

// MouseUpAt moves to x, y and releases b.
func (s *System) MouseUpAt(b input.Button, x, y int) error {
	if err := s.moveThenButton(b, x, y); err != nil {
		return err
	}
	return s.backend.ButtonUp(b)
}

// MouseClickAt moves to x, y and clicks b.
func (s *System) MouseClickAt(b input.Button, x, y int) error {
	if err := s.moveThenButton(b, x, y); err != nil {
		return err
	}
	return s.clickN(b, 1)
}

func (s *System) moveThenButton(b input.Button, x, y int) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	return s.moveTo(Point{X: x, Y: y})
}

// MouseDragTo drags b from the synced cursor to x, y clamped to the display.
func (s *System) MouseDragTo(b input.Button, x, y int) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	if err := s.sync(); err != nil {
		return err
	}
	w, h := s.backend.DisplaySize()
	return s.drag(s.cursor.Pos(), clampPoint(Point{X: x, Y: y}, w, h), b)
}

// MouseDragBy drags b by dx, dy from the synced cursor.
func (s *System) MouseDragBy(b input.Button, dx, dy int) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	if err := s.sync(); err != nil {
		return err
	}
	from := s.cursor.Pos()
	w, h := s.backend.DisplaySize()
	return s.drag(from, clampPoint(Point{X: from.X + dx, Y: from.Y + dy}, w, h), b)
}

// Drag drags b from one logical point to another.
func (s *System) Drag(from, to Point, b input.Button) error {
	if err := s.checkButton(b); err != nil {
		return err
	}
	w, h := s.backend.DisplaySize()
	return s.drag(clampPoint(from, w, h), clampPoint(to, w, h), b)
}

func (s *System) checkButton(b input.Button) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !b.Valid() {
		return input.ErrInvalidButton
	}
	return nil
}

// ScrollLines scrolls by wheel detents.
func (s *System) ScrollLines(dx, dy int) error {
	return s.scroll(dx, dy, input.ScrollLine)
}

// ScrollPixels scrolls by pixels where supported, lines elsewhere.
func (s *System) ScrollPixels(dx, dy int) error {
	return s.scroll(dx, dy, input.ScrollPixel)
}

// ScrollX scrolls horizontally by n lines.
func (s *System) ScrollX(n int) error { return s.ScrollLines(n, 0) }

// ScrollY scrolls vertically by n lines.
func (s *System) ScrollY(n int) error { return s.ScrollLines(0, n) }

func (s *System) scroll(dx, dy int, unit input.ScrollUnit) error {
	if err := s.ready(); err != nil {
		return err
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	return s.backend.Scroll(dx, dy, unit)
}

// KeyboardDown presses a native keycode.
func (s *System) KeyboardDown(code int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.backend.KeyDown(code)
}

// KeyboardUp releases a native keycode.
func (s *System) KeyboardUp(code int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.backend.KeyUp(code)
}

// KeyboardClick presses and releases a native keycode.
func (s *System) KeyboardClick(code int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.click(code)
}

// CharToKeyCode returns the backend keycode for r, or -1.
func (s *System) CharToKeyCode(r rune) int {
	if s.closed {
		return -1
	}
	return s.backend.CharToKeyCode(r)
}

// GetCursorPixel returns the cursor in pixels relative to the origin of the
// monitor under it.
func (s *System) GetCursorPixel() (int, int, error) {
	if err := s.Sync(); err != nil {
		return 0, 0, err
	}
	p := s.cursor.Pos()
	px := s.calib.Calibrate().LogicalToPixel(calib.LogicalPoint{X: p.X, Y: p.Y})
	return px.X, px.Y, nil
}

// GetPrimaryDisplayPixelSize returns the pixel size of the primary monitor.
func (s *System) GetPrimaryDisplayPixelSize() (int, int) {
	return s.calib.PrimaryPixelSize()
}
