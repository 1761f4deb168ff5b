package control

import (
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
)

const (
	minMoveInterval = 16 * time.Millisecond
	minMoveDelta    = 2
)

// GestureState turns pointer events into button and move actions. Moves are
// throttled; a press belongs to the pointer id that started it.
type GestureState struct {
	active     bool
	pointer    int
	button     input.Button
	lastMoveAt time.Time
	lastX      int
	lastY      int
	now        func() time.Time
}

// NewGestureState returns a ready-to-use gesture tracker.
func NewGestureState() *GestureState {
	return &GestureState{now: time.Now}
}

// SetNowFunc overrides the clock used for throttling.
func (g *GestureState) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		g.now = fn
	}
}

// Active reports whether a pointer currently holds a button.
func (g *GestureState) Active() bool { return g.active }

// HandleDown moves to p and presses b. A second pointer is ignored while one is down.
func (g *GestureState) HandleDown(inputEnabled bool, pointerID int, p calib.LogicalPoint, b input.Button) []Action {
	if !inputEnabled || (g.active && g.pointer != pointerID) {
		return nil
	}
	g.active = true
	g.pointer = pointerID
	g.button = b
	g.mark(p)
	return []Action{
		{Type: ActMove, X: p.X, Y: p.Y},
		{Type: ActDown, Button: b},
	}
}

// HandleMove emits a throttled move for hover or for the pointer holding the button.
func (g *GestureState) HandleMove(inputEnabled bool, pointerID int, p calib.LogicalPoint) []Action {
	if !inputEnabled {
		return nil
	}
	if g.active && g.pointer != pointerID {
		return nil
	}

	now := g.now()
	if !g.lastMoveAt.IsZero() && now.Sub(g.lastMoveAt) < minMoveInterval {
		return nil
	}
	if !g.lastMoveAt.IsZero() && abs(p.X-g.lastX) < minMoveDelta && abs(p.Y-g.lastY) < minMoveDelta {
		return nil
	}
	g.mark(p)
	return []Action{{Type: ActMove, X: p.X, Y: p.Y}}
}

// HandleUp moves to p and releases the held button.
func (g *GestureState) HandleUp(inputEnabled bool, pointerID int, p calib.LogicalPoint) []Action {
	if !g.active || g.pointer != pointerID {
		return nil
	}
	g.active = false
	g.lastMoveAt = time.Time{}
	if !inputEnabled {
		// Release anyway so a kill switch flipped mid-press cannot leave the button stuck.
		return []Action{{Type: ActUp, Button: g.button}}
	}
	return []Action{
		{Type: ActMove, X: p.X, Y: p.Y},
		{Type: ActUp, Button: g.button},
	}
}

// Reset drops any held pointer and returns the release action if one was held.
func (g *GestureState) Reset() []Action {
	if !g.active {
		return nil
	}
	g.active = false
	g.lastMoveAt = time.Time{}
	return []Action{{Type: ActUp, Button: g.button}}
}

func (g *GestureState) mark(p calib.LogicalPoint) {
	g.lastMoveAt = g.now()
	g.lastX = p.X
	g.lastY = p.Y
}

// abs returns the absolute value of an integer.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
