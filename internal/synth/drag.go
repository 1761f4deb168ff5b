package synth

import (
	"errors"

	"github.com/frudas24/deskinput/internal/input"
)

const (
	minDragSteps = 8
	maxDragSteps = 240
	// dragStepSpan is the max-axis distance covered per step before the cap.
	dragStepSpan = 6
)

// DragSteps returns the number of intermediate moves for a drag: the max-axis
// distance over six, clamped to [8, 240].
func DragSteps(from, to Point) int {
	dist := max(abs(to.X-from.X), abs(to.Y-from.Y))
	return clampInt(max(minDragSteps, dist/dragStepSpan), minDragSteps, maxDragSteps)
}

// DragPath returns the interpolated moves from one point to another, ending
// exactly on to. It is empty when from equals to.
func DragPath(from, to Point) []Point {
	if from == to {
		return nil
	}
	steps := DragSteps(from, to)
	path := make([]Point, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		path[i-1] = Point{X: lerp(from.X, to.X, t), Y: lerp(from.Y, to.Y, t)}
	}
	return path
}

// lerp rounds half up for intermediate steps and lands exactly on b at t == 1.
func lerp(a, b int, t float64) int {
	if t >= 1 {
		return b
	}
	return int(float64(a) + float64(b-a)*t + 0.5)
}

// drag presses btn at from, walks the path and releases at to. The button is
// released even when an intermediate move fails.
func (s *System) drag(from, to Point, btn input.Button) error {
	if s.cursor.Pos() != from {
		if err := s.moveTo(from); err != nil {
			return err
		}
	}
	if err := s.backend.ButtonDown(btn); err != nil {
		return err
	}
	path := DragPath(from, to)
	for i, p := range path {
		if err := s.moveTo(p); err != nil {
			return errors.Join(err, s.backend.ButtonUp(btn))
		}
		if i < len(path)-1 && s.pace > 0 {
			s.sleep(s.pace)
		}
	}
	return s.backend.ButtonUp(btn)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
