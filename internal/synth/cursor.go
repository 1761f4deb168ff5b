package synth

// Point is a logical coordinate.
type Point struct {
	X int
	Y int
}

// Tracker holds the process-owned cursor position. On backends that cannot be
// queried it is the only record of where the pointer is.
type Tracker struct {
	pos Point
}

// Pos returns the tracked position.
func (t *Tracker) Pos() Point { return t.pos }

// Set records a new position.
func (t *Tracker) Set(p Point) { t.pos = p }

// clampPoint bounds p to [0, w] x [0, h].
func clampPoint(p Point, w, h int) Point {
	return Point{X: clampInt(p.X, 0, max(w, 0)), Y: clampInt(p.Y, 0, max(h, 0))}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
