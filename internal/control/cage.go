package control

import "github.com/frudas24/deskinput/internal/calib"

// ClampPointToRect clamps (x,y) to stay inside rect.
func ClampPointToRect(rect calib.Rect, x, y int) (int, int) {
	rect = calib.Normalize(rect)
	if rect.W <= 0 || rect.H <= 0 {
		return x, y
	}
	return clampInt(x, rect.X, rect.X+rect.W-1), clampInt(y, rect.Y, rect.Y+rect.H-1)
}

// RectCenter returns the center point of rect.
func RectCenter(rect calib.Rect) (int, int) {
	rect = calib.Normalize(rect)
	return rect.X + rect.W/2, rect.Y + rect.H/2
}

// caged reports whether rect is a usable cage.
func caged(rect calib.Rect) bool {
	rect = calib.Normalize(rect)
	return rect.W > 0 && rect.H > 0
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
