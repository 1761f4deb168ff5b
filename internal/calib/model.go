// Package calib converts between logical input coordinates and monitor pixels.
package calib

import (
	"math"

	"github.com/frudas24/deskinput/internal/monitor"
)

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// LogicalPoint is a coordinate in the backend's native addressing space.
type LogicalPoint struct {
	X int
	Y int
}

// PixelPoint is a framebuffer pixel relative to a monitor's pixel origin.
type PixelPoint struct {
	X int
	Y int
}

// Calibration maps one monitor between logical and pixel space. It is
// computed per call and never stored.
type Calibration struct {
	Origin      LogicalPoint
	ScaleX      float64
	ScaleY      float64
	PixelWidth  int
	PixelHeight int
	// Fallback is set when the whole desktop is treated as one unscaled monitor.
	Fallback bool
}

// Fallback returns the unscaled calibration spanning a w x h desktop.
func Fallback(w, h int) Calibration {
	return Calibration{ScaleX: 1, ScaleY: 1, PixelWidth: w, PixelHeight: h, Fallback: true}
}

// FromMonitor derives the calibration of m. It reports false for zero-size monitors.
func FromMonitor(m monitor.Monitor) (Calibration, bool) {
	if !m.Valid() {
		return Calibration{}, false
	}
	return Calibration{
		Origin:      LogicalPoint{X: m.X, Y: m.Y},
		ScaleX:      float64(m.PixelW) / float64(m.W),
		ScaleY:      float64(m.PixelH) / float64(m.H),
		PixelWidth:  m.PixelW,
		PixelHeight: m.PixelH,
	}, true
}

// PixelToLogical returns p/scale + origin, rounded to nearest.
func (c Calibration) PixelToLogical(p PixelPoint) LogicalPoint {
	sx, sy := c.scales()
	return LogicalPoint{
		X: int(math.Round(float64(p.X)/sx)) + c.Origin.X,
		Y: int(math.Round(float64(p.Y)/sy)) + c.Origin.Y,
	}
}

// LogicalToPixel returns (l - origin) * scale, rounded to nearest.
func (c Calibration) LogicalToPixel(l LogicalPoint) PixelPoint {
	sx, sy := c.scales()
	return PixelPoint{
		X: int(math.Round(float64(l.X-c.Origin.X) * sx)),
		Y: int(math.Round(float64(l.Y-c.Origin.Y) * sy)),
	}
}

// scales guards against an uninitialized calibration.
func (c Calibration) scales() (float64, float64) {
	sx, sy := c.ScaleX, c.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return sx, sy
}

// Normalize returns a rectangle with non-negative width/height.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	maxX := r.X + r.W
	maxY := r.Y + r.H
	return x >= r.X && x <= maxX && y >= r.Y && y <= maxY
}
