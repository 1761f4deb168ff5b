package control

import (
	"math"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/monitor"
)

// Target is the area normalized pointer coordinates address: a monitor and
// an optional region in monitor-relative pixels.
type Target struct {
	Monitor monitor.Monitor
	Region  calib.Rect
}

// Area returns the addressed pixel rect relative to the monitor origin. The
// region is clipped to the monitor; an empty region means the whole monitor.
func (t Target) Area() calib.Rect {
	full := calib.Rect{W: t.pixelW(), H: t.pixelH()}
	r := calib.Normalize(t.Region)
	if r.W <= 0 || r.H <= 0 {
		return full
	}
	x0, y0 := ClampPointToRect(full, r.X, r.Y)
	x1, y1 := ClampPointToRect(full, r.X+r.W-1, r.Y+r.H-1)
	return calib.Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

// Calibration returns the monitor's pixel/logical mapping, unscaled when the
// monitor lacks pixel dimensions.
func (t Target) Calibration() calib.Calibration {
	if c, ok := calib.FromMonitor(t.Monitor); ok {
		return c
	}
	c := calib.Fallback(t.Monitor.W, t.Monitor.H)
	c.Origin = calib.LogicalPoint{X: t.Monitor.X, Y: t.Monitor.Y}
	return c
}

// NormToPixel maps normalized coordinates onto the area.
func (t Target) NormToPixel(xn, yn float64) calib.PixelPoint {
	a := t.Area()
	return calib.PixelPoint{
		X: a.X + normToPixels(clamp01(xn), a.W),
		Y: a.Y + normToPixels(clamp01(yn), a.H),
	}
}

// NormToLogical maps normalized coordinates to a logical backend point.
func (t Target) NormToLogical(xn, yn float64) calib.LogicalPoint {
	return t.Calibration().PixelToLogical(t.NormToPixel(xn, yn))
}

// LogicalCage returns the region in logical coordinates, or the zero rect
// when no region is set.
func (t Target) LogicalCage() calib.Rect {
	if r := calib.Normalize(t.Region); r.W <= 0 || r.H <= 0 {
		return calib.Rect{}
	}
	a := t.Area()
	c := t.Calibration()
	tl := c.PixelToLogical(calib.PixelPoint{X: a.X, Y: a.Y})
	br := c.PixelToLogical(calib.PixelPoint{X: a.X + a.W, Y: a.Y + a.H})
	return calib.Rect{X: tl.X, Y: tl.Y, W: max(br.X-tl.X, 1), H: max(br.Y-tl.Y, 1)}
}

func (t Target) pixelW() int {
	if t.Monitor.PixelW > 0 {
		return t.Monitor.PixelW
	}
	return t.Monitor.W
}

func (t Target) pixelH() int {
	if t.Monitor.PixelH > 0 {
		return t.Monitor.PixelH
	}
	return t.Monitor.H
}

func normToPixels(norm float64, span int) int {
	if span <= 1 {
		return 0
	}
	return int(math.Round(norm * float64(span-1)))
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
