// Package monitor describes display geometry and enumeration.
package monitor

import "errors"

// ErrUnsupported is returned where the platform has no monitor enumeration.
var ErrUnsupported = errors.New("monitor enumeration unsupported on this platform")

// Monitor describes a display. X, Y, W and H are logical bounds in the input
// backend's coordinate space; PixelW and PixelH are the framebuffer size.
type Monitor struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	PixelW  int    `json:"pixelW"`
	PixelH  int    `json:"pixelH"`
	Primary bool   `json:"primary"`
}

// Contains reports whether the logical point lies inside the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && y >= m.Y && x < m.X+m.W && y < m.Y+m.H
}

// Valid reports whether both logical and pixel sizes are positive.
func (m Monitor) Valid() bool {
	return m.W > 0 && m.H > 0 && m.PixelW > 0 && m.PixelH > 0
}

// GetMonitorByIndex returns the monitor matching the 0-based index.
func GetMonitorByIndex(list []Monitor, idx int) (Monitor, bool) {
	for _, m := range list {
		if m.Index == idx {
			return m, true
		}
	}
	return Monitor{}, false
}

// MonitorAt returns the first monitor containing the logical point.
func MonitorAt(list []Monitor, x, y int) (Monitor, bool) {
	for _, m := range list {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}

// Primary returns the primary monitor, or the first one when none is flagged.
func Primary(list []Monitor) (Monitor, bool) {
	for _, m := range list {
		if m.Primary {
			return m, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return Monitor{}, false
}
