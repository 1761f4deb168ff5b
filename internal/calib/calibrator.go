package calib

import (
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/monitor"
	"go.uber.org/zap"
)

// MonitorLister enumerates monitors.
type MonitorLister func() ([]monitor.Monitor, error)

// CursorFunc returns the logical cursor position.
type CursorFunc func() (x, y int, err error)

// SizeFunc returns the logical display size of the input backend.
type SizeFunc func() (w, h int)

// Calibrator finds the monitor under the cursor and derives its scale.
type Calibrator struct {
	list    MonitorLister
	cursor  CursorFunc
	display SizeFunc
}

// NewCalibrator returns a calibrator. A nil lister or cursor always falls back.
func NewCalibrator(list MonitorLister, cursor CursorFunc, display SizeFunc) *Calibrator {
	return &Calibrator{list: list, cursor: cursor, display: display}
}

// Calibrate computes the calibration of the monitor under the cursor. Any query
// failure yields Fallback over the backend display size.
func (c *Calibrator) Calibrate() Calibration {
	fallback := Fallback(c.display())
	if c.list == nil || c.cursor == nil {
		return fallback
	}
	x, y, err := c.cursor()
	if err != nil {
		logging.L("calib").Debug("cursor unavailable, using fallback", zap.Error(err))
		return fallback
	}
	m, ok := c.monitorAt(x, y)
	if !ok {
		return fallback
	}
	cal, ok := FromMonitor(m)
	if !ok {
		logging.L("calib").Debug("zero-size monitor, using fallback", zap.Int("index", m.Index))
		return fallback
	}
	return cal
}

// PrimaryPixelSize returns the pixel size of the primary monitor, or the
// backend display size when enumeration fails.
func (c *Calibrator) PrimaryPixelSize() (int, int) {
	if c.list != nil {
		if mons, err := c.list(); err == nil {
			if m, ok := monitor.Primary(mons); ok && m.Valid() {
				return m.PixelW, m.PixelH
			}
		}
	}
	return c.display()
}

// Monitors returns the enumerated monitors, or one unscaled monitor covering
// the backend display when enumeration is unavailable.
func (c *Calibrator) Monitors() []monitor.Monitor {
	if c.list != nil {
		if mons, err := c.list(); err == nil && len(mons) > 0 {
			return mons
		}
	}
	w, h := c.display()
	return []monitor.Monitor{{Index: 0, Name: "desktop", W: w, H: h, PixelW: w, PixelH: h, Primary: true}}
}

func (c *Calibrator) monitorAt(x, y int) (monitor.Monitor, bool) {
	mons, err := c.list()
	if err != nil {
		logging.L("calib").Debug("monitor enumeration failed, using fallback", zap.Error(err))
		return monitor.Monitor{}, false
	}
	return monitor.MonitorAt(mons, x, y)
}
