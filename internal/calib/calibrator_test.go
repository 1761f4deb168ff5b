package calib

import (
	"errors"
	"testing"

	"github.com/frudas24/deskinput/internal/monitor"
)

func staticMonitors(list []monitor.Monitor, err error) MonitorLister {
	return func() ([]monitor.Monitor, error) { return list, err }
}

func staticCursor(x, y int, err error) CursorFunc {
	return func() (int, int, error) { return x, y, err }
}

func staticSize(w, h int) SizeFunc {
	return func() (int, int) { return w, h }
}

var dualMonitors = []monitor.Monitor{
	{Index: 0, X: 0, Y: 0, W: 1920, H: 1080, PixelW: 1920, PixelH: 1080, Primary: true},
	{Index: 1, X: 1920, Y: 0, W: 1280, H: 800, PixelW: 2560, PixelH: 1600},
}

// TestCalibrate_PicksMonitorUnderCursor verifies the scale of the cursor's monitor is used.
func TestCalibrate_PicksMonitorUnderCursor(t *testing.T) {
	c := NewCalibrator(staticMonitors(dualMonitors, nil), staticCursor(2000, 100, nil), staticSize(3200, 1080))
	cal := c.Calibrate()
	if cal.Fallback || cal.ScaleX != 2 || cal.Origin.X != 1920 || cal.PixelWidth != 2560 {
		t.Fatalf("unexpected calibration %+v", cal)
	}
}

// TestCalibrate_Fallbacks verifies every query failure degrades to the unscaled desktop.
func TestCalibrate_Fallbacks(t *testing.T) {
	cases := map[string]*Calibrator{
		"no cursor":     NewCalibrator(staticMonitors(dualMonitors, nil), staticCursor(0, 0, errors.New("boom")), staticSize(800, 600)),
		"no monitors":   NewCalibrator(staticMonitors(nil, errors.New("boom")), staticCursor(10, 10, nil), staticSize(800, 600)),
		"outside":       NewCalibrator(staticMonitors(dualMonitors, nil), staticCursor(9000, 10, nil), staticSize(800, 600)),
		"zero size":     NewCalibrator(staticMonitors([]monitor.Monitor{{W: 100, H: 100}}, nil), staticCursor(10, 10, nil), staticSize(800, 600)),
		"no enumerator": NewCalibrator(nil, nil, staticSize(800, 600)),
	}
	for name, c := range cases {
		cal := c.Calibrate()
		want := Fallback(800, 600)
		if cal != want {
			t.Fatalf("%s: expected %+v, got %+v", name, want, cal)
		}
	}
}

// TestPrimaryPixelSize verifies the primary monitor wins over the backend size.
func TestPrimaryPixelSize(t *testing.T) {
	mons := []monitor.Monitor{dualMonitors[1], {Index: 2, W: 1440, H: 900, PixelW: 2880, PixelH: 1800, Primary: true}}
	c := NewCalibrator(staticMonitors(mons, nil), nil, staticSize(1, 1))
	if w, h := c.PrimaryPixelSize(); w != 2880 || h != 1800 {
		t.Fatalf("expected 2880x1800, got %dx%d", w, h)
	}
	c = NewCalibrator(staticMonitors(nil, errors.New("boom")), nil, staticSize(1024, 768))
	if w, h := c.PrimaryPixelSize(); w != 1024 || h != 768 {
		t.Fatalf("expected 1024x768, got %dx%d", w, h)
	}
}

// TestMonitors_Fallback verifies a single desktop monitor is synthesized when enumeration fails.
func TestMonitors_Fallback(t *testing.T) {
	c := NewCalibrator(staticMonitors(nil, errors.New("boom")), nil, staticSize(1280, 720))
	mons := c.Monitors()
	if len(mons) != 1 || mons[0].W != 1280 || mons[0].PixelH != 720 || !mons[0].Primary {
		t.Fatalf("unexpected fallback monitors %+v", mons)
	}
}
