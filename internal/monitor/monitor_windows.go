//go:build windows

package monitor

import (
	"fmt"
	"unsafe"

	"github.com/frudas24/deskinput/internal/winapi"
	"github.com/lxn/win"
)

// baseDPI is the DPI at which one DIP equals one pixel.
const baseDPI = 96

// ListMonitors returns the list of available displays using WinAPI. Rects are
// reported in pixels and converted to DIPs with the per-monitor DPI.
func ListMonitors() ([]Monitor, error) {
	var list []Monitor
	err := winapi.EnumDisplayMonitors(func(h win.HMONITOR, _ win.RECT) bool {
		var info win.MONITORINFO
		info.CbSize = uint32(unsafe.Sizeof(info))
		if !win.GetMonitorInfo(h, &info) {
			return true
		}
		r := info.RcMonitor
		dpi := monitorDPI(h)
		pw, ph := int(r.Right-r.Left), int(r.Bottom-r.Top)
		list = append(list, Monitor{
			Index:   len(list),
			Name:    fmt.Sprintf("Monitor %d", len(list)+1),
			X:       int(r.Left) * baseDPI / dpi,
			Y:       int(r.Top) * baseDPI / dpi,
			W:       pw * baseDPI / dpi,
			H:       ph * baseDPI / dpi,
			PixelW:  pw,
			PixelH:  ph,
			Primary: info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return list, nil
}

// monitorDPI prefers GetDpiForMonitor and falls back to the desktop DC.
func monitorDPI(h win.HMONITOR) int {
	if dpi, _, err := winapi.GetDpiForMonitor(h); err == nil && dpi > 0 {
		return int(dpi)
	}
	hdc := win.GetDC(0)
	if hdc == 0 {
		return baseDPI
	}
	defer win.ReleaseDC(0, hdc)
	if dpi := int(win.GetDeviceCaps(hdc, win.LOGPIXELSX)); dpi > 0 {
		return dpi
	}
	return baseDPI
}
