//go:build windows

// Package winapi exposes the user32 and shcore calls that lxn/win does not wrap.
package winapi

import (
	"errors"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	shcore = windows.NewLazySystemDLL("shcore.dll")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procVkKeyScanW          = user32.NewProc("VkKeyScanW")
	procGetCursorInfo       = user32.NewProc("GetCursorInfo")
	procGetDpiForMonitor    = shcore.NewProc("GetDpiForMonitor")
)

// CURSOR_SHOWING is set in CURSORINFO.Flags when the cursor is visible.
const CURSOR_SHOWING = 0x00000001

// MDT_EFFECTIVE_DPI selects the scaled DPI in GetDpiForMonitor.
const MDT_EFFECTIVE_DPI = 0

// CURSORINFO mirrors the user32 structure.
type CURSORINFO struct {
	CbSize      uint32
	Flags       uint32
	HCursor     win.HCURSOR
	PtScreenPos win.POINT
}

// MonitorFunc receives each monitor handle and its virtual-screen rect.
// Returning false stops the enumeration.
type MonitorFunc func(h win.HMONITOR, rect win.RECT) bool

// syscall.NewCallback slots are never freed, so one callback serves every
// enumeration and enumMu serializes access to enumFn.
var (
	enumMu       sync.Mutex
	enumFn       MonitorFunc
	enumCallback = syscall.NewCallback(enumProc)
)

func enumProc(h win.HMONITOR, _ win.HDC, rect *win.RECT, _ uintptr) uintptr {
	if enumFn == nil || rect == nil {
		return 0
	}
	if enumFn(h, *rect) {
		return 1
	}
	return 0
}

// EnumDisplayMonitors calls fn for every monitor of the virtual screen.
func EnumDisplayMonitors(fn MonitorFunc) error {
	if err := procEnumDisplayMonitors.Find(); err != nil {
		return err
	}
	enumMu.Lock()
	defer enumMu.Unlock()
	enumFn = fn
	defer func() { enumFn = nil }()
	r, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if r == 0 {
		return errors.Join(errors.New("EnumDisplayMonitors failed"), callErr)
	}
	return nil
}

// GetDpiForMonitor returns the effective DPI of a monitor. It fails on
// systems older than Windows 8.1.
func GetDpiForMonitor(h win.HMONITOR) (uint32, uint32, error) {
	if err := procGetDpiForMonitor.Find(); err != nil {
		return 0, 0, err
	}
	var dpiX, dpiY uint32
	hr, _, _ := procGetDpiForMonitor.Call(uintptr(h), MDT_EFFECTIVE_DPI,
		uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if hr != 0 {
		return 0, 0, syscall.Errno(hr)
	}
	return dpiX, dpiY, nil
}

// VkKeyScan returns the virtual-key code in the low byte and the shift state
// in the high byte, or -1 when the character has no key.
func VkKeyScan(ch uint16) int16 {
	if procVkKeyScanW.Find() != nil {
		return -1
	}
	r, _, _ := procVkKeyScanW.Call(uintptr(ch))
	return int16(r)
}

// GetCursorInfo fills info with the current cursor handle and position.
func GetCursorInfo(info *CURSORINFO) error {
	if err := procGetCursorInfo.Find(); err != nil {
		return err
	}
	info.CbSize = uint32(unsafe.Sizeof(*info))
	r, _, callErr := procGetCursorInfo.Call(uintptr(unsafe.Pointer(info)))
	if r == 0 {
		return errors.Join(errors.New("GetCursorInfo failed"), callErr)
	}
	return nil
}
