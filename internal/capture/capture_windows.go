//go:build windows

package capture

import (
	"fmt"
	"unsafe"

	"github.com/frudas24/deskinput/internal/winapi"
	"github.com/lxn/win"
)

// captureBlt includes layered windows in BitBlt.
const captureBlt = 0x40000000

// windowsRects lists monitor rects in virtual-screen pixels.
func windowsRects() []rect {
	var rects []rect
	_ = winapi.EnumDisplayMonitors(func(_ win.HMONITOR, r win.RECT) bool {
		rects = append(rects, rect{X: int(r.Left), Y: int(r.Top), W: int(r.Right - r.Left), H: int(r.Bottom - r.Top)})
		return true
	})
	return rects
}

// DisplayCount returns the number of monitors.
func DisplayCount() int {
	return len(windowsRects())
}

// DisplayInfo describes display index, or returns "" when it does not exist.
func DisplayInfo(index int) string {
	rects := windowsRects()
	if index < 0 || index >= len(rects) {
		return ""
	}
	return describe("Windows Monitor", index, rects[index])
}

// CaptureScreenWithCursor BitBlts the monitor into a top-down DIB and draws
// the current cursor over it.
func CaptureScreenWithCursor(index int) (Image, error) {
	r, err := pick(windowsRects(), index)
	if err != nil {
		return Image{}, err
	}

	screen := win.GetDC(0)
	if screen == 0 {
		return Image{}, fmt.Errorf("GetDC failed")
	}
	defer win.ReleaseDC(0, screen)

	mem := win.CreateCompatibleDC(screen)
	if mem == 0 {
		return Image{}, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer win.DeleteDC(mem)

	bmp := win.CreateCompatibleBitmap(screen, int32(r.W), int32(r.H))
	if bmp == 0 {
		return Image{}, fmt.Errorf("CreateCompatibleBitmap %dx%d failed", r.W, r.H)
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))

	old := win.SelectObject(mem, win.HGDIOBJ(bmp))
	if !win.BitBlt(mem, 0, 0, int32(r.W), int32(r.H), screen, int32(r.X), int32(r.Y), win.SRCCOPY|captureBlt) {
		win.SelectObject(mem, old)
		return Image{}, fmt.Errorf("BitBlt failed")
	}
	drawCursor(mem, r)
	win.SelectObject(mem, old)

	var bi win.BITMAPINFO
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = int32(r.W)
	bi.BmiHeader.BiHeight = -int32(r.H)
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = win.BI_RGB

	img := Image{Width: r.W, Height: r.H, Pix: make([]byte, r.W*r.H*4)}
	if win.GetDIBits(mem, bmp, 0, uint32(r.H), &img.Pix[0], &bi, win.DIB_RGB_COLORS) == 0 {
		return Image{}, fmt.Errorf("GetDIBits failed")
	}
	SwapBGRA(img.Pix)
	return img, nil
}

// drawCursor paints the visible cursor at its screen position.
func drawCursor(dc win.HDC, r rect) {
	var ci winapi.CURSORINFO
	if err := winapi.GetCursorInfo(&ci); err != nil || ci.Flags&winapi.CURSOR_SHOWING == 0 {
		return
	}
	x := ci.PtScreenPos.X - int32(r.X)
	y := ci.PtScreenPos.Y - int32(r.Y)
	win.DrawIconEx(dc, x, y, win.HICON(ci.HCursor), 0, 0, 0, 0, win.DI_NORMAL)
}
