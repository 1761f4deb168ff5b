//go:build darwin && cgo

package monitor

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

static void di_mode_pixels(CGDirectDisplayID id, size_t *w, size_t *h) {
	CGDisplayModeRef mode = CGDisplayCopyDisplayMode(id);
	if (mode == NULL) {
		*w = CGDisplayPixelsWide(id);
		*h = CGDisplayPixelsHigh(id);
		return;
	}
	*w = CGDisplayModeGetPixelWidth(mode);
	*h = CGDisplayModeGetPixelHeight(mode);
	CGDisplayModeRelease(mode);
}
*/
import "C"

import "fmt"

const maxDisplays = 16

// ListMonitors returns active displays. Bounds are in points; pixel sizes come
// from the current display mode.
func ListMonitors() ([]Monitor, error) {
	var ids [maxDisplays]C.CGDirectDisplayID
	var n C.uint32_t
	if err := C.CGGetActiveDisplayList(maxDisplays, &ids[0], &n); err != C.kCGErrorSuccess {
		return nil, fmt.Errorf("CGGetActiveDisplayList failed: %d", int(err))
	}
	if n == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	mainID := C.CGMainDisplayID()
	list := make([]Monitor, 0, int(n))
	for i := 0; i < int(n); i++ {
		id := ids[i]
		b := C.CGDisplayBounds(id)
		var pw, ph C.size_t
		C.di_mode_pixels(id, &pw, &ph)
		list = append(list, Monitor{
			Index:   i,
			Name:    fmt.Sprintf("Display %d", uint32(id)),
			X:       int(b.origin.x),
			Y:       int(b.origin.y),
			W:       int(b.size.width),
			H:       int(b.size.height),
			PixelW:  int(pw),
			PixelH:  int(ph),
			Primary: id == mainID,
		})
	}
	return list, nil
}
