//go:build linux && cgo

package monitor

/*
#cgo pkg-config: x11 xrandr
#include <X11/Xlib.h>
#include <X11/extensions/Xrandr.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// ListMonitors returns the XRandR monitors of $DISPLAY. X11 has no logical
// scaling, so pixel and logical sizes match.
func ListMonitors() ([]Monitor, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, errors.New("XOpenDisplay failed")
	}
	defer C.XCloseDisplay(dpy)

	var n C.int
	mons := C.XRRGetMonitors(dpy, C.XDefaultRootWindow(dpy), C.True, &n)
	if mons == nil || n == 0 {
		screen := C.XDefaultScreen(dpy)
		w, h := int(C.XDisplayWidth(dpy, screen)), int(C.XDisplayHeight(dpy, screen))
		return []Monitor{{Index: 0, Name: "default", W: w, H: h, PixelW: w, PixelH: h, Primary: true}}, nil
	}
	defer C.XRRFreeMonitors(mons)

	list := make([]Monitor, 0, int(n))
	for i, m := range unsafe.Slice(mons, int(n)) {
		list = append(list, Monitor{
			Index:   i,
			Name:    atomName(dpy, m.name, i),
			X:       int(m.x),
			Y:       int(m.y),
			W:       int(m.width),
			H:       int(m.height),
			PixelW:  int(m.width),
			PixelH:  int(m.height),
			Primary: m.primary != 0,
		})
	}
	return list, nil
}

// atomName resolves the output name atom, falling back to a numbered name.
func atomName(dpy *C.Display, atom C.Atom, i int) string {
	if atom == 0 {
		return fmt.Sprintf("Monitor %d", i+1)
	}
	cs := C.XGetAtomName(dpy, atom)
	if cs == nil {
		return fmt.Sprintf("Monitor %d", i+1)
	}
	defer C.XFree(unsafe.Pointer(cs))
	return C.GoString(cs)
}
