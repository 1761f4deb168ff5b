//go:build linux && cgo

package capture

/*
#cgo pkg-config: x11 xrandr xfixes
#include <stdlib.h>
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/extensions/Xrandr.h>
#include <X11/extensions/Xfixes.h>

typedef struct { int x, y, w, h; } di_rect;

static int di_crtc_rects(Display *dpy, di_rect *out, int max) {
	Window root = DefaultRootWindow(dpy);
	XRRScreenResources *res = XRRGetScreenResourcesCurrent(dpy, root);
	if (!res) return 0;
	int n = 0;
	for (int i = 0; i < res->ncrtc && n < max; i++) {
		XRRCrtcInfo *ci = XRRGetCrtcInfo(dpy, res, res->crtcs[i]);
		if (!ci) continue;
		if (ci->noutput > 0 && ci->mode != None && ci->width > 0 && ci->height > 0) {
			out[n].x = ci->x;
			out[n].y = ci->y;
			out[n].w = (int)ci->width;
			out[n].h = (int)ci->height;
			n++;
		}
		XRRFreeCrtcInfo(ci);
	}
	XRRFreeScreenResources(res);
	return n;
}

static int di_screen_width(Display *dpy) { return DisplayWidth(dpy, DefaultScreen(dpy)); }
static int di_screen_height(Display *dpy) { return DisplayHeight(dpy, DefaultScreen(dpy)); }

static XImage *di_get_image(Display *dpy, int x, int y, int w, int h) {
	return XGetImage(dpy, DefaultRootWindow(dpy), x, y, (unsigned int)w, (unsigned int)h, AllPlanes, ZPixmap);
}

static void di_destroy_image(XImage *img) { XDestroyImage(img); }

static int di_has_xfixes(Display *dpy) {
	int ev, er;
	return XFixesQueryExtension(dpy, &ev, &er);
}
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/frudas24/deskinput/internal/logging"
	"go.uber.org/zap"
)

const maxCrtcs = 16

// openDisplay connects to $DISPLAY for a single capture call.
func openDisplay() (*C.Display, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, fmt.Errorf("XOpenDisplay: %w", ErrUnsupported)
	}
	return dpy, nil
}

// rectsOn lists active CRTCs, falling back to the whole default screen.
func rectsOn(dpy *C.Display) []rect {
	var buf [maxCrtcs]C.di_rect
	n := int(C.di_crtc_rects(dpy, &buf[0], maxCrtcs))
	rects := make([]rect, 0, n)
	for i := 0; i < n; i++ {
		rects = append(rects, rect{X: int(buf[i].x), Y: int(buf[i].y), W: int(buf[i].w), H: int(buf[i].h)})
	}
	if len(rects) == 0 {
		rects = append(rects, rect{W: int(C.di_screen_width(dpy)), H: int(C.di_screen_height(dpy))})
	}
	return rects
}

// x11Rects enumerates monitors on a short-lived connection.
func x11Rects() []rect {
	dpy, err := openDisplay()
	if err != nil {
		return nil
	}
	defer C.XCloseDisplay(dpy)
	return rectsOn(dpy)
}

// x11Capture grabs the root window over the monitor rect and blends the XFixes cursor.
func x11Capture(index int) (Image, error) {
	dpy, err := openDisplay()
	if err != nil {
		return Image{}, err
	}
	defer C.XCloseDisplay(dpy)

	r, err := pick(rectsOn(dpy), index)
	if err != nil {
		return Image{}, err
	}
	ximg := C.di_get_image(dpy, C.int(r.X), C.int(r.Y), C.int(r.W), C.int(r.H))
	if ximg == nil {
		return Image{}, fmt.Errorf("XGetImage %dx%d at %d,%d failed", r.W, r.H, r.X, r.Y)
	}
	defer C.di_destroy_image(ximg)

	img, err := convertXImage(ximg, r.W, r.H)
	if err != nil {
		return Image{}, err
	}
	if C.di_has_xfixes(dpy) != 0 {
		if cur, ok := xfixesCursor(dpy, r); ok {
			CompositeCursor(img, cur)
		}
	} else {
		logging.L("capture").Debug("xfixes missing, cursor not composited")
	}
	return img, nil
}

// convertXImage unpacks a ZPixmap using the visual masks.
func convertXImage(ximg *C.XImage, w, h int) (Image, error) {
	bpp := int(ximg.bits_per_pixel)
	if bpp != 16 && bpp != 24 && bpp != 32 {
		return Image{}, fmt.Errorf("XGetImage: unsupported %d bits per pixel", bpp)
	}
	stride := int(ximg.bytes_per_line)
	data := unsafe.Slice((*byte)(unsafe.Pointer(ximg.data)), stride*h)
	var order binary.ByteOrder = binary.LittleEndian
	if ximg.byte_order == C.MSBFirst {
		order = binary.BigEndian
	}
	red := NewChannel(uint64(ximg.red_mask))
	green := NewChannel(uint64(ximg.green_mask))
	blue := NewChannel(uint64(ximg.blue_mask))

	img := Image{Width: w, Height: h, Pix: make([]byte, w*h*4)}
	step := bpp / 8
	var word [4]byte
	for y := 0; y < h; y++ {
		row := data[y*stride:]
		for x := 0; x < w; x++ {
			src := row[x*step : x*step+step]
			var pixel uint64
			switch step {
			case 4:
				pixel = uint64(order.Uint32(src))
			case 2:
				pixel = uint64(order.Uint16(src))
			default:
				word = [4]byte{}
				if order == binary.BigEndian {
					copy(word[1:], src)
				} else {
					copy(word[:3], src)
				}
				pixel = uint64(order.Uint32(word[:]))
			}
			o := (y*w + x) * 4
			img.Pix[o+0] = red.Extract(pixel)
			img.Pix[o+1] = green.Extract(pixel)
			img.Pix[o+2] = blue.Extract(pixel)
			img.Pix[o+3] = 255
		}
	}
	return img, nil
}

// xfixesCursor fetches the current cursor sprite relative to r.
func xfixesCursor(dpy *C.Display, r rect) (Cursor, bool) {
	ci := C.XFixesGetCursorImage(dpy)
	if ci == nil {
		return Cursor{}, false
	}
	defer C.XFree(unsafe.Pointer(ci))

	w, h := int(ci.width), int(ci.height)
	if w <= 0 || h <= 0 || ci.pixels == nil {
		return Cursor{}, false
	}
	// XFixes stores each ARGB pixel in an unsigned long.
	longs := unsafe.Slice((*C.ulong)(unsafe.Pointer(ci.pixels)), w*h)
	argb := make([]uint32, w*h)
	for i, v := range longs {
		argb[i] = uint32(v)
	}
	x := int(ci.x) - int(ci.xhot) - r.X
	y := int(ci.y) - int(ci.yhot) - r.Y
	logging.L("capture").Debug("xfixes cursor", zap.Int("x", x), zap.Int("y", y), zap.Int("w", w), zap.Int("h", h))
	return ARGBCursor(x, y, w, h, argb), true
}
