//go:build darwin && cgo

package capture

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework AppKit
#import <AppKit/AppKit.h>
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

#define DI_MAX_DISPLAYS 16

typedef struct { double x, y, w, h; int pw, ph; } di_display;

typedef struct {
	unsigned char *data;
	int w, h;
	double x, y;
} di_sprite;

static int di_displays(di_display *out, int max) {
	CGDirectDisplayID ids[DI_MAX_DISPLAYS];
	uint32_t n = 0;
	if (CGGetActiveDisplayList(DI_MAX_DISPLAYS, ids, &n) != kCGErrorSuccess) return 0;
	if ((int)n > max) n = (uint32_t)max;
	for (uint32_t i = 0; i < n; i++) {
		CGRect b = CGDisplayBounds(ids[i]);
		out[i].x = b.origin.x;
		out[i].y = b.origin.y;
		out[i].w = b.size.width;
		out[i].h = b.size.height;
		out[i].pw = (int)CGDisplayPixelsWide(ids[i]);
		out[i].ph = (int)CGDisplayPixelsHigh(ids[i]);
		CGDisplayModeRef mode = CGDisplayCopyDisplayMode(ids[i]);
		if (mode) {
			out[i].pw = (int)CGDisplayModeGetPixelWidth(mode);
			out[i].ph = (int)CGDisplayModeGetPixelHeight(mode);
			CGDisplayModeRelease(mode);
		}
	}
	return (int)n;
}

// di_grab draws display index into out, which holds w*h RGBA pixels.
static int di_grab(int index, unsigned char *out, int w, int h) {
	CGDirectDisplayID ids[DI_MAX_DISPLAYS];
	uint32_t n = 0;
	if (CGGetActiveDisplayList(DI_MAX_DISPLAYS, ids, &n) != kCGErrorSuccess || index < 0 || index >= (int)n) return -1;
	CGImageRef img = CGDisplayCreateImage(ids[index]);
	if (!img) return -2;
	CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
	CGContextRef ctx = CGBitmapContextCreate(out, w, h, 8, (size_t)w * 4, cs,
		kCGImageAlphaPremultipliedLast | kCGBitmapByteOrder32Big);
	CGColorSpaceRelease(cs);
	if (!ctx) {
		CGImageRelease(img);
		return -3;
	}
	CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), img);
	CGContextRelease(ctx);
	CGImageRelease(img);
	return 0;
}

// di_cursor renders the current cursor scaled by scale, positioned in global points.
static di_sprite di_cursor(double scale) {
	di_sprite s = {0};
	@autoreleasepool {
		NSCursor *cur = [NSCursor currentSystemCursor];
		if (!cur) cur = [NSCursor arrowCursor];
		NSImage *nsimg = [cur image];
		NSPoint hot = [cur hotSpot];
		NSSize size = [nsimg size];
		CGImageRef cg = [nsimg CGImageForProposedRect:NULL context:nil hints:nil];
		if (!cg || size.width <= 0 || size.height <= 0) return s;
		int w = (int)(size.width * scale + 0.5);
		int h = (int)(size.height * scale + 0.5);
		unsigned char *buf = calloc((size_t)w * h * 4, 1);
		if (!buf) return s;
		CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
		CGContextRef ctx = CGBitmapContextCreate(buf, w, h, 8, (size_t)w * 4, cs,
			kCGImageAlphaPremultipliedLast | kCGBitmapByteOrder32Big);
		CGColorSpaceRelease(cs);
		if (!ctx) {
			free(buf);
			return s;
		}
		CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), cg);
		CGContextRelease(ctx);

		CGEventRef ev = CGEventCreate(NULL);
		CGPoint loc = CGEventGetLocation(ev);
		CFRelease(ev);

		s.data = buf;
		s.w = w;
		s.h = h;
		s.x = loc.x - hot.x;
		s.y = loc.y - hot.y;
	}
	return s;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type darwinDisplay struct {
	logical rect
	pw, ph  int
}

func darwinDisplays() []darwinDisplay {
	var buf [16]C.di_display
	n := int(C.di_displays(&buf[0], 16))
	out := make([]darwinDisplay, 0, n)
	for i := 0; i < n; i++ {
		d := buf[i]
		out = append(out, darwinDisplay{
			logical: rect{X: int(d.x), Y: int(d.y), W: int(d.w), H: int(d.h)},
			pw:      int(d.pw),
			ph:      int(d.ph),
		})
	}
	return out
}

// DisplayCount returns the number of active displays.
func DisplayCount() int {
	return len(darwinDisplays())
}

// DisplayInfo describes display index in physical pixels.
func DisplayInfo(index int) string {
	list := darwinDisplays()
	if index < 0 || index >= len(list) {
		return ""
	}
	d := list[index]
	return describe("macOS Display", index, rect{X: d.logical.X, Y: d.logical.Y, W: d.pw, H: d.ph})
}

// CaptureScreenWithCursor renders the display into an RGBA bitmap and
// composites the AppKit cursor image.
func CaptureScreenWithCursor(index int) (Image, error) {
	list := darwinDisplays()
	rects := make([]rect, len(list))
	for i, d := range list {
		rects[i] = d.logical
	}
	if _, err := pick(rects, index); err != nil {
		return Image{}, err
	}
	d := list[index]
	if d.pw <= 0 || d.ph <= 0 {
		return Image{}, fmt.Errorf("display %d has no pixel mode", index)
	}

	img := Image{Width: d.pw, Height: d.ph, Pix: make([]byte, d.pw*d.ph*4)}
	if rc := C.di_grab(C.int(index), (*C.uchar)(unsafe.Pointer(&img.Pix[0])), C.int(d.pw), C.int(d.ph)); rc != 0 {
		return Image{}, fmt.Errorf("CGDisplayCreateImage display %d: code %d", index, int(rc))
	}
	ForceOpaque(img.Pix)

	scale := float64(d.pw) / float64(max(d.logical.W, 1))
	sprite := C.di_cursor(C.double(scale))
	if sprite.data != nil {
		defer C.free(unsafe.Pointer(sprite.data))
		w, h := int(sprite.w), int(sprite.h)
		pix := C.GoBytes(unsafe.Pointer(sprite.data), C.int(w*h*4))
		Unpremultiply(pix)
		CompositeCursor(img, Cursor{
			X:      int((float64(sprite.x) - float64(d.logical.X)) * scale),
			Y:      int((float64(sprite.y) - float64(d.logical.Y)) * scale),
			Width:  w,
			Height: h,
			Pix:    pix,
		})
	}
	return img, nil
}
