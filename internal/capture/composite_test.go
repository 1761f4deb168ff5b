package capture

import (
	"image"
	"image/color"
	"testing"
)

func checkOpaque(t *testing.T, img Image) {
	t.Helper()
	if len(img.Pix) != img.Width*img.Height*4 {
		t.Fatalf("expected %d bytes, got %d", img.Width*img.Height*4, len(img.Pix))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("expected alpha 255 at byte %d, got %d", i, img.Pix[i])
		}
	}
}

// TestCompositeCursor_BlendsAndStaysOpaque verifies blending math, clipping and alpha.
func TestCompositeCursor_BlendsAndStaysOpaque(t *testing.T) {
	img := NewImage(4, 3)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 100, 100, 100
	}
	cur := Cursor{X: 3, Y: -1, Width: 2, Height: 2, Pix: []byte{
		255, 0, 0, 255, 0, 0, 0, 255,
		200, 0, 0, 128, 0, 0, 0, 0,
	}}

	CompositeCursor(img, cur)

	checkOpaque(t, img)
	// Only cursor pixel (0,1) lands in the frame, at (3,0).
	got := img.Pix[3*4 : 3*4+3]
	a := float32(128) / 255
	want := []byte{byte(200*a + 100*(1-a)), byte(100 * (1 - a)), byte(100 * (1 - a))}
	for c := range want {
		if got[c] != want[c] {
			t.Fatalf("channel %d: expected %d, got %d", c, want[c], got[c])
		}
	}
	if img.Pix[0] != 100 {
		t.Fatalf("expected untouched pixel, got %d", img.Pix[0])
	}
}

// TestCompositeCursor_OpaqueSpriteReplaces verifies a fully opaque pixel overwrites the frame.
func TestCompositeCursor_OpaqueSpriteReplaces(t *testing.T) {
	img := NewImage(2, 2)
	CompositeCursor(img, Cursor{X: 1, Y: 1, Width: 1, Height: 1, Pix: []byte{10, 20, 30, 255}})
	if got := img.Pix[12:16]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Fatalf("expected 10,20,30,255, got %v", got)
	}
}

// TestSwapBGRA verifies channel order and forced alpha.
func TestSwapBGRA(t *testing.T) {
	pix := []byte{1, 2, 3, 0, 4, 5, 6, 7}
	SwapBGRA(pix)
	want := []byte{3, 2, 1, 255, 6, 5, 4, 255}
	for i := range want {
		if pix[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, pix)
		}
	}
}

// TestUnpremultiply verifies straight-alpha recovery.
func TestUnpremultiply(t *testing.T) {
	pix := []byte{64, 32, 0, 128, 9, 9, 9, 0}
	Unpremultiply(pix)
	if pix[0] != 128 || pix[1] != 64 || pix[2] != 0 || pix[4] != 9 {
		t.Fatalf("unexpected unpremultiplied pixels %v", pix)
	}
}

// TestExtractChannel verifies 8-bit and 5/6-bit masks.
func TestExtractChannel(t *testing.T) {
	if got := ExtractChannel(0x00AABBCC, 0x00FF0000); got != 0xAA {
		t.Fatalf("expected 0xAA, got %#x", got)
	}
	// RGB565 white.
	if got := ExtractChannel(0xFFFF, 0xF800); got != 255 {
		t.Fatalf("expected 255 for 5-bit max, got %d", got)
	}
	if got := ExtractChannel(0x07E0, 0x07E0); got != 255 {
		t.Fatalf("expected 255 for 6-bit max, got %d", got)
	}
	if got := ExtractChannel(0x1234, 0); got != 0 {
		t.Fatalf("expected 0 for empty mask, got %d", got)
	}
}

// TestARGBCursor verifies word unpacking.
func TestARGBCursor(t *testing.T) {
	cur := ARGBCursor(5, 6, 1, 1, []uint32{0x80102030})
	if cur.X != 5 || cur.Y != 6 || cur.Pix[0] != 0x10 || cur.Pix[1] != 0x20 || cur.Pix[2] != 0x30 || cur.Pix[3] != 0x80 {
		t.Fatalf("unexpected cursor %+v", cur)
	}
}

// TestFromImage verifies conversion from a generic image is opaque and sized.
func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	img := FromImage(src)
	checkOpaque(t, img)
	if img.Width != 3 || img.Height != 2 || img.Pix[(1*3+1)*4] != 255 {
		t.Fatalf("unexpected image %+v", img)
	}
}
