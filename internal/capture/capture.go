// Package capture grabs display framebuffers with the cursor composited in.
// Every call opens its own native connection, so captures may run alongside
// input injection.
package capture

import (
	"errors"
	"image"
)

var (
	// ErrUnsupported is returned where no capture source exists.
	ErrUnsupported = errors.New("screen capture unsupported on this platform")
	// ErrDisplayIndex is returned for indexes outside [0, DisplayCount()).
	ErrDisplayIndex = errors.New("display index out of range")
)

// Image is an RGBA8 frame with top-left origin in row-major order.
// len(Pix) == Width*Height*4 and every alpha byte is 255.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage returns an opaque black w x h image.
func NewImage(w, h int) Image {
	img := Image{Width: w, Height: h, Pix: make([]byte, w*h*4)}
	ForceOpaque(img.Pix)
	return img
}

// Valid reports whether Pix matches the dimensions.
func (i Image) Valid() bool {
	return i.Width > 0 && i.Height > 0 && len(i.Pix) == i.Width*i.Height*4
}

// RGBA wraps the pixels as an *image.RGBA without copying.
func (i Image) RGBA() *image.RGBA {
	return &image.RGBA{Pix: i.Pix, Stride: i.Width * 4, Rect: image.Rect(0, 0, i.Width, i.Height)}
}

// FromImage converts any image.Image into an opaque Image.
func FromImage(src image.Image) Image {
	b := src.Bounds()
	out := Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy()*4)}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == out.Width*4 && b.Min == (image.Point{}) {
		copy(out.Pix, rgba.Pix)
		ForceOpaque(out.Pix)
		return out
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			out.Pix[i+0] = byte(r >> 8)
			out.Pix[i+1] = byte(g >> 8)
			out.Pix[i+2] = byte(bl >> 8)
			out.Pix[i+3] = 255
			i += 4
		}
	}
	return out
}
