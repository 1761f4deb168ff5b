package capture

// Cursor is a straight-alpha RGBA sprite positioned at X, Y in frame pixels.
type Cursor struct {
	X, Y          int
	Width, Height int
	Pix           []byte
}

// CompositeCursor blends cur onto img with dst = src*a + dst*(1-a) per
// channel. Pixels outside the frame are clipped; alpha stays 255.
func CompositeCursor(img Image, cur Cursor) {
	if !img.Valid() || len(cur.Pix) < cur.Width*cur.Height*4 {
		return
	}
	for j := 0; j < cur.Height; j++ {
		py := cur.Y + j
		if py < 0 || py >= img.Height {
			continue
		}
		for i := 0; i < cur.Width; i++ {
			px := cur.X + i
			if px < 0 || px >= img.Width {
				continue
			}
			si := (j*cur.Width + i) * 4
			a := cur.Pix[si+3]
			if a == 0 {
				continue
			}
			di := (py*img.Width + px) * 4
			blend(img.Pix[di:di+4], cur.Pix[si:si+4])
		}
	}
}

// blend mixes src over dst and forces dst alpha to 255.
func blend(dst, src []byte) {
	a := float32(src[3]) / 255
	for c := 0; c < 3; c++ {
		dst[c] = byte(float32(src[c])*a + float32(dst[c])*(1-a))
	}
	dst[3] = 255
}

// ForceOpaque sets every alpha byte of an RGBA buffer to 255.
func ForceOpaque(pix []byte) {
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
}

// SwapBGRA converts BGRA to RGBA in place and forces alpha to 255.
func SwapBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
		pix[i+3] = 255
	}
}

// Unpremultiply converts premultiplied RGBA to straight alpha in place.
func Unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			pix[i+c] = byte(min(255, (int(pix[i+c])*255+a/2)/a))
		}
	}
}

// ARGBCursor builds a Cursor from 32-bit ARGB words such as XFixes returns.
func ARGBCursor(x, y, w, h int, argb []uint32) Cursor {
	cur := Cursor{X: x, Y: y, Width: w, Height: h, Pix: make([]byte, w*h*4)}
	for i := 0; i < w*h && i < len(argb); i++ {
		p := argb[i]
		cur.Pix[i*4+0] = byte(p >> 16)
		cur.Pix[i*4+1] = byte(p >> 8)
		cur.Pix[i*4+2] = byte(p)
		cur.Pix[i*4+3] = byte(p >> 24)
	}
	return cur
}

// Channel locates one color component inside a packed pixel.
type Channel struct {
	shift uint
	bits  uint
	mask  uint64
}

// NewChannel derives the shift and width of a visual color mask.
func NewChannel(mask uint64) Channel {
	if mask == 0 {
		return Channel{}
	}
	var c Channel
	for mask&1 == 0 {
		mask >>= 1
		c.shift++
	}
	c.mask = mask
	for m := mask; m != 0; m >>= 1 {
		c.bits++
	}
	return c
}

// Extract returns the channel value scaled to 0..255.
func (c Channel) Extract(pixel uint64) byte {
	if c.bits == 0 {
		return 0
	}
	v := (pixel >> c.shift) & c.mask
	if c.bits >= 8 {
		return byte(v >> (c.bits - 8))
	}
	return byte(v * 255 / ((1 << c.bits) - 1))
}

// ExtractChannel pulls one color channel out of a pixel using its visual mask.
func ExtractChannel(pixel, mask uint64) byte {
	return NewChannel(mask).Extract(pixel)
}
