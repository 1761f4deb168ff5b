package capture

import "fmt"

// rect is a display area in desktop pixels.
type rect struct {
	X, Y, W, H int
}

// describe formats a display info line such as "Windows Monitor 0 (1920x1080 at 0,0)".
func describe(prefix string, index int, r rect) string {
	return fmt.Sprintf("%s %d (%dx%d at %d,%d)", prefix, index, r.W, r.H, r.X, r.Y)
}

// pick validates index against the enumerated rects.
func pick(rects []rect, index int) (rect, error) {
	if len(rects) == 0 {
		return rect{}, ErrUnsupported
	}
	if index < 0 || index >= len(rects) {
		return rect{}, fmt.Errorf("display %d of %d: %w", index, len(rects), ErrDisplayIndex)
	}
	return rects[index], nil
}
