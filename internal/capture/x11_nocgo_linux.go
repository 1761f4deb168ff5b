//go:build linux && !cgo

package capture

import "fmt"

func x11Rects() []rect { return nil }

func x11Capture(int) (Image, error) {
	return Image{}, fmt.Errorf("x11 capture requires cgo: %w", ErrUnsupported)
}
