//go:build darwin && !cgo

package capture

// CaptureScreenWithCursor requires cgo on macOS.
func CaptureScreenWithCursor(int) (Image, error) { return Image{}, ErrUnsupported }

// DisplayCount reports no displays without cgo.
func DisplayCount() int { return 0 }

// DisplayInfo reports no displays without cgo.
func DisplayInfo(int) string { return "" }
