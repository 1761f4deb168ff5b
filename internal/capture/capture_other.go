//go:build !linux && !windows && !darwin

package capture

// CaptureScreenWithCursor is unavailable on this platform.
func CaptureScreenWithCursor(int) (Image, error) { return Image{}, ErrUnsupported }

// DisplayCount reports no capturable displays.
func DisplayCount() int { return 0 }

// DisplayInfo reports no displays.
func DisplayInfo(int) string { return "" }
