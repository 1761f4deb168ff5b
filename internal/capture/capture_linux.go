package capture

import (
	"os"
	"strings"
)

// waylandSession reports whether the process runs inside a Wayland session,
// where root-window grabs only see XWayland clients.
func waylandSession() bool {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// CaptureScreenWithCursor grabs display index with the cursor composited in.
func CaptureScreenWithCursor(index int) (Image, error) {
	if waylandSession() {
		return portalCapture(index)
	}
	return x11Capture(index)
}

// DisplayCount returns the number of capturable displays.
func DisplayCount() int {
	if waylandSession() {
		return 1
	}
	return len(x11Rects())
}

// DisplayInfo describes display index, or returns "" when it does not exist.
func DisplayInfo(index int) string {
	if waylandSession() {
		if index != 0 {
			return ""
		}
		return "Linux Wayland (xdg-desktop-portal)"
	}
	rects := x11Rects()
	if index < 0 || index >= len(rects) {
		return ""
	}
	return describe("Linux X11 Monitor", index, rects[index])
}
