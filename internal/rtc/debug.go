package rtc

import "sync/atomic"

// debugMessages controls whether every control payload is logged.
var debugMessages atomic.Bool

// SetDebugLogging enables/disables per-message data channel logs.
func SetDebugLogging(enabled bool) {
	debugMessages.Store(enabled)
}

// debugEnabled reports whether per-message logs are enabled.
func debugEnabled() bool {
	return debugMessages.Load()
}
