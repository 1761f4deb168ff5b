// Package logging builds the process zap logger and hands out component loggers.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// KeyComponent is the structured field naming the emitting component.
const KeyComponent = "component"

var root atomic.Pointer[zap.Logger]

func init() {
	root.Store(zap.NewNop())
}

// Init installs the process logger. format is "json" or "console"; level is
// debug, info, warn or error. A nil output writes to stderr.
func Init(format, level string, output io.Writer) *zap.Logger {
	if output == nil {
		output = os.Stderr
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(output), ParseLevel(level))
	logger := zap.New(core)
	root.Store(logger)
	return logger
}

// L returns the process logger tagged with component.
func L(component string) *zap.Logger {
	return root.Load().With(zap.String(KeyComponent, component))
}

// Sync flushes buffered entries of the process logger.
func Sync() {
	_ = root.Load().Sync()
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
