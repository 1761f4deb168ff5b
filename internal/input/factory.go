package input

import (
	"os"
	"runtime"
	"strings"

	"github.com/frudas24/deskinput/internal/logging"
	"go.uber.org/zap"
)

// Default fallback display size for backends that cannot query the screen.
const (
	DefaultDisplayWidth  = 1920
	DefaultDisplayHeight = 1080
)

// Options configures backend selection.
type Options struct {
	// Backend is "auto" or a Kind name.
	Backend string
	// DisplayWidth and DisplayHeight size the virtual screen for backends
	// that cannot query it (Wayland, uinput) and the inert fallback.
	DisplayWidth  int
	DisplayHeight int
	// Getenv overrides os.Getenv during selection.
	Getenv func(string) string
}

// constructor opens a backend of one kind.
type constructor func(Options) (Backend, error)

// displaySize returns the configured fallback size.
func (o Options) displaySize() (int, int) {
	w, h := o.DisplayWidth, o.DisplayHeight
	if w <= 0 || h <= 0 {
		return DefaultDisplayWidth, DefaultDisplayHeight
	}
	return w, h
}

// getenv returns the configured environment lookup.
func (o Options) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

// Candidates returns the backend kinds to try, in order, for the platform.
func Candidates(goos string, getenv func(string) string, preferred string) []Kind {
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	if preferred != "" && preferred != "auto" {
		return []Kind{Kind(preferred)}
	}
	switch goos {
	case "darwin":
		return []Kind{KindQuartz}
	case "windows":
		return []Kind{KindWin32}
	case "linux":
		var out []Kind
		if getenv("WAYLAND_DISPLAY") != "" {
			out = append(out, KindWayland)
		}
		if getenv("DISPLAY") != "" {
			out = append(out, KindX11)
		}
		return append(out, KindUinput)
	default:
		return nil
	}
}

// New opens the first candidate backend that initializes. It never fails: when
// nothing is reachable the inert backend is returned.
func New(opts Options) Backend {
	return open(opts, runtime.GOOS, platformConstructors())
}

// open walks the candidates using the given constructor table.
func open(opts Options, goos string, ctors map[Kind]constructor) Backend {
	log := logging.L("input")
	for _, kind := range Candidates(goos, opts.getenv, opts.Backend) {
		ctor, ok := ctors[kind]
		if !ok {
			log.Debug("backend not built for platform", zap.String("kind", string(kind)))
			continue
		}
		b, err := ctor(opts)
		if err != nil {
			log.Warn("backend init failed", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		w, h := b.DisplaySize()
		log.Info("backend ready", zap.String("kind", string(kind)), zap.Int("width", w), zap.Int("height", h))
		return b
	}
	log.Warn("no input backend available, input is inert")
	return NewInert(opts.displaySize())
}
