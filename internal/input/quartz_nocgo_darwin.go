//go:build darwin && !cgo

package input

import "errors"

// openQuartz reports that CoreGraphics needs a cgo build.
func openQuartz(Options) (Backend, error) {
	return nil, errors.New("quartz backend requires cgo")
}
