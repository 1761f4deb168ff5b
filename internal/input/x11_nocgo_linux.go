//go:build linux && !cgo

package input

import "errors"

// openX11 reports that XTest needs a cgo build.
func openX11(Options) (Backend, error) {
	return nil, errors.New("x11 backend requires cgo")
}
