//go:build !windows && !(darwin && cgo) && !(linux && cgo)

package monitor

// ListMonitors returns ErrUnsupported on platforms without a native source.
func ListMonitors() ([]Monitor, error) {
	return nil, ErrUnsupported
}
