//go:build darwin

package input

// platformConstructors returns the macOS backends.
func platformConstructors() map[Kind]constructor {
	return map[Kind]constructor{KindQuartz: openQuartz}
}
