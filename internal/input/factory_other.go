//go:build !linux && !darwin && !windows

package input

// platformConstructors returns no backends; New always degrades to inert.
func platformConstructors() map[Kind]constructor {
	return map[Kind]constructor{}
}
