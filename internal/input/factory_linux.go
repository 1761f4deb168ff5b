//go:build linux

package input

// platformConstructors returns the Linux backends in no particular order;
// Candidates decides which are tried.
func platformConstructors() map[Kind]constructor {
	return map[Kind]constructor{
		KindWayland: openWayland,
		KindX11:     openX11,
		KindUinput:  openUinput,
	}
}
