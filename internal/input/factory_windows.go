//go:build windows

package input

// platformConstructors returns the Windows backends.
func platformConstructors() map[Kind]constructor {
	return map[Kind]constructor{KindWin32: openWin32}
}
