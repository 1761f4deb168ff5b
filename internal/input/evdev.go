package input

// Linux input-event codes shared by the Wayland and uinput backends.
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	keyEnter     = 28
	keyLeftCtrl  = 29
	keyLeftShift = 42
	keyLeftAlt   = 56
	keySpace     = 57
	keyTab       = 15
	keyLeftMeta  = 125
)

// evdevLetters holds KEY_A..KEY_Z in alphabetical order.
var evdevLetters = [26]int{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, 50,
	49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44,
}

// evdevDigits holds KEY_0..KEY_9.
var evdevDigits = [10]int{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// evdevPunct maps the punctuation typeable without layout lookups.
var evdevPunct = map[rune]int{
	'-':  12, // KEY_MINUS
	'=':  13, // KEY_EQUAL
	'[':  26, // KEY_LEFTBRACE
	']':  27, // KEY_RIGHTBRACE
	'\\': 43, // KEY_BACKSLASH
	';':  39, // KEY_SEMICOLON
	'\'': 40, // KEY_APOSTROPHE
	',':  51, // KEY_COMMA
	'.':  52, // KEY_DOT
	'/':  53, // KEY_SLASH
	'`':  41, // KEY_GRAVE
}

// EvdevKeyCode maps an ASCII character to a Linux KEY_* code, or -1.
// Letters are case-insensitive; newline and carriage return map to Enter.
func EvdevKeyCode(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return evdevLetters[r-'a']
	case r >= 'A' && r <= 'Z':
		return evdevLetters[r-'A']
	case r >= '0' && r <= '9':
		return evdevDigits[r-'0']
	}
	switch r {
	case ' ':
		return keySpace
	case '\n', '\r':
		return keyEnter
	case '\t':
		return keyTab
	}
	if code, ok := evdevPunct[r]; ok {
		return code
	}
	return -1
}

// evdevModifier returns the left-hand KEY_* code of a single modifier.
func evdevModifier(m Modifier) int {
	switch m {
	case ModShift:
		return keyLeftShift
	case ModControl:
		return keyLeftCtrl
	case ModOption:
		return keyLeftAlt
	case ModCommand:
		return keyLeftMeta
	default:
		return -1
	}
}

// evdevButton returns the BTN_* code of a mouse button.
func evdevButton(b Button) (int, error) {
	switch b {
	case ButtonLeft:
		return btnLeft, nil
	case ButtonRight:
		return btnRight, nil
	case ButtonMiddle:
		return btnMiddle, nil
	default:
		return 0, ErrInvalidButton
	}
}

// X11 keysyms used outside the Latin-1 range.
const (
	xkReturn   = 0xff0d
	xkTab      = 0xff09
	xkShiftL   = 0xffe1
	xkControlL = 0xffe3
	xkAltL     = 0xffe9
	xkSuperL   = 0xffeb
)

// x11Keysym maps a character to the keysym XTest should press. Printable ASCII
// keysyms equal their code points.
func x11Keysym(r rune) (uint64, bool) {
	switch {
	case r >= 32 && r < 127:
		return uint64(r), true
	case r == '\n' || r == '\r':
		return xkReturn, true
	case r == '\t':
		return xkTab, true
	default:
		return 0, false
	}
}

// x11ModifierKeysym returns the left-hand keysym of a single modifier.
func x11ModifierKeysym(m Modifier) (uint64, bool) {
	switch m {
	case ModShift:
		return xkShiftL, true
	case ModControl:
		return xkControlL, true
	case ModOption:
		return xkAltL, true
	case ModCommand:
		return xkSuperL, true
	default:
		return 0, false
	}
}

// x11Button returns the X11 core button number of a mouse button.
func x11Button(b Button) (uint, error) {
	switch b {
	case ButtonLeft:
		return 1, nil
	case ButtonMiddle:
		return 2, nil
	case ButtonRight:
		return 3, nil
	default:
		return 0, ErrInvalidButton
	}
}

// x11ScrollClicks expands a line scroll into (button, count) pairs: 4/5 for
// vertical, 6/7 for horizontal.
func x11ScrollClicks(dx, dy int) [][2]int {
	var out [][2]int
	switch {
	case dy > 0:
		out = append(out, [2]int{4, dy})
	case dy < 0:
		out = append(out, [2]int{5, -dy})
	}
	switch {
	case dx > 0:
		out = append(out, [2]int{6, dx})
	case dx < 0:
		out = append(out, [2]int{7, -dx})
	}
	return out
}
