package input

import "testing"

// TestEvdevKeyCode_Letters verifies letters map case-insensitively to KEY_* codes.
func TestEvdevKeyCode_Letters(t *testing.T) {
	cases := map[rune]int{'a': 30, 'A': 30, 'b': 48, 'q': 16, 'z': 44, 'M': 50}
	for r, want := range cases {
		if got := EvdevKeyCode(r); got != want {
			t.Fatalf("expected %d for %q, got %d", want, r, got)
		}
	}
}

// TestEvdevKeyCode_DigitsAndSpecials verifies digits, whitespace and punctuation.
func TestEvdevKeyCode_DigitsAndSpecials(t *testing.T) {
	cases := map[rune]int{
		'0': 11, '1': 2, '9': 10,
		' ': keySpace, '\n': keyEnter, '\r': keyEnter, '\t': keyTab,
		'-': 12, '`': 41, '/': 53, '\\': 43,
	}
	for r, want := range cases {
		if got := EvdevKeyCode(r); got != want {
			t.Fatalf("expected %d for %q, got %d", want, r, got)
		}
	}
}

// TestEvdevKeyCode_Unsupported verifies characters outside the table return -1.
func TestEvdevKeyCode_Unsupported(t *testing.T) {
	for _, r := range []rune{'é', '!', '@', '中', 0x1F600} {
		if got := EvdevKeyCode(r); got != -1 {
			t.Fatalf("expected -1 for %q, got %d", r, got)
		}
	}
}

// TestX11Keysym verifies printable ASCII and control mappings.
func TestX11Keysym(t *testing.T) {
	if sym, ok := x11Keysym('a'); !ok || sym != 'a' {
		t.Fatalf("expected keysym 'a', got %#x ok=%v", sym, ok)
	}
	if sym, ok := x11Keysym('\n'); !ok || sym != xkReturn {
		t.Fatalf("expected XK_Return, got %#x ok=%v", sym, ok)
	}
	if _, ok := x11Keysym('é'); ok {
		t.Fatalf("expected non-ASCII rune to be unmapped")
	}
}

// TestX11ScrollClicks verifies wheel buttons and repeat counts.
func TestX11ScrollClicks(t *testing.T) {
	got := x11ScrollClicks(-2, 3)
	if len(got) != 2 || got[0] != [2]int{4, 3} || got[1] != [2]int{7, 2} {
		t.Fatalf("unexpected clicks: %v", got)
	}
	if got := x11ScrollClicks(0, 0); len(got) != 0 {
		t.Fatalf("expected no clicks, got %v", got)
	}
}

// TestEvdevButton verifies button codes and invalid input.
func TestEvdevButton(t *testing.T) {
	if code, err := evdevButton(ButtonMiddle); err != nil || code != btnMiddle {
		t.Fatalf("expected BTN_MIDDLE, got %#x err=%v", code, err)
	}
	if _, err := evdevButton(Button(7)); err != ErrInvalidButton {
		t.Fatalf("expected ErrInvalidButton, got %v", err)
	}
}
