package control

import (
	"errors"
	"testing"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/monitor"
)

var flat = Target{Monitor: monitor.Monitor{W: 1001, H: 501, PixelW: 1001, PixelH: 501}}

// TestPlan_Move verifies normalized moves map to logical points.
func TestPlan_Move(t *testing.T) {
	actions, err := Plan(Message{T: MsgMove, X: 0.5, Y: 1}, flat)
	if err != nil || len(actions) != 1 || actions[0].Type != ActMove || actions[0].X != 500 || actions[0].Y != 500 {
		t.Fatalf("expected move to (500,500), got %#v err=%v", actions, err)
	}
}

// TestPlan_Drag verifies both drag endpoints are mapped and the button parsed.
func TestPlan_Drag(t *testing.T) {
	actions, err := Plan(Message{T: MsgDrag, X: 0, Y: 0, X2: 1, Y2: 1, Button: "right"}, flat)
	if err != nil || len(actions) != 1 {
		t.Fatalf("expected one action, got %#v err=%v", actions, err)
	}
	a := actions[0]
	if a.Type != ActDrag || a.X != 0 || a.Y != 0 || a.X2 != 1000 || a.Y2 != 500 || a.Button != input.ButtonRight {
		t.Fatalf("unexpected drag %#v", a)
	}
}

// TestPlan_ClickCounts verifies click and dblclick counts.
func TestPlan_ClickCounts(t *testing.T) {
	one, _ := Plan(Message{T: MsgClick}, flat)
	two, _ := Plan(Message{T: MsgDblClick, Button: "middle"}, flat)
	if one[0].Count != 1 || one[0].Button != input.ButtonLeft {
		t.Fatalf("unexpected click %#v", one[0])
	}
	if two[0].Count != 2 || two[0].Button != input.ButtonMiddle {
		t.Fatalf("unexpected dblclick %#v", two[0])
	}
}

// TestPlan_MoveRelCarriesCage verifies relative moves are caged to the region.
func TestPlan_MoveRelCarriesCage(t *testing.T) {
	tg := flat
	tg.Region = calib.Rect{X: 10, Y: 10, W: 100, H: 100}
	actions, _ := Plan(Message{T: MsgMoveRel, DX: 5, DY: -3}, tg)
	if actions[0].Cage != (calib.Rect{X: 10, Y: 10, W: 100, H: 100}) || actions[0].DX != 5 || actions[0].DY != -3 {
		t.Fatalf("unexpected rel move %#v", actions[0])
	}
}

// TestPlan_ScrollUnits verifies line and pixel scrolls, and that zero scrolls are dropped.
func TestPlan_ScrollUnits(t *testing.T) {
	lines, _ := Plan(Message{T: MsgScroll, DY: -2}, flat)
	px, _ := Plan(Message{T: MsgScrollPx, DX: 40}, flat)
	none, _ := Plan(Message{T: MsgScroll}, flat)
	if lines[0].Pixel || lines[0].DY != -2 {
		t.Fatalf("unexpected line scroll %#v", lines[0])
	}
	if !px[0].Pixel || px[0].DX != 40 {
		t.Fatalf("unexpected pixel scroll %#v", px[0])
	}
	if len(none) != 0 {
		t.Fatalf("expected zero scroll to be dropped, got %#v", none)
	}
}

// TestPlan_Chord verifies modifiers and key are parsed.
func TestPlan_Chord(t *testing.T) {
	actions, err := Plan(Message{T: MsgChord, Mods: []string{"ctrl", "shift"}, Key: "t"}, flat)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	a := actions[0]
	if a.Type != ActChord || a.Key.Rune != 't' || a.Mods != input.ModControl|input.ModShift {
		t.Fatalf("unexpected chord %#v", a)
	}
}

// TestPlan_Errors verifies unknown keys, modifiers and types are rejected.
func TestPlan_Errors(t *testing.T) {
	if _, err := Plan(Message{T: MsgKey, Key: "f13"}, flat); !errors.Is(err, input.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := Plan(Message{T: MsgKey, Key: "a", Mods: []string{"hyper"}}, flat); err == nil {
		t.Fatalf("expected unknown modifier error")
	}
	if _, err := Plan(Message{T: "teleport"}, flat); err == nil {
		t.Fatalf("expected unknown type error")
	}
}

// TestParseKey verifies codes, names and single characters.
func TestParseKey(t *testing.T) {
	if k, _ := ParseKey(Message{Code: 36, Key: "a"}); k.Code != 36 {
		t.Fatalf("expected code to win, got %#v", k)
	}
	if k, _ := ParseKey(Message{Key: "Enter"}); k.Rune != '\n' {
		t.Fatalf("expected newline for Enter, got %#v", k)
	}
	if k, _ := ParseKey(Message{Key: "é"}); k.Rune != 'é' {
		t.Fatalf("expected é, got %#v", k)
	}
}
