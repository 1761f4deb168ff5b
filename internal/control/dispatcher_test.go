package control

import (
	"strings"
	"testing"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/synth"
	"github.com/frudas24/deskinput/internal/testutil"
)

// newDispatcher returns a Dispatcher over a 1920x1080 fake with two monitors.
func newDispatcher(t *testing.T) (*Dispatcher, *testutil.FakeBackend, *session.Session) {
	t.Helper()
	fake := testutil.NewFakeBackend(1920, 1080)
	sys := synth.New(fake, synth.Options{})
	sess := session.New("pw", false)
	monitors := []monitor.Monitor{
		{Index: 0, W: 961, H: 1080, PixelW: 961, PixelH: 1080, Primary: true},
		{Index: 1, X: 960, W: 960, H: 540, PixelW: 1920, PixelH: 1080},
	}
	d := NewDispatcher(sys, sess, func() ([]monitor.Monitor, error) { return monitors, nil }, nil)
	return d, fake, sess
}

func lastMove(t *testing.T, fake *testutil.FakeBackend) testutil.Call {
	t.Helper()
	for i := len(fake.Calls) - 1; i >= 0; i-- {
		if fake.Calls[i].Name == "MoveTo" {
			return fake.Calls[i]
		}
	}
	t.Fatalf("no MoveTo in %v", fake.Calls)
	return testutil.Call{}
}

// TestDispatcher_MoveAck verifies a move is applied and acknowledged with the cursor.
func TestDispatcher_MoveAck(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	reply := d.Handle(Message{T: MsgMove, Seq: 7, X: 0.5, Y: 0})
	if reply.T != ReplyAck || reply.Seq != 7 || reply.X != 480 || reply.Y != 0 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if m := lastMove(t, fake); m.X != 480 || m.Y != 0 {
		t.Fatalf("expected MoveTo(480,0), got %v", m)
	}
}

// TestDispatcher_SecondMonitorScaled verifies mapping onto a scaled secondary display.
func TestDispatcher_SecondMonitorScaled(t *testing.T) {
	d, fake, sess := newDispatcher(t)
	if reply := d.Handle(Message{T: MsgSetDisplay, Idx: 1}); reply.T != ReplyAck {
		t.Fatalf("setDisplay failed: %+v", reply)
	}
	if sess.Monitor() != 1 {
		t.Fatalf("expected monitor 1, got %d", sess.Monitor())
	}
	d.Handle(Message{T: MsgMove, X: 1, Y: 1})
	// Pixel (1919,1079) at scale 2 is logical (960,540) offset by the origin.
	if m := lastMove(t, fake); m.X != 1920 || m.Y != 540 {
		t.Fatalf("expected MoveTo(1920,540), got %v", m)
	}
}

// TestDispatcher_SetDisplayUnknown verifies unknown displays are rejected.
func TestDispatcher_SetDisplayUnknown(t *testing.T) {
	d, _, sess := newDispatcher(t)
	reply := d.Handle(Message{T: MsgSetDisplay, Idx: 5})
	if reply.T != ReplyError || !strings.Contains(reply.Error, "monitor 5") {
		t.Fatalf("expected error reply, got %+v", reply)
	}
	if sess.Monitor() != 0 {
		t.Fatalf("expected monitor unchanged, got %d", sess.Monitor())
	}
}

// TestDispatcher_InputDisabledDrops verifies the kill switch drops input messages.
func TestDispatcher_InputDisabledDrops(t *testing.T) {
	d, fake, sess := newDispatcher(t)
	off := false
	d.Handle(Message{T: MsgInputEnabled, Enabled: &off})
	if sess.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	reply := d.Handle(Message{T: MsgClick})
	if reply.T != ReplyAck || !reply.Dropped {
		t.Fatalf("expected dropped ack, got %+v", reply)
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", fake.Calls)
	}
}

// TestDispatcher_KillSwitchReleasesHeldButton verifies disabling input mid-press releases the button.
func TestDispatcher_KillSwitchReleasesHeldButton(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgPtrDown, ID: 1, X: 0.1, Y: 0.1})
	fake.Reset()
	off := false
	d.Handle(Message{T: MsgInputEnabled, Enabled: &off})
	if names := fake.Names(); len(names) != 1 || names[0] != "ButtonUp" {
		t.Fatalf("expected ButtonUp, got %v", names)
	}
}

// TestDispatcher_PointerGesture verifies ptrDown/ptrUp produce move, press, move, release.
func TestDispatcher_PointerGesture(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgPtrDown, ID: 1, X: 0, Y: 0})
	d.Handle(Message{T: MsgPtrUp, ID: 1, X: 0.5, Y: 0.5})
	want := []string{"MoveTo", "ButtonDown", "MoveTo", "ButtonUp"}
	got := fake.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// TestDispatcher_Release verifies a transport disconnect releases a held pointer.
func TestDispatcher_Release(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgPtrDown, ID: 1, X: 0.2, Y: 0.2, Button: "right"})
	fake.Reset()
	if err := d.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if len(fake.Calls) != 1 || fake.Calls[0].Name != "ButtonUp" || fake.Calls[0].Button != input.ButtonRight {
		t.Fatalf("expected ButtonUp(right), got %v", fake.Calls)
	}
}

// TestTransport_ReleaseScopedToOwner verifies closing one transport leaves another transport's press held.
func TestTransport_ReleaseScopedToOwner(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	ws := d.Transport(TransportWebSocket)
	dc := d.Transport(TransportDataChannel)

	if reply := ws.Handle(Message{T: MsgPtrDown, ID: 1, X: 0.2, Y: 0.2}); reply.T != ReplyAck {
		t.Fatalf("ptrDown failed: %+v", reply)
	}
	fake.Reset()
	if err := dc.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if len(fake.Calls) != 0 || !d.Gestures().Active() {
		t.Fatalf("expected press to survive other transport closing, got %v", fake.Calls)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if len(fake.Calls) != 1 || fake.Calls[0].Name != "ButtonUp" {
		t.Fatalf("expected owner release to lift the button, got %v", fake.Calls)
	}
}

// TestTransport_PointerEventsFromOthersDropped verifies a held gesture ignores other transports.
func TestTransport_PointerEventsFromOthersDropped(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	ws := d.Transport(TransportWebSocket)
	dc := d.Transport(TransportDataChannel)

	ws.Handle(Message{T: MsgPtrDown, ID: 1, X: 0.2, Y: 0.2})
	fake.Reset()
	if reply := dc.Handle(Message{T: MsgPtrUp, ID: 1, X: 0.5, Y: 0.5}); !reply.Dropped {
		t.Fatalf("expected foreign ptrUp to be dropped, got %+v", reply)
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", fake.Calls)
	}

	ws.Handle(Message{T: MsgPtrUp, ID: 1, X: 0.5, Y: 0.5})
	if reply := dc.Handle(Message{T: MsgPtrDown, ID: 2, X: 0.1, Y: 0.1}); reply.Dropped {
		t.Fatalf("expected other transport to press after release, got %+v", reply)
	}
}

// TestDispatcher_RegionCagesRelativeMoves verifies relative moves center then clamp inside the region.
func TestDispatcher_RegionCagesRelativeMoves(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgSetRegion, Rect: &Rect{X: 100, Y: 200, W: 300, H: 400}})
	fake.Reset()

	reply := d.Handle(Message{T: MsgMoveRel, DX: 5000})
	if reply.T != ReplyAck {
		t.Fatalf("moveRel failed: %+v", reply)
	}
	if len(fake.Calls) != 2 {
		t.Fatalf("expected two moves, got %v", fake.Calls)
	}
	if c := fake.Calls[0]; c.X != 250 || c.Y != 400 {
		t.Fatalf("expected cage center (250,400), got %v", c)
	}
	if c := fake.Calls[1]; c.X != 399 || c.Y != 400 {
		t.Fatalf("expected clamped (399,400), got %v", c)
	}
}

// TestDispatcher_RegionPersisted verifies region changes reach the saver.
func TestDispatcher_RegionPersisted(t *testing.T) {
	fake := testutil.NewFakeBackend(800, 600)
	sess := session.New("pw", false)
	var saved calib.Region
	d := NewDispatcher(synth.New(fake, synth.Options{}), sess, nil, func(r calib.Region) error {
		saved = r
		return nil
	})
	d.Handle(Message{T: MsgSetRegion, Rect: &Rect{X: 1, Y: 2, W: 3, H: 4}})
	if saved.Rect != (calib.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Fatalf("unexpected saved region %+v", saved)
	}
	d.Handle(Message{T: MsgSetRegion})
	if !saved.Empty() {
		t.Fatalf("expected cleared region, got %+v", saved)
	}
}

// TestDispatcher_Chord verifies chords press modifiers in order and release in reverse.
func TestDispatcher_Chord(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgChord, Mods: []string{"ctrl", "shift"}, Key: "t"})
	key := input.EvdevKeyCode('t')
	want := []testutil.Call{
		{Name: "KeyDown", Code: testutil.KeyShift},
		{Name: "KeyDown", Code: testutil.KeyControl},
		{Name: "KeyDown", Code: key},
		{Name: "KeyUp", Code: key},
		{Name: "KeyUp", Code: testutil.KeyControl},
		{Name: "KeyUp", Code: testutil.KeyShift},
	}
	if len(fake.Calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, fake.Calls)
	}
	for i := range want {
		if fake.Calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, fake.Calls)
		}
	}
}

// TestDispatcher_TypeAndScroll verifies text and scroll messages reach the backend.
func TestDispatcher_TypeAndScroll(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	d.Handle(Message{T: MsgType, Text: "hi"})
	d.Handle(Message{T: MsgScrollPx, DY: -30})
	names := fake.Names()
	if len(names) != 5 || names[4] != "Scroll" {
		t.Fatalf("expected four key events and a scroll, got %v", names)
	}
	if c := fake.Calls[4]; c.Y != -30 || c.Unit != input.ScrollPixel {
		t.Fatalf("expected pixel scroll -30, got %v", c)
	}
}

// TestDispatcher_BackendErrorReply verifies backend failures become error replies.
func TestDispatcher_BackendErrorReply(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	fake.Fail = func(testutil.Call) error { return input.ErrCallFailed }
	reply := d.Handle(Message{T: MsgClick, Seq: 3})
	if reply.T != ReplyError || reply.Seq != 3 || !strings.Contains(reply.Error, input.ErrCallFailed.Error()) {
		t.Fatalf("expected error reply, got %+v", reply)
	}
}

// TestDispatcher_UnknownKey verifies unmapped characters are reported.
func TestDispatcher_UnknownKey(t *testing.T) {
	d, _, _ := newDispatcher(t)
	reply := d.Handle(Message{T: MsgKey, Key: "é"})
	if reply.T != ReplyError || !strings.Contains(reply.Error, input.ErrInvalidKey.Error()) {
		t.Fatalf("expected invalid key error, got %+v", reply)
	}
}

// TestDispatcher_ClosedSystem verifies a closed engine reports ErrClosed.
func TestDispatcher_ClosedSystem(t *testing.T) {
	fake := testutil.NewFakeBackend(800, 600)
	sys := synth.New(fake, synth.Options{})
	_ = sys.Close()
	d := NewDispatcher(sys, session.New("pw", false), nil, nil)
	reply := d.Handle(Message{T: MsgMove, X: 0.5, Y: 0.5})
	if reply.T != ReplyError || !strings.Contains(reply.Error, input.ErrClosed.Error()) {
		t.Fatalf("expected closed error, got %+v", reply)
	}
}
