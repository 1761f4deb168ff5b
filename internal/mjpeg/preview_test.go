package mjpeg

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/capture"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestPreview_PublishesFrames verifies captured frames reach the stream.
func TestPreview_PublishesFrames(t *testing.T) {
	stream := NewStream(0)
	var display atomic.Int32
	display.Store(-1)
	grab := func(index int) (capture.Image, error) {
		display.Store(int32(index))
		return capture.NewImage(4, 4), nil
	}
	p := NewPreview(stream, grab, 50, 5*time.Millisecond)
	p.Start(1, calib.Rect{X: 1, Y: 1, W: 2, H: 2})
	defer p.Stop()

	waitFor(t, func() bool { return len(stream.Latest()) > 0 })
	if got := display.Load(); got != 1 {
		t.Fatalf("expected display 1, got %d", got)
	}
}

// TestPreview_StopHaltsCapture verifies no grabs happen after Stop.
func TestPreview_StopHaltsCapture(t *testing.T) {
	var calls atomic.Int32
	grab := func(int) (capture.Image, error) {
		calls.Add(1)
		return capture.NewImage(2, 2), nil
	}
	p := NewPreview(NewStream(0), grab, 60, 5*time.Millisecond)
	p.Start(0, calib.Rect{})
	waitFor(t, func() bool { return calls.Load() > 0 })
	p.Stop()
	if p.Running() {
		t.Fatalf("expected preview stopped")
	}
	n := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != n {
		t.Fatalf("expected no captures after stop")
	}
}

// TestPreview_UnsupportedExits verifies the loop ends when capture is unavailable.
func TestPreview_UnsupportedExits(t *testing.T) {
	grab := func(int) (capture.Image, error) { return capture.Image{}, capture.ErrUnsupported }
	p := NewPreview(NewStream(0), grab, 60, time.Millisecond)
	p.Start(0, calib.Rect{})
	waitFor(t, func() bool { return !p.Running() })
	p.Stop()
}

// TestPreview_RetriesAfterFailure verifies transient errors back off and recover.
func TestPreview_RetriesAfterFailure(t *testing.T) {
	stream := NewStream(0)
	var calls atomic.Int32
	grab := func(int) (capture.Image, error) {
		if calls.Add(1) == 1 {
			return capture.Image{}, errors.New("busy")
		}
		return capture.NewImage(2, 2), nil
	}
	p := NewPreview(stream, grab, 60, time.Millisecond)
	p.backoff = 5 * time.Millisecond
	p.Start(0, calib.Rect{})
	defer p.Stop()

	waitFor(t, func() bool { return len(stream.Latest()) > 0 })
	if calls.Load() < 2 {
		t.Fatalf("expected a retry, got %d calls", calls.Load())
	}
}

// TestPreview_Settings verifies out-of-range settings are ignored.
func TestPreview_Settings(t *testing.T) {
	p := NewPreview(nil, nil, 0, time.Second)
	p.SetQuality(101)
	p.SetInterval(0)
	interval, quality := p.Settings()
	if interval != time.Second || quality != defaultQuality {
		t.Fatalf("expected defaults, got %s/%d", interval, quality)
	}
	p.SetQuality(90)
	p.SetInterval(50 * time.Millisecond)
	interval, quality = p.Settings()
	if interval != 50*time.Millisecond || quality != 90 {
		t.Fatalf("expected 50ms/90, got %s/%d", interval, quality)
	}
}
