package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/control"
	"github.com/frudas24/deskinput/internal/session"
)

// TestNew_RequiresDependencies verifies missing collaborators are rejected.
func TestNew_RequiresDependencies(t *testing.T) {
	app := newTestApp(t, session.New("", true))
	if _, err := New(app.cfg, nil, app.sys, nil, 0); err == nil {
		t.Fatalf("expected error without session")
	}
	if _, err := New(app.cfg, app.session, nil, nil, 0); err == nil {
		t.Fatalf("expected error without input system")
	}
}

// TestStart_RestoresRegion verifies the saved region is applied on start.
func TestStart_RestoresRegion(t *testing.T) {
	sess := session.New("", true)
	app := newTestApp(t, sess)
	saved := calib.Region{Display: 1, Rect: calib.Rect{X: 5, Y: 6, W: 100, H: 50}}
	if err := calib.SaveRegion(filepath.Join(app.cfg.DataDir, calib.RegionFile), saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := app.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = app.Stop() }()

	if got := sess.Persisted(); got != saved {
		t.Fatalf("expected %+v, got %+v", saved, got)
	}
	list, _ := app.ListMonitors()
	if len(list) != 2 {
		t.Fatalf("expected cached monitors, got %d", len(list))
	}
}

// TestStart_UsesConfiguredDisplay verifies DISPLAY_INDEX applies without a saved region.
func TestStart_UsesConfiguredDisplay(t *testing.T) {
	sess := session.New("", true)
	app := newTestApp(t, sess)
	app.cfg.DisplayIndex = 1

	if err := app.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if sess.Monitor() != 1 {
		t.Fatalf("expected monitor 1, got %d", sess.Monitor())
	}
}

// TestSetRegionPersists verifies control messages write the region file.
func TestSetRegionPersists(t *testing.T) {
	sess := session.New("", true)
	app := newTestApp(t, sess)
	if err := app.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	reply := app.Dispatcher().Handle(control.Message{T: control.MsgSetRegion, Seq: 1, Rect: &control.Rect{X: 1, Y: 2, W: 30, H: 40}})
	if reply.T != control.ReplyAck {
		t.Fatalf("expected ack, got %+v", reply)
	}

	path := filepath.Join(app.cfg.DataDir, calib.RegionFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected region file: %v", err)
	}
	loaded, err := calib.LoadRegion(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Rect != (calib.Rect{X: 1, Y: 2, W: 30, H: 40}) {
		t.Fatalf("unexpected saved rect %+v", loaded.Rect)
	}
}
