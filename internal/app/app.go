// Package app wires HTTP, transports, the preview and session state together.
package app

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/config"
	"github.com/frudas24/deskinput/internal/control"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/mjpeg"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/frudas24/deskinput/internal/rtc"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/signaling"
	"github.com/frudas24/deskinput/internal/synth"
	"go.uber.org/zap"
)

// mjpegDefaults holds the preview settings captured at startup, used by reset.
type mjpegDefaults struct {
	intervalMs int
	quality    int
}

// App coordinates the HTTP API, control transports and the preview.
type App struct {
	mu            sync.Mutex
	cfg           config.Config
	defaultMJPEG  mjpegDefaults
	session       *session.Session
	sys           *synth.System
	dispatcher    *control.Dispatcher
	peers         *rtc.Peers
	signaling     *signaling.Server
	control       *control.Server
	previewStream *mjpeg.Stream
	preview       *mjpeg.Preview
	enumerate     control.MonitorProvider
	monitors      []monitor.Monitor
	log           *zap.Logger
}

// New creates a new application with its dependencies wired. A nil
// enumerate uses the platform monitor list.
func New(cfg config.Config, sess *session.Session, sys *synth.System, enumerate control.MonitorProvider, policy signaling.ViewerPolicy) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if sys == nil {
		return nil, errors.New("input system is required")
	}
	if enumerate == nil {
		enumerate = monitor.ListMonitors
	}

	app := &App{
		cfg: cfg,
		defaultMJPEG: mjpegDefaults{
			intervalMs: cfg.MJPEGIntervalMs,
			quality:    cfg.MJPEGQuality,
		},
		session:   sess,
		sys:       sys,
		enumerate: enumerate,
		log:       logging.L("app"),
	}

	app.dispatcher = control.NewDispatcher(sys, sess, app.ListMonitors, app.saveRegion)
	peers, err := rtc.NewPeers(app.dispatcher.Transport(control.TransportDataChannel), nil)
	if err != nil {
		return nil, err
	}
	app.peers = peers
	app.signaling = signaling.NewServer(peers, policy, sess.AuthorizeRequest)
	app.control = control.NewServer(sess, app.dispatcher)

	if cfg.MJPEGEnabled {
		interval := time.Duration(cfg.MJPEGIntervalMs) * time.Millisecond
		app.previewStream = mjpeg.NewStream(interval)
		app.preview = mjpeg.NewPreview(app.previewStream, nil, cfg.MJPEGQuality, interval)
	}
	return app, nil
}

// Start loads monitors and the saved region, then starts the preview.
func (a *App) Start() error {
	if _, err := a.RefreshMonitors(); err != nil {
		a.log.Warn("monitor enumeration failed", zap.Error(err))
	}

	a.session.SetMonitor(a.cfg.DisplayIndex)
	region, err := calib.LoadRegion(a.regionPath())
	if err != nil {
		return err
	}
	if region.Display > 0 || !region.Empty() {
		a.session.Restore(region)
		a.log.Info("region restored", zap.Int("display", region.Display), zap.Any("rect", region.Rect))
	}

	a.restartPreview("startup")
	return nil
}

// Stop halts the preview, closes the peer and releases held input.
func (a *App) Stop() error {
	if a.preview != nil {
		a.preview.Stop()
	}
	a.peers.ClosePeer()
	return a.dispatcher.Release()
}

// RefreshMonitors re-enumerates displays and replaces the cached list.
func (a *App) RefreshMonitors() ([]monitor.Monitor, error) {
	list, err := a.enumerate()
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.monitors = list
	a.mu.Unlock()
	return a.ListMonitors()
}

// ListMonitors returns the cached monitor list.
func (a *App) ListMonitors() ([]monitor.Monitor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]monitor.Monitor, len(a.monitors))
	copy(out, a.monitors)
	return out, nil
}

// saveRegion persists the display and region and follows them with the preview.
func (a *App) saveRegion(r calib.Region) error {
	a.restartPreview("region")
	return calib.SaveRegion(a.regionPath(), r)
}

// restartPreview points the preview at the current display and region.
func (a *App) restartPreview(reason string) {
	if a.preview == nil {
		return
	}
	snap := a.session.Snapshot()
	a.log.Debug("preview restart", zap.String("reason", reason))
	a.preview.Start(snap.MonitorIndex, snap.Region)
}

// regionPath returns the region file inside the data dir.
func (a *App) regionPath() string {
	return filepath.Join(a.cfg.DataDir, calib.RegionFile)
}

// PreviewStream returns the MJPEG stream, nil when the preview is disabled.
func (a *App) PreviewStream() *mjpeg.Stream {
	return a.previewStream
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// Dispatcher returns the shared control dispatcher.
func (a *App) Dispatcher() *control.Dispatcher {
	return a.dispatcher
}
