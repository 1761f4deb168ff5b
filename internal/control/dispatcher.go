package control

import (
	"errors"
	"fmt"
	"sync"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/synth"
	"go.uber.org/zap"
)

// MonitorProvider returns the current list of monitors.
type MonitorProvider func() ([]monitor.Monitor, error)

// RegionSaver persists the selected display and region.
type RegionSaver func(calib.Region) error

// Dispatcher applies control messages to the input system. All transports
// share one Dispatcher so engine calls are serialized.
type Dispatcher struct {
	mu           sync.Mutex
	sys          *synth.System
	session      *session.Session
	listMonitors MonitorProvider
	saveRegion   RegionSaver
	gestures     *GestureState
	holder       string
	log          *zap.Logger
}

// Transport is one input channel's handle on a shared Dispatcher. A held
// button belongs to the transport that pressed it: pointer events from other
// transports are dropped until it is released, and only the owner's Release
// lifts it.
type Transport struct {
	d    *Dispatcher
	name string
}

// Transport returns a handle for the named input channel.
func (d *Dispatcher) Transport(name string) *Transport {
	return &Transport{d: d, name: name}
}

// Name returns the transport name.
func (t *Transport) Name() string { return t.name }

// Handle applies msg on behalf of this transport.
func (t *Transport) Handle(msg Message) Reply { return t.d.handleFrom(t.name, msg) }

// Release lifts a button only when this transport holds it.
func (t *Transport) Release() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	if !t.d.gestures.Active() || t.d.holder != t.name {
		return nil
	}
	return t.d.reset()
}

// NewDispatcher binds the input system to the session state.
func NewDispatcher(sys *synth.System, sess *session.Session, listMonitors MonitorProvider, saveRegion RegionSaver) *Dispatcher {
	if listMonitors == nil {
		listMonitors = func() ([]monitor.Monitor, error) { return sys.Monitors(), nil }
	}
	return &Dispatcher{
		sys:          sys,
		session:      sess,
		listMonitors: listMonitors,
		saveRegion:   saveRegion,
		gestures:     NewGestureState(),
		log:          logging.L("control"),
	}
}

// Gestures exposes the pointer tracker, mainly for tests.
func (d *Dispatcher) Gestures() *GestureState { return d.gestures }

// Handle applies msg and returns the reply to send back.
func (d *Dispatcher) Handle(msg Message) Reply { return d.handleFrom("", msg) }

func (d *Dispatcher) handleFrom(src string, msg Message) Reply {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped, err := d.handle(src, msg)
	x, y := d.sys.Cursor()
	reply := Reply{T: ReplyAck, Seq: msg.Seq, X: x, Y: y, Dropped: dropped}
	if err != nil {
		d.log.Debug("control message failed", zap.String("t", msg.T), zap.Error(err))
		reply.T = ReplyError
		reply.Error = err.Error()
	}
	return reply
}

// Release lets go of any button held by a pointer gesture, whichever
// transport started it. Used on logout and shutdown.
func (d *Dispatcher) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reset()
}

// reset releases the held button and clears its owner. Callers hold d.mu.
func (d *Dispatcher) reset() error {
	d.holder = ""
	return d.apply(d.gestures.Reset())
}

func (d *Dispatcher) handle(src string, msg Message) (bool, error) {
	switch msg.T {
	case MsgSync:
		return false, d.sys.Sync()
	case MsgInputEnabled:
		if msg.Enabled == nil {
			return false, errors.New("inputEnabled requires enabled")
		}
		d.session.SetInputEnabled(*msg.Enabled)
		if !*msg.Enabled {
			return false, d.reset()
		}
		return false, nil
	case MsgSetDisplay:
		return false, d.setDisplay(msg.Idx)
	case MsgSetRegion:
		return false, d.setRegion(msg.Rect)
	case MsgPtrDown, MsgPtrMove, MsgPtrUp:
		return d.pointer(src, msg)
	}

	if !d.session.InputEnabled() {
		return true, nil
	}
	t, err := d.target()
	if err != nil {
		return false, err
	}
	actions, err := Plan(msg, t)
	if err != nil {
		return false, err
	}
	return false, d.apply(actions)
}

// pointer routes gesture messages through GestureState on behalf of src.
func (d *Dispatcher) pointer(src string, msg Message) (bool, error) {
	if d.gestures.Active() && d.holder != src {
		return true, nil
	}
	t, err := d.target()
	if err != nil {
		return false, err
	}
	p := t.NormToLogical(msg.X, msg.Y)
	enabled := d.session.InputEnabled()
	var actions []Action
	switch msg.T {
	case MsgPtrDown:
		actions = d.gestures.HandleDown(enabled, msg.ID, p, input.ParseButton(msg.Button))
	case MsgPtrMove:
		actions = d.gestures.HandleMove(enabled, msg.ID, p)
	case MsgPtrUp:
		actions = d.gestures.HandleUp(enabled, msg.ID, p)
	}
	if d.gestures.Active() {
		d.holder = src
	} else {
		d.holder = ""
	}
	if len(actions) == 0 {
		return true, nil
	}
	return false, d.apply(actions)
}

// target resolves the selected display and region.
func (d *Dispatcher) target() (Target, error) {
	monitors, err := d.listMonitors()
	if err != nil {
		return Target{}, err
	}
	idx := d.session.Monitor()
	m, ok := monitor.GetMonitorByIndex(monitors, idx)
	if !ok {
		if len(monitors) > 0 {
			return Target{}, fmt.Errorf("monitor %d not found", idx)
		}
		w, h := d.sys.DisplaySize()
		m = monitor.Monitor{W: w, H: h, PixelW: w, PixelH: h, Primary: true}
	}
	return Target{Monitor: m, Region: d.session.Region()}, nil
}

// setDisplay selects a monitor after checking that it exists.
func (d *Dispatcher) setDisplay(idx int) error {
	monitors, err := d.listMonitors()
	if err != nil {
		return err
	}
	if _, ok := monitor.GetMonitorByIndex(monitors, idx); !ok && (len(monitors) > 0 || idx != 0) {
		return fmt.Errorf("monitor %d not found", idx)
	}
	d.session.SetMonitor(idx)
	return d.persist()
}

// setRegion stores the viewport; a nil or empty rect clears it.
func (d *Dispatcher) setRegion(r *Rect) error {
	var rect calib.Rect
	if r != nil {
		rect = calib.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	d.session.SetRegion(rect)
	return d.persist()
}

func (d *Dispatcher) persist() error {
	if d.saveRegion == nil {
		return nil
	}
	return d.saveRegion(d.session.Persisted())
}

// apply executes actions in order, stopping at the first error.
func (d *Dispatcher) apply(actions []Action) error {
	for _, action := range actions {
		if err := d.applyAction(action); err != nil {
			return fmt.Errorf("%s: %w", action.Type, err)
		}
	}
	return nil
}

// applyAction executes a single action.
func (d *Dispatcher) applyAction(a Action) error {
	switch a.Type {
	case ActMove:
		return d.sys.MouseMoveTo(a.X, a.Y)
	case ActMoveRel:
		return d.moveRel(a)
	case ActMovePx:
		return d.sys.MouseMoveToPixels(a.X, a.Y)
	case ActDown:
		return d.sys.MouseDown(a.Button)
	case ActUp:
		return d.sys.MouseUp(a.Button)
	case ActClick:
		if a.Count == 2 {
			return d.sys.MouseDoubleClick(a.Button)
		}
		return d.sys.MouseClick(a.Button)
	case ActDrag:
		return d.sys.Drag(synth.Point{X: a.X, Y: a.Y}, synth.Point{X: a.X2, Y: a.Y2}, a.Button)
	case ActScroll:
		if a.Pixel {
			return d.sys.ScrollPixels(a.DX, a.DY)
		}
		return d.sys.ScrollLines(a.DX, a.DY)
	case ActKey, ActKeyDown, ActKeyUp, ActChord:
		code, err := d.keyCode(a.Key)
		if err != nil {
			return err
		}
		switch a.Type {
		case ActKeyDown:
			return d.sys.KeyDownWithMods(code, a.Mods)
		case ActKeyUp:
			return d.sys.KeyUpWithMods(code, a.Mods)
		case ActChord:
			return d.sys.KeyChord(a.Mods, code)
		default:
			return d.sys.KeyboardClickWithMods(code, a.Mods)
		}
	case ActType:
		return d.sys.TypeUTF8(a.Text)
	default:
		return fmt.Errorf("unsupported action %q", a.Type)
	}
}

// moveRel moves by a delta inside the cage. A cursor outside the cage is
// first brought to its center.
func (d *Dispatcher) moveRel(a Action) error {
	if !caged(a.Cage) {
		return d.sys.MouseMoveRelative(a.DX, a.DY)
	}
	x, y := d.sys.Cursor()
	if !calib.Contains(calib.Normalize(a.Cage), x, y) {
		x, y = RectCenter(a.Cage)
		if err := d.sys.MouseMoveTo(x, y); err != nil {
			return err
		}
	}
	tx, ty := ClampPointToRect(a.Cage, x+a.DX, y+a.DY)
	return d.sys.MouseMoveTo(tx, ty)
}

func (d *Dispatcher) keyCode(k Key) (int, error) {
	if k.Code > 0 {
		return k.Code, nil
	}
	code := d.sys.CharToKeyCode(k.Rune)
	if code < 0 {
		return 0, fmt.Errorf("no keycode for %q: %w", k.Rune, input.ErrInvalidKey)
	}
	return code, nil
}
