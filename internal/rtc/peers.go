// Package rtc carries the control protocol over WebRTC data channels.
package rtc

import (
	"fmt"
	"sync"

	"github.com/frudas24/deskinput/internal/control"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/google/uuid"
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"
)

// ControlLabel is the data channel label that carries control messages.
const ControlLabel = "control"

// ControlHandler applies control messages. *control.Transport implements it.
type ControlHandler interface {
	Handle(control.Message) control.Reply
	Release() error
}

var _ ControlHandler = (*control.Transport)(nil)

// Peers creates peer connections whose control data channels feed a handler.
// At most one peer is live; a new one replaces it.
type Peers struct {
	mu      sync.Mutex
	api     *webrtc.API
	config  webrtc.Configuration
	handler ControlHandler
	peer    *webrtc.PeerConnection
	log     *zap.Logger
}

// NewPeers initializes the WebRTC API with default codecs and interceptors.
func NewPeers(handler ControlHandler, iceServers []string) (*Peers, error) {
	if handler == nil {
		return nil, fmt.Errorf("control handler is required")
	}
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
	)

	var cfg webrtc.Configuration
	if len(iceServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	return &Peers{api: api, config: cfg, handler: handler, log: logging.L("rtc")}, nil
}

// NewPeer closes any previous peer and returns a fresh one that serves the
// control channel the remote side opens.
func (p *Peers) NewPeer() (*webrtc.PeerConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}

	peer, err := p.api.NewPeerConnection(p.config)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log := p.log.With(zap.String("peer", id))

	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Debug("peer state", zap.String("state", state.String()))
	})
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != ControlLabel {
			log.Debug("ignoring data channel", zap.String("label", dc.Label()))
			return
		}
		p.serve(dc, log)
	})

	p.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (p *Peers) ClosePeer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}
}

// serve wires a control data channel to the handler.
func (p *Peers) serve(dc *webrtc.DataChannel, log *zap.Logger) {
	dc.OnOpen(func() {
		log.Info("control channel open")
	})
	dc.OnMessage(func(m webrtc.DataChannelMessage) {
		if m.IsString && debugEnabled() {
			log.Debug("control message", zap.ByteString("payload", m.Data))
		}
		out, ok := handlePayload(p.handler, m.Data)
		if !ok {
			return
		}
		if err := dc.SendText(string(out)); err != nil {
			log.Debug("control reply failed", zap.Error(err))
		}
	})
	dc.OnClose(func() {
		if err := p.handler.Release(); err != nil {
			log.Warn("release on close failed", zap.Error(err))
		}
		log.Info("control channel closed")
	})
}
