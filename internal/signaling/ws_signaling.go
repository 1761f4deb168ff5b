package signaling

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/rtc"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"
)

// PeerFactory creates the peer connection for a signaling session.
type PeerFactory interface {
	NewPeer() (*webrtc.PeerConnection, error)
}

var _ PeerFactory = (*rtc.Peers)(nil)

// ViewerPolicy controls how additional operators are handled.
type ViewerPolicy int

const (
	// ViewerReject rejects new connections when one is active.
	ViewerReject ViewerPolicy = iota
	// ViewerReplace closes the active connection when a new one arrives.
	ViewerReplace
)

var (
	errBusy    = errors.New("operator already connected")
	errBye     = errors.New("peer said bye")
	errNoOffer = errors.New("empty offer")
)

// operator is one signaling websocket and the peer negotiated over it.
type operator struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu     sync.Mutex
	peer   *webrtc.PeerConnection
	closed bool
}

// attach stores peer unless the operator was already closed by a replacement.
func (o *operator) attach(peer *webrtc.PeerConnection) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errors.New("operator replaced")
	}
	o.peer = peer
	return nil
}

// send writes msg to the operator's socket.
func (o *operator) send(msg Message) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()
	return o.conn.WriteJSON(msg)
}

// close tears down the socket and peer. Safe to call twice.
func (o *operator) close() {
	o.mu.Lock()
	peer := o.peer
	o.peer = nil
	o.closed = true
	o.mu.Unlock()
	if peer != nil {
		_ = peer.Close()
	}
	if o.conn != nil {
		_ = o.conn.Close()
	}
}

// Server handles WebRTC signaling over WebSocket for a single operator.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	peers    PeerFactory
	policy   ViewerPolicy
	authFn   func(*http.Request) bool
	active   *operator
	log      *zap.Logger
}

// NewServer creates a signaling server with the chosen viewer policy. authFn
// checks each upgrade request; nil allows every caller. The upgrader keeps
// gorilla's same-origin check.
func NewServer(peers PeerFactory, policy ViewerPolicy, authFn func(*http.Request) bool) *Server {
	return &Server{
		log:    logging.L("signaling"),
		peers:  peers,
		policy: policy,
		authFn: authFn,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the request and runs the offer/answer exchange until the
// socket closes or the browser says bye.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	op := &operator{id: uuid.NewString(), conn: conn}
	log := s.log.With(zap.String("operator", op.id))
	if err := s.claim(op); err != nil {
		log.Info("signaling rejected", zap.Error(err))
		_ = op.send(errorMessage(err))
		closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer s.release(op)

	peer, err := s.peers.NewPeer()
	if err != nil {
		log.Warn("peer creation failed", zap.Error(err))
		_ = op.send(errorMessage(err))
		closeWith(conn, websocket.CloseInternalServerErr, "peer unavailable")
		return
	}
	if err := op.attach(peer); err != nil {
		_ = peer.Close()
		return
	}
	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		init := c.ToJSON()
		_ = op.send(Message{T: TypeICE, Candidate: &init})
	})
	log.Debug("signaling open")

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Debug("signaling read ended", zap.Error(err))
			return
		}
		if err := s.dispatch(op, msg); err != nil {
			if !errors.Is(err, errBye) {
				_ = op.send(errorMessage(err))
			}
			log.Debug("signaling closed", zap.String("t", msg.T), zap.Error(err))
			return
		}
	}
}

// claim makes op the active operator according to the viewer policy.
func (s *Server) claim(op *operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.active; prev != nil {
		if s.policy != ViewerReplace {
			return errBusy
		}
		s.log.Info("signaling replaced", zap.String("operator", prev.id))
		prev.close()
	}
	s.active = op
	return nil
}

// release clears op if it is still active and closes its resources.
func (s *Server) release(op *operator) {
	s.mu.Lock()
	if s.active == op {
		s.active = nil
	}
	s.mu.Unlock()
	op.close()
}

// dispatch handles one message from the browser.
func (s *Server) dispatch(op *operator, msg Message) error {
	op.mu.Lock()
	peer := op.peer
	op.mu.Unlock()
	if peer == nil {
		return errors.New("operator replaced")
	}
	switch msg.T {
	case TypeOffer:
		return answer(op, peer, msg.SDP)
	case TypeICE:
		if msg.Candidate == nil {
			return nil
		}
		return peer.AddICECandidate(*msg.Candidate)
	case TypeBye:
		return errBye
	default:
		return nil
	}
}

// answer applies the browser's offer and replies once ICE gathering completes.
func answer(op *operator, peer *webrtc.PeerConnection, sdp string) error {
	if sdp == "" {
		return errNoOffer
	}
	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp}
	if err := peer.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("remote description: %w", err)
	}
	local, err := peer.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(local); err != nil {
		return fmt.Errorf("local description: %w", err)
	}
	<-gathered
	desc := peer.LocalDescription()
	if desc == nil {
		return errors.New("missing local description")
	}
	return op.send(Message{T: TypeAnswer, SDP: desc.SDP})
}

// closeWith sends a close frame with code and reason, then closes the socket.
func closeWith(conn *websocket.Conn, code int, reason string) {
	frame := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(time.Second))
	_ = conn.Close()
}
