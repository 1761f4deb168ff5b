package control

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errControlBusy = errors.New("control connection already active")

// Transport names used to scope pointer gestures.
const (
	TransportWebSocket   = "websocket"
	TransportDataChannel = "datachannel"
)

// Server handles websocket control input. At most one socket drives the
// dispatcher at a time.
type Server struct {
	upgrader  websocket.Upgrader
	session   *session.Session
	transport *Transport
	active    atomic.Pointer[websocket.Conn]
	log       *zap.Logger
}

// NewServer creates a control websocket server over a shared dispatcher.
func NewServer(sess *session.Session, dispatcher *Dispatcher) *Server {
	return &Server{
		session:   sess,
		transport: dispatcher.Transport(TransportWebSocket),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		log: logging.L("control"),
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.AuthorizeRequest(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if !s.active.CompareAndSwap(nil, conn) {
		_ = conn.WriteJSON(Reply{T: ReplyError, Error: errControlBusy.Error()})
		_ = conn.Close()
		return
	}
	id := uuid.NewString()
	log := s.log.With(zap.String("conn", id), zap.String("remote", r.RemoteAddr))
	log.Info("control connected")
	defer func() {
		s.active.CompareAndSwap(conn, nil)
		_ = conn.Close()
		if err := s.transport.Release(); err != nil {
			log.Warn("release on disconnect failed", zap.Error(err))
		}
		log.Info("control disconnected")
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		reply := s.transport.Handle(msg)
		if msg.Seq == 0 && reply.T == ReplyAck {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
