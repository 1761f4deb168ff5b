package control

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/synth"
	"github.com/frudas24/deskinput/internal/testutil"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, sess *session.Session) (*httptest.Server, *testutil.FakeBackend) {
	t.Helper()
	fake := testutil.NewFakeBackend(1000, 500)
	d := NewDispatcher(synth.New(fake, synth.Options{}), sess, nil, nil)
	srv := httptest.NewServer(NewServer(sess, d))
	t.Cleanup(srv.Close)
	return srv, fake
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// TestServer_RejectsUnauthenticated verifies the upgrade requires a session.
func TestServer_RejectsUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t, session.New("pw", false))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

// TestServer_RequiresOwnLoginCookie verifies another client's login does not open the socket.
func TestServer_RequiresOwnLoginCookie(t *testing.T) {
	sess := session.New("pw", false)
	token, ok := sess.Authenticate("pw")
	if !ok {
		t.Fatalf("expected login")
	}
	srv, _ := newTestServer(t, sess)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got err=%v resp=%v", err, resp)
	}

	header := http.Header{}
	header.Set("Cookie", (&http.Cookie{Name: session.CookieName, Value: token}).String())
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("expected dial with cookie to succeed, got %v", err)
	}
	_ = conn.Close()
}

// TestServer_AcksSequencedMessages verifies replies carry the sequence and cursor.
func TestServer_AcksSequencedMessages(t *testing.T) {
	srv, _ := newTestServer(t, session.New("", true))
	conn := dial(t, srv)

	if err := conn.WriteJSON(Message{T: MsgMove, X: 0.5, Y: 0.5}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.WriteJSON(Message{T: MsgClick, Seq: 9}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.T != ReplyAck || reply.Seq != 9 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.X != 500 || reply.Y != 250 {
		t.Fatalf("expected cursor (500,250), got (%d,%d)", reply.X, reply.Y)
	}
}

// TestServer_SingleConnection verifies a second client is refused.
func TestServer_SingleConnection(t *testing.T) {
	srv, _ := newTestServer(t, session.New("", true))
	first := dial(t, srv)
	if err := first.WriteJSON(Message{T: MsgSync, Seq: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ack Reply
	if err := first.ReadJSON(&ack); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	second := dial(t, srv)
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply Reply
	if err := second.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.T != ReplyError || !strings.Contains(reply.Error, "already active") {
		t.Fatalf("expected refusal, got %+v", reply)
	}
}
