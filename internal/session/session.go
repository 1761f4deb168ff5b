// Package session holds runtime state for the active operator.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/deskinput/internal/calib"
)

// ErrUnauthorized is returned when a request needs a logged-in session.
var ErrUnauthorized = errors.New("unauthorized")

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool
	InputEnabled  bool
	MonitorIndex  int
	Region        calib.Rect
}

// CookieName is the HTTP cookie carrying a login token.
const CookieName = "deskinput_session"

// maxTokens bounds concurrent logins; the oldest token is dropped first.
const maxTokens = 8

// Session holds runtime state for the active operator. Each successful login
// gets its own token, so being logged in is a property of a client, not of
// the process.
type Session struct {
	mu           sync.RWMutex
	password     string
	open         bool
	tokens       map[string]time.Time
	inputEnabled bool
	monitorIndex int
	region       calib.Rect
}

// New returns an initialized session with the given password. With open set
// every request is authorized (dev mode).
func New(password string, open bool) *Session {
	return &Session{
		password:     password,
		open:         open,
		tokens:       make(map[string]time.Time),
		inputEnabled: true,
	}
}

// Authenticate checks pass and returns a fresh token for the caller.
func (s *Session) Authenticate(pass string) (string, bool) {
	if !s.open && (pass == "" || subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) != 1) {
		return "", false
	}
	token, err := newToken()
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) >= maxTokens {
		s.dropOldest()
	}
	s.tokens[token] = time.Now()
	return token, true
}

// Authorized reports whether token belongs to a logged-in client.
func (s *Session) Authorized(token string) bool {
	if s.open {
		return true
	}
	if token == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// AuthorizeRequest checks the login cookie on r.
func (s *Session) AuthorizeRequest(r *http.Request) bool {
	return s.Authorized(TokenFromRequest(r))
}

// TokenFromRequest returns the login cookie value, empty when absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Logout revokes token.
func (s *Session) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// IsAuthenticated reports whether any client is logged in.
func (s *Session) IsAuthenticated() bool {
	if s.open {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens) > 0
}

// RequireAuth returns ErrUnauthorized when token is not logged in.
func (s *Session) RequireAuth(token string) error {
	if !s.Authorized(token) {
		return ErrUnauthorized
	}
	return nil
}

// dropOldest removes the earliest issued token. Callers hold s.mu.
func (s *Session) dropOldest() {
	var oldest string
	var at time.Time
	for tok, issued := range s.tokens {
		if oldest == "" || issued.Before(at) {
			oldest, at = tok, issued
		}
	}
	delete(s.tokens, oldest)
}

// newToken returns 32 random bytes, hex encoded.
func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetMonitor selects a display and clears the region, which was relative to
// the previous one.
func (s *Session) SetMonitor(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx != s.monitorIndex {
		s.region = calib.Rect{}
	}
	s.monitorIndex = idx
}

// Monitor returns the selected monitor index.
func (s *Session) Monitor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monitorIndex
}

// SetRegion stores the viewport, in pixels relative to the selected display.
func (s *Session) SetRegion(r calib.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = calib.Normalize(r)
}

// Region returns the current viewport; zero means the whole display.
func (s *Session) Region() calib.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region
}

// Restore applies a persisted region and its display.
func (s *Session) Restore(r calib.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorIndex = r.Display
	s.region = calib.Normalize(r.Rect)
}

// Persisted returns the state to save as a calib.Region.
func (s *Session) Persisted() calib.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calib.Region{Display: s.monitorIndex, Rect: s.region}
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.open || len(s.tokens) > 0,
		InputEnabled:  s.inputEnabled,
		MonitorIndex:  s.monitorIndex,
		Region:        s.region,
	}
}
