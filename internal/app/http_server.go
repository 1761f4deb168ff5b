package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/capture"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/web"
	"go.uber.org/zap"
)

// Preview bounds accepted by /api/config.
const (
	minMJPEGIntervalMs = 20
	maxMJPEGIntervalMs = 5000
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/monitors", a.handleMonitors)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.Handle("/ws/signal", a.Signaling())
	mux.Handle("/ws/control", a.Control())
	mux.HandleFunc("/favicon.ico", handleFavicon)
	if stream := a.PreviewStream(); stream != nil {
		mux.HandleFunc("/mjpeg/desktop", a.handlePreview)
		mux.HandleFunc("/api/snapshot.jpg", a.handleSnapshot)
	}

	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type monitorResponse struct {
	monitor.Monitor
	Capture string `json:"capture,omitempty"`
}

type stateResponse struct {
	MonitorIndex  int         `json:"monitor"`
	InputEnabled  bool        `json:"inputEnabled"`
	Region        *calib.Rect `json:"region,omitempty"`
	Backend       string      `json:"backend"`
	Preview       bool        `json:"preview"`
	Viewers       int         `json:"viewers"`
	Authenticated bool        `json:"authenticated"`
}

type configRequest struct {
	MJPEGIntervalMs *int `json:"mjpegIntervalMs,omitempty"`
	MJPEGQuality    *int `json:"mjpegQuality,omitempty"`
	Reset           bool `json:"reset,omitempty"`
}

type configResponse struct {
	Applied         bool `json:"applied"`
	MJPEGIntervalMs int  `json:"mjpegIntervalMs"`
	MJPEGQuality    int  `json:"mjpegQuality"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token, ok := a.session.Authenticate(req.Password)
	if !ok {
		a.log.Warn("login rejected", zap.String("remote", r.RemoteAddr))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, map[string]bool{"ok": true})
}

// handleLogout revokes the caller's token and, for a logged-in caller,
// releases held input.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token := session.TokenFromRequest(r)
	authorized := a.session.Authorized(token)
	a.session.Logout(token)
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	if authorized {
		if err := a.dispatcher.Release(); err != nil {
			a.log.Debug("release on logout failed", zap.Error(err))
		}
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleMonitors re-enumerates and returns the monitors with their capture info.
func (a *App) handleMonitors(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	list, err := a.RefreshMonitors()
	if err != nil {
		http.Error(w, "failed to list monitors", http.StatusInternalServerError)
		return
	}
	out := make([]monitorResponse, 0, len(list))
	for _, m := range list {
		out = append(out, monitorResponse{Monitor: m, Capture: capture.DisplayInfo(m.Index)})
	}
	writeJSON(w, out)
}

// handleState returns the current session state.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	snap := a.session.Snapshot()
	resp := stateResponse{
		MonitorIndex:  snap.MonitorIndex,
		InputEnabled:  snap.InputEnabled,
		Backend:       string(a.sys.Backend().Kind()),
		Preview:       a.preview != nil && a.preview.Running(),
		Authenticated: snap.Authenticated,
	}
	if a.previewStream != nil {
		resp.Viewers = a.previewStream.Viewers()
	}
	if r := calib.Normalize(snap.Region); r.W > 0 && r.H > 0 {
		resp.Region = &r
	}
	writeJSON(w, resp)
}

// handleConfig reads or updates the preview interval and quality.
func (a *App) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.mu.Lock()
		resp := configResponse{MJPEGIntervalMs: a.cfg.MJPEGIntervalMs, MJPEGQuality: a.cfg.MJPEGQuality}
		a.mu.Unlock()
		writeJSON(w, resp)
		return
	case http.MethodPost:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	interval, quality := a.cfg.MJPEGIntervalMs, a.cfg.MJPEGQuality
	a.mu.Unlock()
	if req.Reset {
		interval, quality = a.defaultMJPEG.intervalMs, a.defaultMJPEG.quality
	}
	if req.MJPEGIntervalMs != nil {
		interval = *req.MJPEGIntervalMs
	}
	if req.MJPEGQuality != nil {
		quality = *req.MJPEGQuality
	}
	if interval < minMJPEGIntervalMs || interval > maxMJPEGIntervalMs {
		http.Error(w, "mjpegIntervalMs out of range", http.StatusBadRequest)
		return
	}
	if quality < 1 || quality > 100 {
		http.Error(w, "mjpegQuality must be 1-100", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	a.cfg.MJPEGIntervalMs = interval
	a.cfg.MJPEGQuality = quality
	a.mu.Unlock()

	d := time.Duration(interval) * time.Millisecond
	if a.previewStream != nil {
		a.previewStream.SetMinInterval(d)
	}
	if a.preview != nil {
		a.preview.SetInterval(d)
		a.preview.SetQuality(quality)
	}
	a.log.Info("preview config", zap.Int("intervalMs", interval), zap.Int("quality", quality))
	writeJSON(w, configResponse{Applied: true, MJPEGIntervalMs: interval, MJPEGQuality: quality})
}

// handlePreview serves the MJPEG stream to authenticated clients.
func (a *App) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	a.previewStream.ServeHTTP(w, r)
}

// handleSnapshot returns the latest preview frame as a single JPEG.
func (a *App) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	jpg := a.previewStream.Latest()
	if len(jpg) == 0 {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(jpg)
}

// requireAuth returns false and writes an error unless r carries a login cookie.
func (a *App) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if !a.session.AuthorizeRequest(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		logging.L("app").Warn("static assets unavailable", zap.Error(err))
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
