// Package mjpeg streams the captured desktop to browsers as multipart JPEG.
package mjpeg

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	boundary = "frame"
	// idleResend is how often a quiet stream repeats its latest frame so
	// proxies and browsers keep the response open.
	idleResend = time.Second
)

// viewer is one connected HTTP client. frames holds at most the newest frame.
type viewer struct {
	frames chan []byte
}

// Stream fans JPEG frames out to viewers. Frames published faster than the
// minimum interval only replace the latest frame.
type Stream struct {
	mu       sync.Mutex
	viewers  map[*viewer]struct{}
	latest   []byte
	interval time.Duration
	sentAt   time.Time
	frames   uint64
}

// NewStream creates a stream with a minimum interval between broadcasts.
func NewStream(minInterval time.Duration) *Stream {
	return &Stream{
		viewers:  make(map[*viewer]struct{}),
		interval: minInterval,
	}
}

// SetMinInterval changes the minimum interval between broadcasts.
func (s *Stream) SetMinInterval(d time.Duration) {
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// Publish stores jpg as the latest frame and hands it to every viewer unless
// the previous broadcast was less than the minimum interval ago.
func (s *Stream) Publish(jpg []byte) {
	frame := append([]byte(nil), jpg...)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = frame
	if s.interval > 0 && now.Sub(s.sentAt) < s.interval {
		return
	}
	s.sentAt = now
	s.frames++
	for v := range s.viewers {
		v.offer(frame)
	}
}

// Latest returns a copy of the most recent frame, nil before the first one.
func (s *Stream) Latest() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil
	}
	return append([]byte(nil), s.latest...)
}

// Viewers returns the number of connected clients.
func (s *Stream) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Broadcasts returns how many frames have been sent to viewers.
func (s *Stream) Broadcasts() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ServeHTTP writes the multipart stream until the client goes away.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")

	v := s.join()
	defer s.leave(v)

	idle := time.NewTicker(idleResend)
	defer idle.Stop()

	for {
		var frame []byte
		select {
		case <-r.Context().Done():
			return
		case frame = <-v.frames:
		case <-idle.C:
			frame = s.Latest()
		}
		if len(frame) == 0 {
			continue
		}
		if err := writeFrame(w, frame); err != nil {
			return
		}
		flusher.Flush()
	}
}

// join registers a viewer and primes it with the latest frame.
func (s *Stream) join() *viewer {
	v := &viewer{frames: make(chan []byte, 1)}
	s.mu.Lock()
	s.viewers[v] = struct{}{}
	if s.latest != nil {
		v.offer(s.latest)
	}
	s.mu.Unlock()
	return v
}

// leave unregisters a viewer.
func (s *Stream) leave(v *viewer) {
	s.mu.Lock()
	delete(s.viewers, v)
	s.mu.Unlock()
}

// offer replaces any pending frame with frame without blocking.
func (v *viewer) offer(frame []byte) {
	select {
	case <-v.frames:
	default:
	}
	select {
	case v.frames <- frame:
	default:
	}
}

// writeFrame writes one multipart part.
func writeFrame(w io.Writer, jpg []byte) error {
	if _, err := fmt.Fprintf(w, "\r\n--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(jpg)); err != nil {
		return err
	}
	_, err := w.Write(jpg)
	return err
}
