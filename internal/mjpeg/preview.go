package mjpeg

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/capture"
	"github.com/frudas24/deskinput/internal/logging"
	"go.uber.org/zap"
)

const previewRetryBackoff = 2 * time.Second

// Grabber captures one frame of the display at index.
type Grabber func(index int) (capture.Image, error)

// Preview periodically captures a display and publishes JPEG frames.
type Preview struct {
	mu       sync.Mutex
	stream   *Stream
	grab     Grabber
	quality  int
	interval time.Duration
	backoff  time.Duration
	display  int
	crop     calib.Rect
	cancel   context.CancelFunc
	done     chan struct{}
	log      *zap.Logger
}

// NewPreview returns a preview that publishes into stream. A nil grab uses
// capture.CaptureScreenWithCursor.
func NewPreview(stream *Stream, grab Grabber, quality int, interval time.Duration) *Preview {
	if grab == nil {
		grab = capture.CaptureScreenWithCursor
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Preview{
		stream:   stream,
		grab:     grab,
		quality:  quality,
		interval: interval,
		backoff:  previewRetryBackoff,
		log:      logging.L("preview"),
	}
}

// Start (re)starts capturing display, cropped to crop when non-empty.
func (p *Preview) Start(display int, crop calib.Rect) {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.mu.Lock()
	p.display = display
	p.crop = crop
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	p.log.Info("preview start", zap.Int("display", display), zap.Any("crop", crop))
	go p.loop(ctx, done)
}

// Stop halts the capture loop and waits for it to exit.
func (p *Preview) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a capture loop is active.
func (p *Preview) Running() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// SetQuality changes the JPEG quality of subsequent frames.
func (p *Preview) SetQuality(q int) {
	if q <= 0 || q > 100 {
		return
	}
	p.mu.Lock()
	p.quality = q
	p.mu.Unlock()
}

// SetInterval changes the delay between captures.
func (p *Preview) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.interval = d
	p.mu.Unlock()
}

// Settings returns the current interval and quality.
func (p *Preview) Settings() (time.Duration, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval, p.quality
}

// loop captures frames until ctx is cancelled or capture is unsupported.
func (p *Preview) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	failing := false
	for {
		p.mu.Lock()
		display, crop, quality, wait := p.display, p.crop, p.quality, p.interval
		p.mu.Unlock()

		err := p.frame(display, crop, quality)
		switch {
		case err == nil:
			if failing {
				p.log.Info("preview recovered", zap.Int("display", display))
				failing = false
			}
		case errors.Is(err, capture.ErrUnsupported):
			p.log.Warn("preview disabled", zap.Error(err))
			return
		default:
			if !failing {
				p.log.Warn("preview capture failed", zap.Error(err), zap.Duration("retry", p.backoff))
				failing = true
			}
			wait = p.backoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// frame captures, encodes and publishes one frame.
func (p *Preview) frame(display int, crop calib.Rect, quality int) error {
	img, err := p.grab(display)
	if err != nil {
		return err
	}
	jpg, err := EncodeImage(img, crop, quality)
	if err != nil {
		return err
	}
	if p.stream != nil {
		p.stream.Publish(jpg)
	}
	return nil
}
