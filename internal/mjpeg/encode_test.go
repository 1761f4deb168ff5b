package mjpeg

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/capture"
)

// TestEncodeImage_FullFrame verifies an empty crop keeps the frame size.
func TestEncodeImage_FullFrame(t *testing.T) {
	jpg, err := EncodeImage(capture.NewImage(8, 6), calib.Rect{}, 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpg))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 6 {
		t.Fatalf("expected 8x6, got %dx%d", cfg.Width, cfg.Height)
	}
}

// TestEncodeImage_CropClipped verifies crops are clipped to the frame.
func TestEncodeImage_CropClipped(t *testing.T) {
	jpg, err := EncodeImage(capture.NewImage(8, 6), calib.Rect{X: 4, Y: 2, W: 10, H: 10}, 80)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpg))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Fatalf("expected 4x4, got %dx%d", cfg.Width, cfg.Height)
	}
}

// TestEncodeImage_Rejects verifies invalid frames and off-frame crops fail.
func TestEncodeImage_Rejects(t *testing.T) {
	if _, err := EncodeImage(capture.Image{Width: 2, Height: 2}, calib.Rect{}, 60); err == nil {
		t.Fatalf("expected error for frame without pixels")
	}
	if _, err := EncodeImage(capture.NewImage(4, 4), calib.Rect{X: 10, Y: 10, W: 2, H: 2}, 60); err == nil {
		t.Fatalf("expected error for crop outside the frame")
	}
}
