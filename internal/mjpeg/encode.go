package mjpeg

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"github.com/frudas24/deskinput/internal/calib"
	"github.com/frudas24/deskinput/internal/capture"
)

const defaultQuality = 60

var errEmptyFrame = errors.New("empty frame")

// EncodeImage encodes img as JPEG, cropped to crop when it is non-empty.
// The crop is clipped to the frame.
func EncodeImage(img capture.Image, crop calib.Rect, quality int) ([]byte, error) {
	if !img.Valid() {
		return nil, errEmptyFrame
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	var src image.Image = img.RGBA()
	if r := cropBounds(img.Width, img.Height, crop); r != src.Bounds() {
		if r.Empty() {
			return nil, errEmptyFrame
		}
		src = img.RGBA().SubImage(r)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cropBounds clips crop to a w x h frame. An empty crop selects the whole frame.
func cropBounds(w, h int, crop calib.Rect) image.Rectangle {
	full := image.Rect(0, 0, w, h)
	crop = calib.Normalize(crop)
	if crop.W <= 0 || crop.H <= 0 {
		return full
	}
	return image.Rect(crop.X, crop.Y, crop.X+crop.W, crop.Y+crop.H).Intersect(full)
}
