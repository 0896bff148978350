// Package thumbnail scales face crops to a bounded JPEG.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Quality is the JPEG quality used for all thumbnails.
const Quality = 85

// ErrInvalidSize is returned for a non-positive maximum size.
var ErrInvalidSize = errors.New("thumbnail size must be positive")

// Resize decodes an image and re-encodes it as JPEG fitting within
// maxSize x maxSize. Smaller images keep their dimensions.
func Resize(data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidSize
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var out image.Image = img
	if width > maxSize || height > maxSize {
		newWidth, newHeight := fit(width, height, maxSize)
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(width, height, maxSize int) (int, int) {
	if width > height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}

// ResizeBase64 is Resize for base64-encoded payloads.
func ResizeBase64(encoded string, maxSize int) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	out, err := Resize(data, maxSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}
