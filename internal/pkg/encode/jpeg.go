package encode

import (
	"bytes"
	"image"
	"image/jpeg"
)

const jpegQuality = 85

// JPEG encodes tiles as JPEG. JPEG has no alpha channel; no-data pixels
// composite onto black.
type JPEG struct{}

func (JPEG) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (JPEG) MediaType() string { return "image/jpeg" }
