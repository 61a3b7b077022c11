// Package encode turns rendered images into the bytes served to clients.
package encode

import (
	"image"
	"strings"
)

// Encoder encodes an image into the output byte stream of one tile.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)

	// MediaType returns the Content-Type of the encoded bytes.
	MediaType() string
}

// ForFormat selects the encoder for a requested format string. The match is
// case-insensitive and only "image/jpeg" selects JPEG; every other value,
// including empty and unrecognized strings, degrades to the PNG default.
// Format selection never fails.
func ForFormat(format string) Encoder {
	if strings.EqualFold(strings.TrimSpace(format), "image/jpeg") {
		return JPEG{}
	}
	return PNG{}
}
