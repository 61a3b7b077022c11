package encode

import (
	"bytes"
	"image"
	"image/png"
)

// PNG encodes tiles as PNG, the default output format. PNG keeps the alpha
// channel, so no-data pixels stay transparent.
type PNG struct{}

func (PNG) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (PNG) MediaType() string { return "image/png" }
