package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

func TestForFormat(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{"image/png", "image/png"},
		{"image/jpeg", "image/jpeg"},
		{"IMAGE/JPEG", "image/jpeg"},
		{"Image/Jpeg", "image/jpeg"},
		{" image/jpeg ", "image/jpeg"},
		{"", "image/png"},
		{"image/webp", "image/png"},
		{"garbage", "image/png"},
	}
	for _, tc := range cases {
		if got := ForFormat(tc.format).MediaType(); got != tc.want {
			t.Errorf("ForFormat(%q) = %s, want %s", tc.format, got, tc.want)
		}
	}
}

func TestPNG_Encode(t *testing.T) {
	data, err := PNG{}.Encode(testImage())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("missing PNG signature: % x", data[:8])
	}
}

func TestPNG_PreservesTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	// (1,0) fully transparent

	data, err := PNG{}.Encode(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, _, _, a := decoded.At(1, 0).RGBA()
	if a != 0 {
		t.Errorf("transparent pixel alpha = %d, want 0", a)
	}
}

func TestJPEG_Encode(t *testing.T) {
	data, err := JPEG{}.Encode(testImage())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, jpegMagic) {
		t.Errorf("missing JPEG signature: % x", data[:3])
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := PNG{}.Encode(testImage())
	if err != nil {
		t.Fatal(err)
	}
	b, err := PNG{}.Encode(testImage())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical images must encode to identical bytes")
	}
}
