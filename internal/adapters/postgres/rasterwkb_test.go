package postgres

import (
	"encoding/binary"
	"math"
	"testing"
)

// buildWKB assembles a little-endian single-band PostGIS raster payload.
type wkbBuilder struct {
	buf []byte
}

func (b *wkbBuilder) u8(v byte)     { b.buf = append(b.buf, v) }
func (b *wkbBuilder) u16(v uint16)  { b.buf = binary.LittleEndian.AppendUint16(b.buf, v) }
func (b *wkbBuilder) u32(v uint32)  { b.buf = binary.LittleEndian.AppendUint32(b.buf, v) }
func (b *wkbBuilder) f64(v float64) { b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(v)) }

func (b *wkbBuilder) header(nBands uint16, scaleX, scaleY, ipX, ipY float64, srid int32, w, h uint16) {
	b.u8(1) // little endian
	b.u16(0)
	b.u16(nBands)
	b.f64(scaleX)
	b.f64(scaleY)
	b.f64(ipX)
	b.f64(ipY)
	b.f64(0) // skewX
	b.f64(0) // skewY
	b.u32(uint32(srid))
	b.u16(w)
	b.u16(h)
}

func TestDecodeRasterWKB_8BUI(t *testing.T) {
	var b wkbBuilder
	// 2x2 raster anchored at (100, 200), one unit per cell.
	b.header(1, 1, -1, 100, 200, 4326, 2, 2)
	b.u8(0x44) // 8BUI (4) | hasNodata
	b.u8(255)  // nodata
	b.buf = append(b.buf, 10, 20, 30, 255) // scanline order

	g, err := DecodeRasterWKB(b.buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if g.Width() != 2 || g.Height() != 2 {
		t.Fatalf("dimensions %dx%d, want 2x2", g.Width(), g.Height())
	}
	if g.Extent.SRID != 4326 {
		t.Errorf("SRID = %d", g.Extent.SRID)
	}
	// Extent derived from the geotransform: ip is the upper-left corner.
	if g.Extent.MinX() != 100 || g.Extent.MaxY() != 200 || g.Extent.MaxX() != 102 || g.Extent.MinY() != 198 {
		t.Errorf("extent: %v", g.Extent)
	}

	band := g.Bands[0]
	if band.NoData != 255 {
		t.Errorf("nodata = %g, want 255", band.NoData)
	}
	want := []float32{10, 20, 30, 255}
	for i, v := range want {
		if band.Pix[i] != v {
			t.Errorf("pixel %d = %g, want %g", i, band.Pix[i], v)
		}
	}
	// Min/Max track the valid pixels only.
	if band.Min != 10 || band.Max != 30 {
		t.Errorf("range = [%g, %g], want [10, 30]", band.Min, band.Max)
	}
}

func TestDecodeRasterWKB_32BF(t *testing.T) {
	var b wkbBuilder
	b.header(1, 0.5, -0.5, 0, 1, 3857, 2, 1)
	b.u8(0x49) // 32BF (9) | hasNodata
	b.u32(math.Float32bits(-9999))
	b.u32(math.Float32bits(1.5))
	b.u32(math.Float32bits(-9999))

	g, err := DecodeRasterWKB(b.buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Bands[0].NoData != -9999 {
		t.Errorf("nodata = %g", g.Bands[0].NoData)
	}
	if g.Bands[0].Pix[0] != 1.5 || g.Bands[0].Pix[1] != -9999 {
		t.Errorf("pixels: %v", g.Bands[0].Pix)
	}
}

func TestDecodeRasterWKB_16BSI(t *testing.T) {
	var b wkbBuilder
	b.header(1, 1, -1, 0, 1, 4326, 1, 1)
	b.u8(0x45) // 16BSI (5) | hasNodata
	p0, p1 := int16(-32768), int16(-42)
	b.u16(uint16(p0))
	b.u16(uint16(p1))

	g, err := DecodeRasterWKB(b.buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Bands[0].Pix[0] != -42 {
		t.Errorf("signed pixel = %g, want -42", g.Bands[0].Pix[0])
	}
}

func TestDecodeRasterWKB_Errors(t *testing.T) {
	if _, err := DecodeRasterWKB(nil); err == nil {
		t.Error("empty payload must fail")
	}
	if _, err := DecodeRasterWKB([]byte{7}); err == nil {
		t.Error("bad endianness byte must fail")
	}

	// Truncated mid-header.
	var b wkbBuilder
	b.u8(1)
	b.u16(0)
	b.u16(1)
	if _, err := DecodeRasterWKB(b.buf); err == nil {
		t.Error("truncated header must fail")
	}

	// Offline band.
	b = wkbBuilder{}
	b.header(1, 1, -1, 0, 1, 4326, 1, 1)
	b.u8(0x80 | 0x04)
	if _, err := DecodeRasterWKB(b.buf); err == nil {
		t.Error("offline band must fail")
	}

	// Truncated pixel data.
	b = wkbBuilder{}
	b.header(1, 1, -1, 0, 2, 4326, 2, 2)
	b.u8(0x44)
	b.u8(0)
	b.u8(1) // only 1 of 4 pixels
	if _, err := DecodeRasterWKB(b.buf); err == nil {
		t.Error("truncated pixels must fail")
	}
}

func TestDecodeRasterWKB_SkewRejected(t *testing.T) {
	var b wkbBuilder
	b.u8(1)
	b.u16(0)
	b.u16(1)
	b.f64(1)
	b.f64(-1)
	b.f64(0)
	b.f64(0)
	b.f64(0.5) // skewX
	b.f64(0)
	b.u32(4326)
	b.u16(1)
	b.u16(1)

	if _, err := DecodeRasterWKB(b.buf); err == nil {
		t.Error("rotated raster must be rejected")
	}
}

func TestDecodeRasterWKB_NoNodataFlagDefaultsZero(t *testing.T) {
	var b wkbBuilder
	b.header(1, 1, -1, 0, 1, 4326, 1, 1)
	b.u8(0x04) // 8BUI, no hasNodata flag
	b.u8(77)   // nodata slot, ignored
	b.u8(9)

	g, err := DecodeRasterWKB(b.buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Bands[0].NoData != 0 {
		t.Errorf("nodata = %g, want 0 when flag unset", g.Bands[0].NoData)
	}
	if g.Bands[0].Pix[0] != 9 {
		t.Errorf("pixel = %g", g.Bands[0].Pix[0])
	}
}
