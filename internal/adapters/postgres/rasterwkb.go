package postgres

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/terrascope/scimage"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/pkg/raster"
)

// PostGIS raster binary format, as produced by ST_AsBinary(rast):
//
//	byte    endianness (0 = big, 1 = little)
//	uint16  version (always 0)
//	uint16  number of bands
//	float64 scaleX, scaleY, ipX, ipY, skewX, skewY
//	int32   srid
//	uint16  width, height
//
// followed by each band: one flag byte (low nibble = pixel type, 0x40 =
// has-nodata, 0x80 = offline), a nodata value in the pixel type's width, and
// width*height pixels in scanline order starting at the upper-left corner.

const (
	bandIsOffline  = 0x80
	bandHasNoData  = 0x40
	bandPixTypeMsk = 0x0F
)

var wkbPixelTypes = map[byte]raster.PixelType{
	3:  raster.PT8BSI,
	4:  raster.PT8BUI,
	5:  raster.PT16BSI,
	6:  raster.PT16BUI,
	7:  raster.PT32BSI,
	8:  raster.PT32BUI,
	9:  raster.PT32BF,
	10: raster.PT64BF,
}

type wkbReader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (r *wkbReader) remaining() int { return len(r.buf) - r.pos }

func (r *wkbReader) byte() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("raster wkb: truncated at offset %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *wkbReader) uint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("raster wkb: truncated at offset %d", r.pos)
	}
	v := r.order.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *wkbReader) uint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("raster wkb: truncated at offset %d", r.pos)
	}
	v := r.order.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *wkbReader) uint64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, fmt.Errorf("raster wkb: truncated at offset %d", r.pos)
	}
	v := r.order.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *wkbReader) float64() (float64, error) {
	v, err := r.uint64()
	return math.Float64frombits(v), err
}

// pixel reads one value of the given type and widens it to float64.
func (r *wkbReader) pixel(pt raster.PixelType) (float64, error) {
	switch pt {
	case raster.PT8BSI:
		b, err := r.byte()
		return float64(int8(b)), err
	case raster.PT8BUI:
		b, err := r.byte()
		return float64(b), err
	case raster.PT16BSI:
		v, err := r.uint16()
		return float64(int16(v)), err
	case raster.PT16BUI:
		v, err := r.uint16()
		return float64(v), err
	case raster.PT32BSI:
		v, err := r.uint32()
		return float64(int32(v)), err
	case raster.PT32BUI:
		v, err := r.uint32()
		return float64(v), err
	case raster.PT32BF:
		v, err := r.uint32()
		return float64(math.Float32frombits(v)), err
	case raster.PT64BF:
		return r.float64()
	default:
		return 0, fmt.Errorf("raster wkb: unsupported pixel type %q", pt)
	}
}

// DecodeRasterWKB parses a PostGIS raster from its well-known binary form
// into an in-memory grid. Offline (out-of-db) bands and skewed geotransforms
// are rejected; the pipeline only works with axis-aligned in-db tiles.
func DecodeRasterWKB(data []byte) (*raster.Grid, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("raster wkb: empty payload")
	}
	r := &wkbReader{buf: data}
	switch data[0] {
	case 0:
		r.order = binary.BigEndian
	case 1:
		r.order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("raster wkb: invalid endianness byte %#x", data[0])
	}
	r.pos = 1

	version, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, fmt.Errorf("raster wkb: unsupported version %d", version)
	}
	nBands, err := r.uint16()
	if err != nil {
		return nil, err
	}

	var scaleX, scaleY, ipX, ipY, skewX, skewY float64
	for _, dst := range []*float64{&scaleX, &scaleY, &ipX, &ipY, &skewX, &skewY} {
		if *dst, err = r.float64(); err != nil {
			return nil, err
		}
	}
	if skewX != 0 || skewY != 0 {
		return nil, fmt.Errorf("raster wkb: rotated rasters are not supported (skew %g,%g)", skewX, skewY)
	}
	if scaleX <= 0 || scaleY >= 0 {
		return nil, fmt.Errorf("raster wkb: unexpected scale %g,%g (want +x, -y)", scaleX, scaleY)
	}

	sridU, err := r.uint32()
	if err != nil {
		return nil, err
	}
	width, err := r.uint16()
	if err != nil {
		return nil, err
	}
	height, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("raster wkb: zero-sized raster %dx%d", width, height)
	}

	extent := domain.NewEnvelope(
		ipX,
		ipY+float64(height)*scaleY,
		ipX+float64(width)*scaleX,
		ipY,
		int(int32(sridU)),
	)

	g := &raster.Grid{
		Extent: extent,
		Bands:  make([]*scimage.GrayF32, 0, nBands),
	}

	for b := 0; b < int(nBands); b++ {
		flags, err := r.byte()
		if err != nil {
			return nil, err
		}
		if flags&bandIsOffline != 0 {
			return nil, fmt.Errorf("raster wkb: band %d is offline", b+1)
		}
		pt, ok := wkbPixelTypes[flags&bandPixTypeMsk]
		if !ok {
			return nil, fmt.Errorf("raster wkb: band %d has unknown pixel type %d", b+1, flags&bandPixTypeMsk)
		}
		nodata, err := r.pixel(pt)
		if err != nil {
			return nil, err
		}
		if flags&bandHasNoData == 0 {
			nodata = 0
		}

		img := &scimage.GrayF32{
			Pix:    make([]float32, int(width)*int(height)),
			Stride: int(width),
			Rect:   image.Rect(0, 0, int(width), int(height)),
			NoData: float32(nodata),
		}
		// Min/Max carry the observed value range of the band's valid pixels.
		seen := false
		for i := range img.Pix {
			v, err := r.pixel(pt)
			if err != nil {
				return nil, err
			}
			px := float32(v)
			img.Pix[i] = px
			if px != img.NoData {
				if !seen || px < img.Min {
					img.Min = px
				}
				if !seen || px > img.Max {
					img.Max = px
				}
				seen = true
			}
		}
		g.Bands = append(g.Bands, img)
	}
	return g, nil
}
