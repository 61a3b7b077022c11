// Package raster implements the in-memory grid model and the raster
// primitives of the tile pipeline: warping, mosaicking, compositing, and
// color mapping. All grids are north-up and axis-aligned; row 0 is the top
// of the extent.
package raster

import (
	"fmt"
	"image"

	"github.com/terrascope/scimage"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// Grid is an in-memory raster: a georeferenced extent divided into cells,
// with one scimage plane per band. Values are stored as float32 regardless
// of the stored pixel type, with each plane's NoData sentinel excluded from
// merges.
type Grid struct {
	Extent domain.Envelope
	Bands  []*scimage.GrayF32
}

// Chunk is one stored raster read from the chunk store, identified by its
// primary key so merge order is reproducible.
type Chunk struct {
	ID   int64
	Grid *Grid
}

// NewGrid allocates a grid with every cell of every band set to that band's
// no-data value, one band per nodata entry. This is the template raster of
// the pipeline: the fallback output when no chunk intersects the request.
func NewGrid(extent domain.Envelope, width, height int, nodata []float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if len(nodata) == 0 {
		return nil, fmt.Errorf("grid needs at least one band")
	}

	g := &Grid{Extent: extent, Bands: make([]*scimage.GrayF32, len(nodata))}
	for b, nd := range nodata {
		pix := make([]float32, width*height)
		if nd != 0 {
			for i := range pix {
				pix[i] = float32(nd)
			}
		}
		g.Bands[b] = &scimage.GrayF32{
			Pix:    pix,
			Stride: width,
			Rect:   image.Rect(0, 0, width, height),
			NoData: float32(nd),
		}
	}
	return g, nil
}

// Width returns the horizontal cell count.
func (g *Grid) Width() int { return g.Bands[0].Rect.Dx() }

// Height returns the vertical cell count.
func (g *Grid) Height() int { return g.Bands[0].Rect.Dy() }

// NoData returns the sentinel of band b.
func (g *Grid) NoData(b int) float64 { return float64(g.Bands[b].NoData) }

// At returns the value of band b at pixel (x, y). Out-of-range coordinates
// return the band's no-data value.
func (g *Grid) At(b, x, y int) float64 {
	band := g.Bands[b]
	if x < 0 || y < 0 || x >= band.Rect.Dx() || y >= band.Rect.Dy() {
		return float64(band.NoData)
	}
	return float64(band.Pix[y*band.Stride+x])
}

// Set writes the value of band b at pixel (x, y). Writes outside the grid
// are dropped.
func (g *Grid) Set(b, x, y int, v float64) {
	band := g.Bands[b]
	if x < 0 || y < 0 || x >= band.Rect.Dx() || y >= band.Rect.Dy() {
		return
	}
	band.Pix[y*band.Stride+x] = float32(v)
}

// IsNoData reports whether the value of band b at (x, y) is the sentinel.
func (g *Grid) IsNoData(b, x, y int) bool {
	return g.At(b, x, y) == g.NoData(b)
}

// nodataValues returns the per-band sentinels, the band layout of a grid
// derived from this one.
func (g *Grid) nodataValues() []float64 {
	out := make([]float64, len(g.Bands))
	for b := range g.Bands {
		out[b] = g.NoData(b)
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Extent: g.Extent, Bands: make([]*scimage.GrayF32, len(g.Bands))}
	for b, band := range g.Bands {
		pix := make([]float32, len(band.Pix))
		copy(pix, band.Pix)
		out.Bands[b] = &scimage.GrayF32{
			Pix:    pix,
			Stride: band.Stride,
			Rect:   band.Rect,
			Min:    band.Min,
			Max:    band.Max,
			NoData: band.NoData,
		}
	}
	return out
}
