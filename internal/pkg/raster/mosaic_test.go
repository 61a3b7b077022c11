package raster

import (
	"testing"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// constGrid builds a single-band grid with every cell set to v.
func constGrid(t *testing.T, extent domain.Envelope, w, h int, nodata, v float64) *Grid {
	t.Helper()
	g, err := NewGrid(extent, w, h, []float64{nodata})
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Bands[0].Pix {
		g.Bands[0].Pix[i] = float32(v)
	}
	return g
}

func TestWarp_SameReference(t *testing.T) {
	src := constGrid(t, domain.NewEnvelope(0, 0, 10, 10, 4326), 10, 10, -1, 5)
	dst, _ := NewGrid(domain.NewEnvelope(2, 2, 8, 8, 4326), 6, 6, []float64{-1})

	if err := Warp(dst, src); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst.Bands[0].Pix {
		if v != 5 {
			t.Fatalf("pixel %d = %g, want 5", i, v)
		}
	}
}

func TestWarp_OutsideSourceStaysNoData(t *testing.T) {
	src := constGrid(t, domain.NewEnvelope(0, 0, 5, 5, 4326), 5, 5, -1, 9)
	// Destination extends east of the source; that half must stay no-data.
	dst, _ := NewGrid(domain.NewEnvelope(0, 0, 10, 5, 4326), 10, 5, []float64{-1})

	if err := Warp(dst, src); err != nil {
		t.Fatal(err)
	}
	if dst.At(0, 0, 0) != 9 {
		t.Errorf("covered pixel = %g, want 9", dst.At(0, 0, 0))
	}
	if dst.At(0, 9, 0) != -1 {
		t.Errorf("uncovered pixel = %g, want no-data", dst.At(0, 9, 0))
	}
}

func TestWarp_CrossReference(t *testing.T) {
	// Uniform geographic source resampled into a mercator window well inside
	// its footprint must come out uniform too.
	src := constGrid(t, domain.NewEnvelope(-180, -85, 180, 85, 4326), 64, 64, -1, 5)
	dst, _ := NewGrid(domain.NewEnvelope(-1e6, -1e6, 1e6, 1e6, 3857), 8, 8, []float64{-1})

	if err := Warp(dst, src); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst.Bands[0].Pix {
		if v != 5 {
			t.Fatalf("pixel %d = %g, want 5", i, v)
		}
	}
}

func TestWarp_UnknownReference(t *testing.T) {
	src := constGrid(t, domain.NewEnvelope(0, 0, 4, 4, 99999), 4, 4, -1, 1)
	dst, _ := NewGrid(domain.NewEnvelope(0, 0, 4, 4, 4326), 4, 4, []float64{-1})
	if err := Warp(dst, src); err == nil {
		t.Error("unknown source reference must fail")
	}
}

func TestMosaic_Empty(t *testing.T) {
	target := domain.NewEnvelope(0, 0, 10, 10, 4326)
	g, err := Mosaic(nil, target, target.Expand(1), 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if g != nil {
		t.Error("empty chunk list must yield a nil mosaic")
	}
}

func TestMosaic_SingleCoveringChunk(t *testing.T) {
	target := domain.NewEnvelope(0, 0, 10, 10, 4326)
	chunk := constGrid(t, target.Expand(5), 40, 40, -1, 5)

	out, err := Mosaic([]Chunk{{ID: 1, Grid: chunk}}, target, target.Expand(1), 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 16 || out.Height() != 16 {
		t.Fatalf("mosaic is %dx%d, want 16x16", out.Width(), out.Height())
	}
	if out.Extent != target {
		t.Fatalf("mosaic extent %v, want exact target", out.Extent)
	}
	for i, v := range out.Bands[0].Pix {
		if v != 5 {
			t.Fatalf("pixel %d = %g, want uniform 5", i, v)
		}
	}
}

func TestMosaic_OverlapLastWins(t *testing.T) {
	target := domain.NewEnvelope(0, 0, 8, 8, 4326)
	work := target.Expand(0.5)

	// Two chunks covering the same area with different values; higher id
	// painted second.
	a := constGrid(t, target.Expand(2), 16, 16, -1, 1)
	b := constGrid(t, target.Expand(2), 16, 16, -1, 2)

	out, err := Mosaic([]Chunk{{ID: 1, Grid: a}, {ID: 2, Grid: b}}, target, work, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Bands[0].Pix {
		if v != 2 {
			t.Fatalf("pixel %d = %g, want 2 (last chunk wins)", i, v)
		}
	}
}

func TestMosaic_NoDataHoleKeepsEarlierChunk(t *testing.T) {
	target := domain.NewEnvelope(0, 0, 8, 8, 4326)
	work := target.Expand(0.5)

	// The second chunk is entirely no-data; its hole must not erase the
	// first chunk's pixels.
	a := constGrid(t, target.Expand(2), 16, 16, -1, 3)
	b, _ := NewGrid(target.Expand(2), 16, 16, []float64{-1})

	out, err := Mosaic([]Chunk{{ID: 1, Grid: a}, {ID: 2, Grid: b}}, target, work, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Bands[0].Pix {
		if v != 3 {
			t.Fatalf("pixel %d = %g, want 3", i, v)
		}
	}
}

func TestMosaic_PartialCoverage(t *testing.T) {
	target := domain.NewEnvelope(0, 0, 10, 10, 4326)
	// Chunk covers only the western half.
	west := constGrid(t, domain.NewEnvelope(0, 0, 5, 10, 4326), 10, 20, -1, 7)

	out, err := Mosaic([]Chunk{{ID: 1, Grid: west}}, target, target, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 1, 5) != 7 {
		t.Errorf("west pixel = %g, want 7", out.At(0, 1, 5))
	}
	if out.At(0, 8, 5) != -1 {
		t.Errorf("east pixel = %g, want no-data", out.At(0, 8, 5))
	}
}

func TestComposite_NilMosaic(t *testing.T) {
	template, _ := NewGrid(testExtent(), 4, 4, []float64{0})
	out, err := Composite(template, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != template {
		t.Error("nil mosaic must return the template as-is")
	}
}

func TestComposite_MosaicWins(t *testing.T) {
	extent := testExtent()
	template, _ := NewGrid(extent, 2, 2, []float64{-1})
	mosaic, _ := NewGrid(extent, 2, 2, []float64{-1})
	mosaic.Set(0, 0, 0, 42)

	out, err := Composite(template, mosaic)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0, 0) != 42 {
		t.Errorf("valid mosaic pixel must win: %g", out.At(0, 0, 0))
	}
	if out.At(0, 1, 1) != -1 {
		t.Errorf("no-data mosaic pixel must keep the template: %g", out.At(0, 1, 1))
	}
	// Template must not be mutated.
	if template.At(0, 0, 0) != -1 {
		t.Error("Composite mutated the template")
	}
}

func TestComposite_DimensionMismatch(t *testing.T) {
	a, _ := NewGrid(testExtent(), 2, 2, []float64{0})
	b, _ := NewGrid(testExtent(), 3, 3, []float64{0})
	if _, err := Composite(a, b); err == nil {
		t.Error("dimension mismatch must fail")
	}
}
