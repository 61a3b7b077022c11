package raster

import (
	"github.com/unaigarai/tilerender/internal/core/domain"
)

// Mosaic unions clipped chunks into one seamless grid covering workExtent
// (the margin-expanded selection envelope) at the resolution implied by the
// final width and height, then resamples and clips to the exact target
// envelope. Chunks in a reference other than the target are reprojected by
// the warp. Overlaps resolve deterministically: each chunk's valid pixels
// are merged in the order given, so the last chunk wins; callers pass them
// in ascending id order.
//
// A nil result with a nil error means there was nothing to mosaic; the
// caller falls back to the template raster.
func Mosaic(chunks []Chunk, target, workExtent domain.Envelope, width, height int) (*Grid, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	// Working grid over the expanded envelope at the target resolution, so
	// chunks just outside the exact window still contribute to edge pixels.
	workW := scaleDim(width, target.Width(), workExtent.Width())
	workH := scaleDim(height, target.Height(), workExtent.Height())
	union, err := NewGrid(workExtent, workW, workH, chunks[0].Grid.nodataValues())
	if err != nil {
		return nil, err
	}

	// Each chunk is warped onto its own scratch grid, then only its valid
	// pixels are merged. A later chunk's no-data hole never erases an
	// earlier chunk's data.
	for _, c := range chunks {
		scratch, err := NewGrid(workExtent, workW, workH, c.Grid.nodataValues())
		if err != nil {
			return nil, err
		}
		if err := Warp(scratch, c.Grid); err != nil {
			return nil, err
		}
		compositeInto(union, scratch)
	}

	// Resample to the requested dimensions and clip to the exact envelope,
	// removing the seam-avoidance margin.
	return Clip(union, target, width, height)
}

// Clip resamples src onto a width×height grid covering exactly extent.
func Clip(src *Grid, extent domain.Envelope, width, height int) (*Grid, error) {
	dst, err := NewGrid(extent, width, height, src.nodataValues())
	if err != nil {
		return nil, err
	}
	if err := Warp(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

// scaleDim derives the working-grid dimension keeping the target cell size,
// never smaller than the requested dimension.
func scaleDim(dim int, targetSpan, workSpan float64) int {
	if targetSpan <= 0 {
		return dim
	}
	scaled := int(workSpan/targetSpan*float64(dim) + 0.5)
	if scaled < dim {
		return dim
	}
	return scaled
}
