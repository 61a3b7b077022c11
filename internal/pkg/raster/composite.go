package raster

import "fmt"

// Composite merges mosaic over template pixel by pixel: where the mosaic has
// a valid value it wins, elsewhere the template's no-data shows through. A
// nil mosaic returns the template unchanged. Both grids must have identical
// dimensions, so the result always has exactly the requested size.
func Composite(template, mosaic *Grid) (*Grid, error) {
	if mosaic == nil {
		return template, nil
	}
	if template.Width() != mosaic.Width() || template.Height() != mosaic.Height() {
		return nil, fmt.Errorf("composite dimension mismatch: template %dx%d, mosaic %dx%d",
			template.Width(), template.Height(), mosaic.Width(), mosaic.Height())
	}

	out := template.Clone()
	compositeInto(out, mosaic)
	return out, nil
}

// compositeInto writes src's valid pixels over dst in place. Bands beyond
// the shorter grid are left alone.
func compositeInto(dst, src *Grid) {
	nbands := len(dst.Bands)
	if len(src.Bands) < nbands {
		nbands = len(src.Bands)
	}
	for b := 0; b < nbands; b++ {
		s := src.Bands[b]
		d := dst.Bands[b].Pix
		for i, v := range s.Pix {
			if v != s.NoData {
				d[i] = v
			}
		}
	}
}
