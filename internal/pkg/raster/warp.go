package raster

import (
	tsraster "github.com/terrascope/raster"

	"github.com/unaigarai/tilerender/internal/pkg/proj"
)

// Warp resamples src into dst band by band, reprojecting when their
// references differ. Destination pixels outside the source coverage keep
// their current value, so repeated warps onto one grid compose.
func Warp(dst, src *Grid) error {
	dstCov, err := proj.Coverage(dst.Extent)
	if err != nil {
		return err
	}
	srcCov, err := proj.Coverage(src.Extent)
	if err != nil {
		return err
	}

	nbands := len(dst.Bands)
	if len(src.Bands) < nbands {
		nbands = len(src.Bands)
	}
	for b := 0; b < nbands; b++ {
		d := &tsraster.Raster{Image: dst.Bands[b], Coverage: dstCov}
		s := &tsraster.Raster{Image: src.Bands[b], Coverage: srcCov}
		d.Warp(s)
	}
	return nil
}
