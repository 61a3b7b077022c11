package proj

import (
	"fmt"
	"math"

	"github.com/terrascope/geometry"
	"github.com/terrascope/proj4go"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// proj4 definitions for the references the service accepts. Anything not
// listed here is rejected with domain.ErrUnknownSRID before any data is
// touched.
var proj4BySRID = map[int]string{
	// WGS84 geographic
	4326: "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs",
	// Web mercator
	3857: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs",
	// GDA94 geographic
	4283: "+proj=longlat +ellps=GRS80 +no_defs",
	// GDA94 / Australian Albers
	3577: "+proj=aea +lat_1=-18 +lat_2=-36 +lat_0=0 +lon_0=132 +x_0=0 +y_0=0 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	// CH1903+ / LV95
	2056: "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs",
}

// Proj4 returns the proj4 definition registered for an EPSG code, or
// domain.ErrUnknownSRID when none is.
func Proj4(srid int) (string, error) {
	p4, ok := proj4BySRID[srid]
	if !ok {
		return "", fmt.Errorf("%w: EPSG:%d", domain.ErrUnknownSRID, srid)
	}
	return p4, nil
}

// Coverage expresses an envelope as a proj4go coverage.
func Coverage(env domain.Envelope) (proj4go.Coverage, error) {
	p4, err := Proj4(env.SRID)
	if err != nil {
		return proj4go.Coverage{}, err
	}
	return proj4go.Coverage{BoundingBox: env.Box, Proj4: p4}, nil
}

// TransformEnvelope converts an envelope between references.
func TransformEnvelope(env domain.Envelope, toSRID int) (domain.Envelope, error) {
	if env.SRID == toSRID {
		return env, nil
	}
	cov, err := Coverage(env)
	if err != nil {
		return domain.Envelope{}, err
	}
	p4, err := Proj4(toSRID)
	if err != nil {
		return domain.Envelope{}, err
	}
	out, err := cov.Transform(p4)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("transform EPSG:%d to EPSG:%d: %w", env.SRID, toSRID, err)
	}
	return domain.Envelope{Box: out.BoundingBox, SRID: toSRID}, nil
}

// TileEnvelope returns the render envelope of a slippy-map tile: the z/x/y
// bounds in WGS84 forwarded into web mercator.
func TileEnvelope(z, x, y int) domain.Envelope {
	n := math.Pow(2, float64(z))
	minLon := float64(x)/n*360.0 - 180.0
	maxLon := float64(x+1)/n*360.0 - 180.0
	minLat := math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y+1)/n))) * 180.0 / math.Pi
	maxLat := math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y)/n))) * 180.0 / math.Pi

	pts := []geometry.Point{{X: minLon, Y: minLat}, {X: maxLon, Y: maxLat}}
	proj4go.Forwards(proj4BySRID[3857], pts)

	return domain.Envelope{Box: geometry.BBox(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y), SRID: 3857}
}
