package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/terrascope/geometry"
)

// Envelope is an axis-aligned rectangle in the coordinate system identified
// by SRID. It is the unit of spatial selection throughout the tile pipeline.
type Envelope struct {
	Box  geometry.BoundingBox `json:"box"`
	SRID int                  `json:"srid"`
}

// NewEnvelope builds an Envelope from corner coordinates.
func NewEnvelope(minX, minY, maxX, maxY float64, srid int) Envelope {
	return Envelope{Box: geometry.BBox(minX, minY, maxX, maxY), SRID: srid}
}

// ParseBBox decodes a "minX,minY,maxX,maxY" literal into an Envelope.
// It fails with ErrBBoxParse when the literal does not contain exactly four
// finite numbers, and with ErrBBoxInverted when min exceeds max on either
// axis. A zero-area envelope is accepted; it renders as an all-no-data tile.
func ParseBBox(bbox string, srid int) (Envelope, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return Envelope{}, fmt.Errorf("%w: want 4 coordinates, got %d", ErrBBoxParse, len(parts))
	}

	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: coordinate %d: %q", ErrBBoxParse, i+1, p)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Envelope{}, fmt.Errorf("%w: coordinate %d is not finite", ErrBBoxParse, i+1)
		}
		coords[i] = v
	}

	if coords[0] > coords[2] || coords[1] > coords[3] {
		return Envelope{}, fmt.Errorf("%w: %s", ErrBBoxInverted, bbox)
	}
	return NewEnvelope(coords[0], coords[1], coords[2], coords[3], srid), nil
}

func (e Envelope) MinX() float64 { return e.Box.Min.X }
func (e Envelope) MinY() float64 { return e.Box.Min.Y }
func (e Envelope) MaxX() float64 { return e.Box.Max.X }
func (e Envelope) MaxY() float64 { return e.Box.Max.Y }

// Expand returns the envelope grown by margin units on all sides. The
// expanded envelope is used only for chunk selection, never exposed.
func (e Envelope) Expand(margin float64) Envelope {
	return NewEnvelope(
		e.MinX()-margin,
		e.MinY()-margin,
		e.MaxX()+margin,
		e.MaxY()+margin,
		e.SRID,
	)
}

// Width returns the horizontal extent in reference units.
func (e Envelope) Width() float64 { return e.MaxX() - e.MinX() }

// Height returns the vertical extent in reference units.
func (e Envelope) Height() float64 { return e.MaxY() - e.MinY() }

// IsDegenerate reports whether the envelope has zero area.
func (e Envelope) IsDegenerate() bool {
	return e.Width() <= 0 || e.Height() <= 0
}

// Intersects reports whether two envelopes overlap. SRIDs are not compared;
// callers must transform first.
func (e Envelope) Intersects(o Envelope) bool {
	return e.MinX() <= o.MaxX() && o.MinX() <= e.MaxX() &&
		e.MinY() <= o.MaxY() && o.MinY() <= e.MaxY()
}

// Intersection returns the overlapping region of two envelopes. The second
// return value is false when they do not overlap.
func (e Envelope) Intersection(o Envelope) (Envelope, bool) {
	if !e.Intersects(o) {
		return Envelope{}, false
	}
	return NewEnvelope(
		math.Max(e.MinX(), o.MinX()),
		math.Max(e.MinY(), o.MinY()),
		math.Min(e.MaxX(), o.MaxX()),
		math.Min(e.MaxY(), o.MaxY()),
		e.SRID,
	), true
}

func (e Envelope) String() string {
	return fmt.Sprintf("SRID=%d;BOX(%g %g,%g %g)", e.SRID, e.MinX(), e.MinY(), e.MaxX(), e.MaxY())
}
