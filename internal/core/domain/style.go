package domain

import "time"

// Interpolation modes for color stops.
const (
	InterpolationLinear   = "linear"
	InterpolationDiscrete = "discrete"
)

// ColorStop maps a pixel value to an RGBA color. For discrete styles the
// value is the upper bound of its bucket.
type ColorStop struct {
	Value   float64 `json:"value"`
	Red     uint8   `json:"red"`
	Green   uint8   `json:"green"`
	Blue    uint8   `json:"blue"`
	Opacity uint8   `json:"opacity"`
	Label   string  `json:"label,omitempty"`
}

// Style is a named set of color stops applied to band 1 of a rendered tile.
type Style struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Stops         []ColorStop `json:"stops"`
	Interpolation string      `json:"interpolation_type"`
	CreatedAt     time.Time   `json:"created_at"`
}
