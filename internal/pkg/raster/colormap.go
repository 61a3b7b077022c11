package raster

import (
	"image"
	"image/color"
	"sort"

	"github.com/terrascope/scimage/scicolor"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// defaultRampColors are the control colors of the built-in gradient: blue
// through white to red, so low and high values stay readable on both dark
// and light maps.
var defaultRampColors = []color.NRGBA{
	{B: 255, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 255, A: 255},
}

// DefaultGradient returns the built-in blue-to-red ramp over [min, max],
// applied when a layer has no style of its own. The ramp colors come from a
// gradient palette built over the control colors; the first, middle, and
// last palette entries anchor the stops.
func DefaultGradient(min, max float64) []domain.ColorStop {
	if max <= min {
		min, max = 0, 255
	}

	pal := scicolor.GradientNRGBAPalette(defaultRampColors)
	idx := []int{0, (len(pal) - 1) / 2, len(pal) - 1}
	values := []float64{min, min + (max-min)/2, max}

	stops := make([]domain.ColorStop, len(idx))
	for i, pi := range idx {
		c := color.NRGBAModel.Convert(pal[pi]).(color.NRGBA)
		stops[i] = domain.ColorStop{Value: values[i], Red: c.R, Green: c.G, Blue: c.B, Opacity: c.A}
	}
	return stops
}

// ColorMap renders band 1 of the grid through the given color stops into an
// RGBA image. No-data cells come out fully transparent. The interpolation
// argument selects linear gradients or discrete buckets; anything other than
// "discrete" means linear. Stops are sorted by value before use; an empty
// stop list falls back to the default gradient over 0–255.
func ColorMap(g *Grid, stops []domain.ColorStop, interpolation string) *image.NRGBA {
	if len(stops) == 0 {
		stops = DefaultGradient(0, 255)
	}
	sorted := make([]domain.ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	discrete := interpolation == domain.InterpolationDiscrete
	band := g.Bands[0]
	width, height := g.Width(), g.Height()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := band.Pix[y*band.Stride+x]
			if v == band.NoData {
				continue // zero value is already transparent
			}
			var c color.NRGBA
			if discrete {
				c = colorDiscrete(float64(v), sorted)
			} else {
				c = colorLinear(float64(v), sorted)
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// colorDiscrete returns the color of the first bucket whose upper bound is
// at or above v, clamping to the last bucket beyond the range.
func colorDiscrete(v float64, stops []domain.ColorStop) color.NRGBA {
	for _, s := range stops {
		if v <= s.Value {
			return stopColor(s)
		}
	}
	return stopColor(stops[len(stops)-1])
}

// colorLinear interpolates between the two stops surrounding v, clamping to
// the end colors outside the range.
func colorLinear(v float64, stops []domain.ColorStop) color.NRGBA {
	if v <= stops[0].Value {
		return stopColor(stops[0])
	}
	last := stops[len(stops)-1]
	if v >= last.Value {
		return stopColor(last)
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if v > hi.Value {
			continue
		}
		span := hi.Value - lo.Value
		if span <= 0 {
			return stopColor(hi)
		}
		t := (v - lo.Value) / span
		return color.NRGBA{
			R: lerp(lo.Red, hi.Red, t),
			G: lerp(lo.Green, hi.Green, t),
			B: lerp(lo.Blue, hi.Blue, t),
			A: lerp(lo.Opacity, hi.Opacity, t),
		}
	}
	return stopColor(last)
}

func stopColor(s domain.ColorStop) color.NRGBA {
	return color.NRGBA{R: s.Red, G: s.Green, B: s.Blue, A: s.Opacity}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
}
