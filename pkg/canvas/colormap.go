package canvas

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/mhelland/seqheat/pkg/errors"
)

// Colormap maps normalized values in [0, 1] to colors by linear
// interpolation between a list of stops.
type Colormap struct {
	Name  string
	stops []color.RGBA
}

// At returns the color for a normalized value t. Values outside [0, 1] are
// clamped; NaN maps to black.
func (c Colormap) At(t float64) color.RGBA {
	n := len(c.stops)
	if n == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(t) {
		return color.RGBA{A: 255}
	}
	if t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[n-1]
	}

	idx := t * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		upper = n - 1
	}
	frac := idx - float64(lower)
	return lerpRGBA(c.stops[lower], c.stops[upper], frac)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}

// Viridis is the matplotlib viridis colormap (subsampled stops).
var Viridis = Colormap{Name: "viridis", stops: []color.RGBA{
	{68, 1, 84, 255},
	{72, 35, 116, 255},
	{64, 67, 135, 255},
	{52, 94, 141, 255},
	{41, 120, 142, 255},
	{32, 144, 140, 255},
	{34, 167, 132, 255},
	{68, 190, 112, 255},
	{121, 209, 81, 255},
	{189, 222, 38, 255},
	{253, 231, 36, 255},
}}

// Inferno is the matplotlib inferno colormap (subsampled stops).
var Inferno = Colormap{Name: "inferno", stops: []color.RGBA{
	{0, 0, 3, 255},
	{31, 12, 72, 255},
	{85, 15, 109, 255},
	{136, 34, 106, 255},
	{186, 54, 85, 255},
	{227, 89, 51, 255},
	{249, 140, 10, 255},
	{249, 201, 50, 255},
	{252, 254, 164, 255},
}}

// Gray is a simple black-to-white ramp.
var Gray = Colormap{Name: "gray", stops: []color.RGBA{
	{0, 0, 0, 255},
	{255, 255, 255, 255},
}}

// DefaultColormap is used when the caller does not pick one.
var DefaultColormap = Viridis

var colormaps = map[string]Colormap{
	"viridis": Viridis,
	"inferno": Inferno,
	"gray":    Gray,
}

// ColormapByName resolves a colormap by name. The empty string resolves to
// DefaultColormap; unknown names fail listing the valid choices.
func ColormapByName(name string) (Colormap, error) {
	if name == "" {
		return DefaultColormap, nil
	}
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(colormaps))
		for n := range colormaps {
			names = append(names, n)
		}
		sort.Strings(names)
		return Colormap{}, errors.New(errors.ErrCodeInvalidColormap,
			"unknown colormap %q, valid choices: %s", name, strings.Join(names, ", "))
	}
	return cm, nil
}
