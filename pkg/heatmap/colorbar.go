package heatmap

import (
	"image/color"
	"sort"

	"github.com/mhelland/seqheat/pkg/canvas"
)

// Axis selects the orientation of a color bar.
type Axis int

const (
	// AxisX draws a horizontal strip segmented along the sample axis.
	AxisX Axis = iota
	// AxisY draws a vertical strip segmented along the feature axis.
	AxisY
)

// BarOption configures a single color bar.
type BarOption func(*barConfig)

type barConfig struct {
	palette []color.Color
	labels  bool
}

// WithBarPalette overrides the qualitative palette segments cycle through.
func WithBarPalette(palette []color.Color) BarOption {
	return func(c *barConfig) { c.palette = palette }
}

// WithoutBarLabels suppresses the text label on each segment.
func WithoutBarLabels() BarOption {
	return func(c *barConfig) { c.labels = false }
}

// ColorBar draws one categorical strip: one filled rectangle per run of
// equal values, labeled with the value at the segment center. The
// empty-string sentinel marks positions that get no segment at all.
//
// The strip is placed at the given cross-axis position with the given
// thickness, both in bar units; the along-axis coordinates are shared with
// the heatmap cells so segments line up with the columns (or rows) they
// describe.
//
// Colors are assigned to the sorted unique values, cycling the palette
// when there are more values than colors. Values that only differ in color
// assignment after cycling stay distinguishable through their labels.
func ColorBar(surf Surface, values []string, width, position float64, axis Axis, opts ...BarOption) error {
	cfg := barConfig{labels: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.palette) == 0 {
		cfg.palette = defaultPalette()
	}

	seq := make([]any, len(values))
	for i, v := range values {
		seq[i] = v
	}
	transitions, err := TransitionIndex(seq)
	if err != nil {
		return err
	}

	colors := assignColors(values, cfg.palette)
	prev := 0
	for _, t := range transitions {
		v := t.Value.(string)
		if v == "" {
			prev = t.End
			continue
		}
		start := float64(prev) - 0.5
		length := float64(t.End - prev)
		center := (float64(prev)+float64(t.End))/2 - 0.5
		switch axis {
		case AxisY:
			surf.DrawRect(position, start, width, length, colors[v])
			if cfg.labels {
				surf.Annotate(v, position+width/2, center, true)
			}
		default:
			surf.DrawRect(start, position, length, width, colors[v])
			if cfg.labels {
				surf.Annotate(v, center, position+width/2, false)
			}
		}
		prev = t.End
	}
	return nil
}

// assignColors maps each unique value to a palette color in sorted-value
// order, independent of first appearance. The empty-string sentinel sorts
// first and consumes a palette slot even though its runs are never drawn.
func assignColors(values []string, palette []color.Color) map[string]color.Color {
	seen := make(map[string]bool)
	var uniq []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)

	out := make(map[string]color.Color, len(uniq))
	for i, v := range uniq {
		out[v] = palette[i%len(palette)]
	}
	return out
}

func defaultPalette() []color.Color {
	out := make([]color.Color, len(canvas.Dark2))
	for i, c := range canvas.Dark2 {
		out[i] = c
	}
	return out
}
