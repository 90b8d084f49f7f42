package heatmap

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhelland/seqheat/pkg/experiment"
	"github.com/mhelland/seqheat/pkg/observability"
)

// Rendering defaults.
const (
	DefaultXTickRotation = 45
	DefaultMaxXLabelLen  = 10
	DefaultMaxYLabelLen  = 15
	DefaultMaxYTicks     = 100
)

// Option configures a single Render call.
type Option func(*renderConfig)

type renderConfig struct {
	sampleField  string
	featureField string
	noFeature    bool

	maxYTicks  int // 0 hides the axis
	allYTicks  bool
	rotation   float64
	maxXLabel  int
	maxYLabel  int
	title      string
	colormap   string
	clim       []float64
	viewport   *[4]float64
	transform  experiment.Transform
	logger     *log.Logger
}

func newRenderConfig() renderConfig {
	return renderConfig{
		maxYTicks: DefaultMaxYTicks,
		rotation:  DefaultXTickRotation,
		maxXLabel: DefaultMaxXLabelLen,
		maxYLabel: DefaultMaxYLabelLen,
		transform: experiment.LogN(experiment.DefaultPseudoCount),
		logger:    log.Default(),
	}
}

// WithSampleField groups the sample axis by a sample metadata field:
// boundary lines between groups and one tick per group. Without it the
// sample axis is hidden.
func WithSampleField(field string) Option {
	return func(c *renderConfig) { c.sampleField = field }
}

// WithFeatureField selects the feature metadata field used for y labels.
// The default is the experiment's configured heatmap feature field.
func WithFeatureField(field string) Option {
	return func(c *renderConfig) { c.featureField = field; c.noFeature = false }
}

// WithoutFeatureField hides the feature axis entirely.
func WithoutFeatureField() Option {
	return func(c *renderConfig) { c.noFeature = true }
}

// WithMaxYTickLabels caps how many feature labels are visible at once;
// zooming in reveals more. A cap of 0 hides the feature axis ticks.
func WithMaxYTickLabels(max int) Option {
	return func(c *renderConfig) { c.maxYTicks = max; c.allYTicks = false }
}

// WithAllYTickLabels shows one label per feature regardless of count.
func WithAllYTickLabels() Option {
	return func(c *renderConfig) { c.allYTicks = true }
}

// WithXTickRotation sets the sample tick label rotation in degrees.
func WithXTickRotation(degrees float64) Option {
	return func(c *renderConfig) { c.rotation = degrees }
}

// WithMaxXLabelLen caps sample group labels; longer labels keep their
// first and last halves around a ".." ellipsis. Non-positive disables.
func WithMaxXLabelLen(n int) Option {
	return func(c *renderConfig) { c.maxXLabel = n }
}

// WithMaxYLabelLen caps feature labels, truncating on the right.
// Non-positive disables.
func WithMaxYLabelLen(n int) Option {
	return func(c *renderConfig) { c.maxYLabel = n }
}

// WithTitle sets the figure title.
func WithTitle(title string) Option {
	return func(c *renderConfig) { c.title = title }
}

// WithColormap selects the colormap by name.
func WithColormap(name string) Option {
	return func(c *renderConfig) { c.colormap = name }
}

// WithCLim fixes the color limits instead of deriving them from the data.
func WithCLim(lo, hi float64) Option {
	return func(c *renderConfig) { c.clim = []float64{lo, hi} }
}

// WithViewport restricts the initially visible window, in data coordinates
// (samples along x, features along y).
func WithViewport(xmin, xmax, ymin, ymax float64) Option {
	return func(c *renderConfig) { c.viewport = &[4]float64{xmin, xmax, ymin, ymax} }
}

// WithTransform replaces the transform applied to a copy of the data
// before rendering. The default is a log2 transform with a pseudo-count
// floor; use experiment.Identity to render raw values.
func WithTransform(t experiment.Transform) Option {
	return func(c *renderConfig) { c.transform = t }
}

// WithLogger routes render diagnostics to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *renderConfig) { c.logger = logger }
}

// Render draws the experiment onto surf: the transformed matrix as a cell
// grid (features as rows, samples as columns), group boundaries and ticks
// along the sample axis, capped feature labels along the feature axis, and
// a hover readout reporting the raw abundance value under the cursor.
//
// The experiment itself is never modified; the transform runs on a copy.
func Render(e *experiment.Experiment, surf Surface, opts ...Option) error {
	cfg := newRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return render(e, surf, &cfg)
}

func render(e *experiment.Experiment, surf Surface, cfg *renderConfig) error {
	ctx := context.Background()
	nSamples, nFeatures := e.Shape()
	start := time.Now()
	observability.Plot().OnRenderStart(ctx, nSamples, nFeatures)

	err := renderInner(e, surf, cfg, nSamples, nFeatures)
	observability.Plot().OnRenderComplete(ctx, nSamples, nFeatures, time.Since(start), err)
	return err
}

func renderInner(e *experiment.Experiment, surf Surface, cfg *renderConfig, nSamples, nFeatures int) error {
	cfg.logger.Debug("rendering heatmap", "samples", nSamples, "features", nFeatures)

	transform := cfg.transform
	if transform == nil {
		transform = experiment.Identity
	}
	transformed, err := transform(e)
	if err != nil {
		return err
	}
	data := transformed.GetData(false)

	// Features as rows, samples as columns.
	grid := make([][]float64, nFeatures)
	for i := range grid {
		row := make([]float64, nSamples)
		for j := 0; j < nSamples; j++ {
			row[j] = data[j][i]
		}
		grid[i] = row
	}

	// Resolve the metadata lookups before touching the surface so a bad
	// field name leaves no partial render behind.
	var sampleTransitions []Transition
	var sampleValues []any
	if cfg.sampleField != "" {
		sampleValues, err = e.SampleField(cfg.sampleField)
		if err != nil {
			return err
		}
		sampleTransitions, err = TransitionIndex(sampleValues)
		if err != nil {
			return err
		}
	}
	var featureLabels []string
	var featureField string
	if !cfg.noFeature {
		field := cfg.featureField
		if field == "" {
			field = e.HeatmapFeatureField
		}
		if field == "" {
			field = experiment.IDField
		}
		featureField = field
		values, err := e.FeatureField(field)
		if err != nil {
			return err
		}
		featureLabels = make([]string, len(values))
		for i, v := range values {
			featureLabels[i] = truncateRight(stringify(v), cfg.maxYLabel)
		}
	}

	if err := surf.DrawGrid(grid, cfg.colormap, cfg.clim); err != nil {
		return err
	}
	if cfg.viewport != nil {
		v := cfg.viewport
		surf.SetViewport(v[0], v[1], v[2], v[3])
	}

	if sampleTransitions != nil {
		for _, t := range sampleTransitions[:len(sampleTransitions)-1] {
			surf.VLine(float64(t.End) - 0.5)
		}
		pos := make([]float64, len(sampleTransitions))
		labels := make([]string, len(sampleTransitions))
		prev := 0
		for i, t := range sampleTransitions {
			pos[i] = (float64(prev)+float64(t.End))/2 - 0.5
			labels[i] = elideMiddle(stringify(t.Value), cfg.maxXLabel)
			prev = t.End
		}
		surf.SetXTicks(pos, labels, cfg.rotation)
		surf.SetXLabel(cfg.sampleField)
	} else {
		surf.HideXAxis()
	}

	switch {
	case cfg.noFeature:
		surf.HideYAxis()
	case cfg.allYTicks:
		pos := make([]float64, nFeatures)
		for i := range pos {
			pos[i] = float64(i)
		}
		surf.SetYTicks(pos, featureLabels)
		surf.SetYLabel(featureField)
	case cfg.maxYTicks <= 0:
		surf.HideYAxis()
	default:
		labels := featureLabels
		surf.SetYTickLocator(cfg.maxYTicks, func(i int) string {
			if i < 0 || i >= len(labels) {
				return ""
			}
			return labels[i]
		})
		surf.SetYLabel(featureField)
	}

	if cfg.title != "" {
		surf.SetTitle(cfg.title)
	}

	// The readout reports the stored abundance, not the transformed value
	// shown in the image.
	raw := e.GetData(false)
	surf.SetCoordFormatter(func(x, y float64) string {
		col := int(math.Floor(x + 0.5))
		row := int(math.Floor(y + 0.5))
		if col >= 0 && col < nSamples && row >= 0 && row < nFeatures {
			return fmt.Sprintf("x=%1.2f, y=%1.2f, z=%1.2f", x, y, raw[col][row])
		}
		return fmt.Sprintf("x=%1.2f, y=%1.2f", x, y)
	})
	return nil
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// elideMiddle keeps the first and last halves of an overlong label around
// a ".." marker: "proximal_gut" capped at 6 becomes "pro..gut".
func elideMiddle(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	half := max / 2
	return s[:half] + ".." + s[len(s)-half:]
}

func truncateRight(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
