package heatmap

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mhelland/seqheat/pkg/canvas"
	"github.com/mhelland/seqheat/pkg/database"
	"github.com/mhelland/seqheat/pkg/experiment"
)

// Color-bar stacking geometry, in bar units.
const (
	BarWidth = 0.3
	BarSpace = 0.05
)

// PlotOption configures a Plot call.
type PlotOption func(*plotConfig)

type plotConfig struct {
	gui         GUI
	sampleBars  []string
	featureBars []string
	databases   []string
	noDatabases bool
	dbSet       bool
	width       int
	height      int
	addr        string
	output      string
	logger      *log.Logger
	render      []Option
}

// WithGUI selects the interactive front-end variant.
func WithGUI(gui GUI) PlotOption {
	return func(c *plotConfig) { c.gui = gui }
}

// WithSampleColorBars stacks one color bar above the plot per sample
// metadata field, in the given order.
func WithSampleColorBars(fields ...string) PlotOption {
	return func(c *plotConfig) { c.sampleBars = fields }
}

// WithFeatureColorBars stacks one color bar beside the plot per feature
// metadata field.
func WithFeatureColorBars(fields ...string) PlotOption {
	return func(c *plotConfig) { c.featureBars = fields }
}

// WithDatabases attaches the named annotation databases instead of the
// experiment's configured defaults.
func WithDatabases(names ...string) PlotOption {
	return func(c *plotConfig) { c.databases = names; c.noDatabases = false; c.dbSet = true }
}

// WithoutDatabases attaches no annotation databases.
func WithoutDatabases() PlotOption {
	return func(c *plotConfig) { c.noDatabases = true; c.dbSet = true }
}

// WithFigureSize sets the figure dimensions in pixels.
func WithFigureSize(width, height int) PlotOption {
	return func(c *plotConfig) { c.width = width; c.height = height }
}

// WithListenAddr sets the web variant's listen address
// (default 127.0.0.1 on an ephemeral port).
func WithListenAddr(addr string) PlotOption {
	return func(c *plotConfig) { c.addr = addr }
}

// WithOutputPath sets where the cli variant writes its PNG.
func WithOutputPath(path string) PlotOption {
	return func(c *plotConfig) { c.output = path }
}

// WithPlotLogger routes session diagnostics to the given logger.
func WithPlotLogger(logger *log.Logger) PlotOption {
	return func(c *plotConfig) { c.logger = logger; c.render = append(c.render, WithLogger(logger)) }
}

// WithRender forwards options to the underlying Render call.
func WithRender(opts ...Option) PlotOption {
	return func(c *plotConfig) { c.render = append(c.render, opts...) }
}

// Plot renders the experiment, overlays the requested color bars, attaches
// annotation databases and activates an interactive controller, which it
// returns. Activation of the cli and tui variants blocks until the session
// ends; the web variant returns immediately with the page being served.
//
// Unless overridden through WithRender, the figure title defaults to the
// experiment's description.
func Plot(ctx context.Context, e *experiment.Experiment, opts ...PlotOption) (Controller, error) {
	cfg := plotConfig{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dbs, err := resolveDatabases(ctx, e, &cfg)
	if err != nil {
		return nil, err
	}

	fig := canvas.NewFigure(cfg.width, cfg.height)
	sess := newSession(e, fig, cfg.logger)
	sess.attach(dbs)

	var ctrl Controller
	switch cfg.gui {
	case GUITUI:
		ctrl = newTUIController(sess)
	case GUIWeb:
		ctrl = newWebController(sess, cfg.addr)
	default:
		ctrl = newCLIController(sess, cfg.output)
	}

	renderOpts := cfg.render
	if e.Description != "" {
		renderOpts = append([]Option{WithTitle(e.Description)}, renderOpts...)
	}
	if err := Render(e, ctrl.Axes(), renderOpts...); err != nil {
		return nil, err
	}

	if err := overlayBars(e, ctrl.XBar(), cfg.sampleBars, AxisX, e.SampleField); err != nil {
		return nil, err
	}
	if err := overlayBars(e, ctrl.YBar(), cfg.featureBars, AxisY, e.FeatureField); err != nil {
		return nil, err
	}

	if err := ctrl.Activate(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// resolveDatabases opens the requested annotation databases: an explicit
// list wins, otherwise the experiment's configured defaults are used.
func resolveDatabases(ctx context.Context, e *experiment.Experiment, cfg *plotConfig) ([]database.Database, error) {
	if cfg.noDatabases {
		return nil, nil
	}
	names := cfg.databases
	if !cfg.dbSet {
		names = e.HeatmapDatabases
	}
	dbs := make([]database.Database, 0, len(names))
	for _, name := range names {
		db, err := database.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

// overlayBars stacks one color bar per metadata field, each offset by the
// accumulated width of the bars before it.
func overlayBars(e *experiment.Experiment, surf Surface, fields []string, axis Axis, lookup func(string) ([]any, error)) error {
	position := 0.0
	for _, field := range fields {
		values, err := lookup(field)
		if err != nil {
			return err
		}
		labels := make([]string, len(values))
		for i, v := range values {
			labels[i] = stringify(v)
		}
		if err := ColorBar(surf, labels, BarWidth, position, axis); err != nil {
			return err
		}
		position += BarWidth + BarSpace
	}
	return nil
}

// PlotSort sorts a copy of the experiment by the given sample metadata
// fields (stable, applied in order so the last field is the primary key)
// and plots the result grouped by that last field unless the caller
// supplies a sample field of their own. The original experiment keeps its
// ordering.
func PlotSort(ctx context.Context, e *experiment.Experiment, fields []string, opts ...PlotOption) (Controller, error) {
	if len(fields) == 0 {
		return Plot(ctx, e, opts...)
	}

	sorted := e.Copy()
	for _, field := range fields {
		if err := sorted.SortSamples(field); err != nil {
			return nil, err
		}
	}

	// Prepended so any explicit sample field in opts overrides it.
	opts = append([]PlotOption{WithRender(WithSampleField(fields[len(fields)-1]))}, opts...)
	return Plot(ctx, sorted, opts...)
}
