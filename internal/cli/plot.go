package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhelland/seqheat/pkg/experiment"
	"github.com/mhelland/seqheat/pkg/heatmap"
)

// plotCommand creates the plot command, the main entry point.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		guiName      string
		sortBy       []string
		sampleField  string
		featureField string
		sampleBars   []string
		featureBars  []string
		dbNames      []string
		noDatabases  bool
		noCache      bool
		colormap     string
		clim         []float64
		title        string
		maxYLabels   int
		allYLabels   bool
		raw          bool
		output       string
		addr         string
		width        int
		height       int
	)

	cmd := &cobra.Command{
		Use:   "plot [table.tsv]",
		Short: "Plot an abundance table as an interactive heatmap",
		Long: `Plot an abundance table as an interactive heatmap.

The table is a TSV matrix with sample ids in the first column and feature
ids in the header row. Metadata sidecars <table>_sample.tsv and
<table>_feature.tsv are picked up automatically when present.

Values are log-transformed before plotting (disable with --raw). Use
--sort-by to group samples by metadata fields; the last field becomes the
x-axis grouping unless --sample-field overrides it. Each --sample-bar and
--feature-bar adds a categorical color strip along the matching axis.

The session front-end is selected with --gui: "cli" writes a PNG and
answers lookups on a prompt, "tui" opens a full-screen terminal view, and
"web" serves the plot on a local web page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd, args[0], plotParams{
				guiName:      firstNonEmpty(guiName, c.Config.GUI),
				sortBy:       sortBy,
				sampleField:  sampleField,
				featureField: firstNonEmpty(featureField, c.Config.FeatureField),
				sampleBars:   sampleBars,
				featureBars:  featureBars,
				dbNames:      dbNames,
				noDatabases:  noDatabases,
				noCache:      noCache,
				colormap:     firstNonEmpty(colormap, c.Config.Colormap),
				clim:         clim,
				title:        title,
				maxYLabels:   maxYLabels,
				allYLabels:   allYLabels,
				raw:          raw,
				output:       output,
				addr:         addr,
				width:        width,
				height:       height,
			})
		},
	}

	cmd.Flags().StringVarP(&guiName, "gui", "g", "", "front-end: cli (default), tui, web")
	cmd.Flags().StringSliceVar(&sortBy, "sort-by", nil, "sort samples by metadata field(s) before plotting")
	cmd.Flags().StringVar(&sampleField, "sample-field", "", "sample metadata field for x-axis grouping")
	cmd.Flags().StringVar(&featureField, "feature-field", "", "feature metadata field for y labels")
	cmd.Flags().StringSliceVar(&sampleBars, "sample-bar", nil, "sample metadata field(s) drawn as color bars")
	cmd.Flags().StringSliceVar(&featureBars, "feature-bar", nil, "feature metadata field(s) drawn as color bars")
	cmd.Flags().StringSliceVarP(&dbNames, "database", "d", nil, "annotation database(s) to attach")
	cmd.Flags().BoolVar(&noDatabases, "no-database", false, "attach no annotation databases")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable annotation lookup caching")
	cmd.Flags().StringVar(&colormap, "colormap", "", "colormap: viridis (default), inferno, gray")
	cmd.Flags().Float64SliceVar(&clim, "clim", nil, "fixed color limits as lo,hi")
	cmd.Flags().StringVar(&title, "title", "", "figure title (default: table description)")
	cmd.Flags().IntVar(&maxYLabels, "max-ylabels", heatmap.DefaultMaxYTicks, "max feature labels shown at once (0 hides them)")
	cmd.Flags().BoolVar(&allYLabels, "all-ylabels", false, "show one label per feature")
	cmd.Flags().BoolVar(&raw, "raw", false, "plot raw values without the log transform")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path for the cli front-end")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the web front-end")
	cmd.Flags().IntVar(&width, "width", 0, "figure width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "figure height in pixels")

	return cmd
}

type plotParams struct {
	guiName      string
	sortBy       []string
	sampleField  string
	featureField string
	sampleBars   []string
	featureBars  []string
	dbNames      []string
	noDatabases  bool
	noCache      bool
	colormap     string
	clim         []float64
	title        string
	maxYLabels   int
	allYLabels   bool
	raw          bool
	output       string
	addr         string
	width        int
	height       int
}

func (c *CLI) runPlot(cmd *cobra.Command, input string, p plotParams) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	gui, err := heatmap.ParseGUI(p.guiName)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Loading %s...", input))
	spinner.Start()
	exp, err := experiment.LoadTSVFile(input)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	nSamples, nFeatures := exp.Shape()
	track := newProgress(logger)
	printShape(nSamples, nFeatures)

	c.Config.RegisterDatabases(c.newCache(cmd, p.noCache))

	renderOpts := []heatmap.Option{heatmap.WithLogger(logger)}
	if p.sampleField != "" {
		renderOpts = append(renderOpts, heatmap.WithSampleField(p.sampleField))
	}
	if p.featureField != "" {
		renderOpts = append(renderOpts, heatmap.WithFeatureField(p.featureField))
	}
	if p.colormap != "" {
		renderOpts = append(renderOpts, heatmap.WithColormap(p.colormap))
	}
	if len(p.clim) == 2 {
		renderOpts = append(renderOpts, heatmap.WithCLim(p.clim[0], p.clim[1]))
	} else if len(p.clim) != 0 {
		return fmt.Errorf("--clim takes exactly two values, got %d", len(p.clim))
	}
	if p.title != "" {
		renderOpts = append(renderOpts, heatmap.WithTitle(p.title))
	}
	if p.allYLabels {
		renderOpts = append(renderOpts, heatmap.WithAllYTickLabels())
	} else {
		renderOpts = append(renderOpts, heatmap.WithMaxYTickLabels(p.maxYLabels))
	}
	if p.raw {
		renderOpts = append(renderOpts, heatmap.WithTransform(experiment.Identity))
	}

	plotOpts := []heatmap.PlotOption{
		heatmap.WithGUI(gui),
		heatmap.WithPlotLogger(logger),
		heatmap.WithRender(renderOpts...),
		heatmap.WithFigureSize(p.width, p.height),
	}
	if len(p.sampleBars) > 0 {
		plotOpts = append(plotOpts, heatmap.WithSampleColorBars(p.sampleBars...))
	}
	if len(p.featureBars) > 0 {
		plotOpts = append(plotOpts, heatmap.WithFeatureColorBars(p.featureBars...))
	}
	switch {
	case p.noDatabases:
		plotOpts = append(plotOpts, heatmap.WithoutDatabases())
	case len(p.dbNames) > 0:
		plotOpts = append(plotOpts, heatmap.WithDatabases(p.dbNames...))
	case len(c.Config.Databases) > 0 && len(exp.HeatmapDatabases) == 0:
		plotOpts = append(plotOpts, heatmap.WithDatabases(c.Config.Databases...))
	}
	if p.output != "" {
		plotOpts = append(plotOpts, heatmap.WithOutputPath(p.output))
	}
	if p.addr != "" {
		plotOpts = append(plotOpts, heatmap.WithListenAddr(p.addr))
	}

	var ctrl heatmap.Controller
	if len(p.sortBy) > 0 {
		ctrl, err = heatmap.PlotSort(ctx, exp, p.sortBy, plotOpts...)
	} else {
		ctrl, err = heatmap.Plot(ctx, exp, plotOpts...)
	}
	if err != nil {
		return err
	}
	track.done("Session ended")

	// The web front-end keeps serving after Plot returns; block until the
	// user interrupts so the page stays reachable.
	if web, ok := ctrl.(interface{ Shutdown(context.Context) error }); ok && gui == heatmap.GUIWeb {
		printInfo("serving, press ctrl-c to stop")
		<-ctx.Done()
		return web.Shutdown(context.Background())
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
