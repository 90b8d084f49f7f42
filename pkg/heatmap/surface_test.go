package heatmap

import "image/color"

// recordingSurface captures every drawing call for inspection.
type recordingSurface struct {
	grid     [][]float64
	colormap string
	clim     []float64

	viewport *[4]float64
	vlines   []float64
	rects    []recordedRect
	notes    []recordedNote

	xtickPos    []float64
	xtickLabels []string
	xtickRot    float64
	ytickPos    []float64
	ytickLabels []string
	yLocatorMax int
	yLocator    func(int) string

	xlabel, ylabel, title string
	xHidden, yHidden      bool
	coord                 func(x, y float64) string
}

type recordedRect struct {
	x, y, w, h float64
	fill       color.Color
}

type recordedNote struct {
	text     string
	x, y     float64
	vertical bool
}

func (r *recordingSurface) DrawGrid(data [][]float64, colormap string, clim []float64) error {
	r.grid = data
	r.colormap = colormap
	r.clim = clim
	return nil
}

func (r *recordingSurface) SetViewport(xmin, xmax, ymin, ymax float64) {
	r.viewport = &[4]float64{xmin, xmax, ymin, ymax}
}

func (r *recordingSurface) VLine(x float64) { r.vlines = append(r.vlines, x) }

func (r *recordingSurface) DrawRect(x, y, w, h float64, fill color.Color) {
	r.rects = append(r.rects, recordedRect{x: x, y: y, w: w, h: h, fill: fill})
}

func (r *recordingSurface) Annotate(text string, x, y float64, vertical bool) {
	r.notes = append(r.notes, recordedNote{text: text, x: x, y: y, vertical: vertical})
}

func (r *recordingSurface) SetXTicks(pos []float64, labels []string, rotation float64) {
	r.xtickPos = pos
	r.xtickLabels = labels
	r.xtickRot = rotation
}

func (r *recordingSurface) SetYTicks(pos []float64, labels []string) {
	r.ytickPos = pos
	r.ytickLabels = labels
}

func (r *recordingSurface) SetYTickLocator(max int, format func(int) string) {
	r.yLocatorMax = max
	r.yLocator = format
}

func (r *recordingSurface) SetXLabel(label string) { r.xlabel = label }
func (r *recordingSurface) SetYLabel(label string) { r.ylabel = label }
func (r *recordingSurface) SetTitle(title string)  { r.title = title }
func (r *recordingSurface) HideXAxis()             { r.xHidden = true }
func (r *recordingSurface) HideYAxis()             { r.yHidden = true }

func (r *recordingSurface) SetCoordFormatter(format func(x, y float64) string) {
	r.coord = format
}
