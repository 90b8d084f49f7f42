// Package canvas implements the raster drawing surface behind the heatmap
// renderers.
//
// A Figure owns three regions: the main axes holding the cell grid, a
// horizontal strip above it for sample color bars, and a vertical strip to
// its right for feature color bars. Renderers record drawing operations in
// data coordinates (cell centers at integers, cell j spanning j-0.5..j+0.5);
// RenderPNG replays them into pixels in one pass, so regions can be drawn
// into in any order before the figure is rendered.
//
// Text uses the first system TTF that can be located; when none is found the
// figure still renders, just without labels.
package canvas

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Figure layout constants in pixels.
const (
	DefaultWidth  = 1000
	DefaultHeight = 700

	marginTop    = 36
	marginRight  = 24
	axisMarginX  = 96 // left margin when y labels are shown
	axisMarginY  = 84 // bottom margin when x labels are shown
	hiddenMargin = 24 // margin when an axis is hidden
	barStripPx   = 44 // thickness of each color-bar strip
	tickLen      = 4
	tickFontSize = 11
	barFontSize  = 10
	titleFont    = 14
)

// Figure is a drawable plot composed of a main grid region and two
// color-bar strip regions.
type Figure struct {
	width, height int
	main          *Region
	xbar          *Region
	ybar          *Region
}

// NewFigure creates a figure with the given pixel dimensions.
// Non-positive dimensions fall back to DefaultWidth x DefaultHeight.
func NewFigure(width, height int) *Figure {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Figure{
		width:  width,
		height: height,
		main:   newRegion(),
		xbar:   newStrip(false),
		ybar:   newStrip(true),
	}
}

// Axes returns the main grid region.
func (f *Figure) Axes() *Region { return f.main }

// XBar returns the horizontal color-bar strip above the main region.
func (f *Figure) XBar() *Region { return f.xbar }

// YBar returns the vertical color-bar strip right of the main region.
func (f *Figure) YBar() *Region { return f.ybar }

// Size returns the figure's pixel dimensions.
func (f *Figure) Size() (int, int) { return f.width, f.height }

// =============================================================================
// Region - recorded drawing operations
// =============================================================================

type rectOp struct {
	x, y, w, h float64
	fill       color.Color
}

type noteOp struct {
	text     string
	x, y     float64
	vertical bool
}

type tickSet struct {
	pos      []float64
	labels   []string
	rotation float64
	set      bool
}

// Region records drawing operations in data coordinates until the owning
// figure renders them. Its method set is what the heatmap renderers draw
// against.
type Region struct {
	grid     [][]float64
	cmap     Colormap
	clim     []float64
	hasGrid  bool
	viewport *[4]float64 // xmin, xmax, ymin, ymax

	vlines []float64
	rects  []rectOp
	notes  []noteOp

	xticks      tickSet
	yticks      tickSet
	yLocatorMax int
	yLocator    func(int) string

	xlabel, ylabel, title string
	xHidden, yHidden      bool

	coordFormat func(x, y float64) string

	// Strip regions run alongside the main grid; vertical means the strip
	// runs along y and its cross axis (bar units) is x.
	vertical bool
}

func newRegion() *Region {
	return &Region{}
}

func newStrip(vertical bool) *Region {
	return &Region{vertical: vertical}
}

// DrawGrid sets the cell grid: data[row][col] drawn with row 0 at the top.
// clim of nil means limits are computed from the data (percentile clipped);
// otherwise it must be a {low, high} pair. Unknown colormap names fail.
func (r *Region) DrawGrid(data [][]float64, colormap string, clim []float64) error {
	cm, err := ColormapByName(colormap)
	if err != nil {
		return err
	}
	r.grid = data
	r.cmap = cm
	r.clim = clim
	r.hasGrid = true
	return nil
}

// Grid returns the recorded cell grid with its colormap and color limits.
// The limits are nil when they are computed from the data at render time.
func (r *Region) Grid() ([][]float64, Colormap, []float64) {
	return r.grid, r.cmap, r.clim
}

// SetViewport restricts the initially visible data window.
func (r *Region) SetViewport(xmin, xmax, ymin, ymax float64) {
	r.viewport = &[4]float64{xmin, xmax, ymin, ymax}
}

// VLine draws a vertical boundary line at data x.
func (r *Region) VLine(x float64) {
	r.vlines = append(r.vlines, x)
}

// DrawRect fills a rectangle. In strip regions the along-axis coordinate is
// shared with the main grid and the cross-axis coordinate is in bar units.
func (r *Region) DrawRect(x, y, w, h float64, fill color.Color) {
	r.rects = append(r.rects, rectOp{x: x, y: y, w: w, h: h, fill: fill})
}

// Annotate draws centered bold white text at a data position.
func (r *Region) Annotate(text string, x, y float64, vertical bool) {
	r.notes = append(r.notes, noteOp{text: text, x: x, y: y, vertical: vertical})
}

// SetXTicks places tick labels along the x axis, rotated by rotation degrees.
func (r *Region) SetXTicks(pos []float64, labels []string, rotation float64) {
	r.xticks = tickSet{pos: pos, labels: labels, rotation: rotation, set: true}
}

// SetYTicks places explicit tick labels along the y axis.
func (r *Region) SetYTicks(pos []float64, labels []string) {
	r.yticks = tickSet{pos: pos, labels: labels, set: true}
}

// SetYTickLocator installs a dynamic y tick locator showing at most max
// labels at once; format produces the label for a row index.
func (r *Region) SetYTickLocator(max int, format func(int) string) {
	r.yLocatorMax = max
	r.yLocator = format
}

// SetXLabel sets the x axis label.
func (r *Region) SetXLabel(label string) { r.xlabel = label }

// SetYLabel sets the y axis label.
func (r *Region) SetYLabel(label string) { r.ylabel = label }

// SetTitle sets the figure title.
func (r *Region) SetTitle(title string) { r.title = title }

// HideXAxis suppresses x ticks and label.
func (r *Region) HideXAxis() { r.xHidden = true }

// HideYAxis suppresses y ticks and label.
func (r *Region) HideYAxis() { r.yHidden = true }

// SetCoordFormatter installs the hover readout callback.
func (r *Region) SetCoordFormatter(format func(x, y float64) string) {
	r.coordFormat = format
}

// CoordFormatter returns the installed readout callback, or nil.
func (r *Region) CoordFormatter() func(x, y float64) string {
	return r.coordFormat
}

// =============================================================================
// Rendering
// =============================================================================

// Image renders the figure to an in-memory image.
func (f *Figure) Image() (image.Image, error) {
	ctx := gg.NewContext(f.width, f.height)
	ctx.SetColor(color.White)
	ctx.Clear()

	face := fontFace(tickFontSize)
	if face != nil {
		ctx.SetFontFace(face)
	}

	g := f.geometry()
	if f.main.hasGrid {
		if err := f.renderGrid(ctx, g); err != nil {
			return nil, err
		}
	}
	f.renderVLines(ctx, g)
	f.renderAxes(ctx, g, face != nil)
	f.renderBars(ctx, g, face != nil)
	f.renderTitle(ctx, g, face != nil)

	return ctx.Image(), nil
}

// RenderPNG renders the figure and encodes it as PNG.
func (f *Figure) RenderPNG() ([]byte, error) {
	img, err := f.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG renders the figure to a PNG file.
func (f *Figure) WritePNG(path string) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	return imaging.Save(img, path)
}

// geometry holds the pixel layout and the effective data window.
type geometry struct {
	plotX, plotY, plotW, plotH float64
	xbarY, xbarH               float64
	ybarX, ybarW               float64

	nx, ny         int
	c0, c1, r0, r1 int // visible cell window (inclusive)
}

func (f *Figure) geometry() geometry {
	var g geometry

	left := float64(axisMarginX)
	if f.main.yHidden {
		left = hiddenMargin
	}
	bottom := float64(axisMarginY)
	if f.main.xHidden {
		bottom = hiddenMargin
	}

	g.xbarH = 0
	if len(f.xbar.rects) > 0 {
		g.xbarH = barStripPx * f.xbar.barUnits() / barUnitNorm
	}
	g.ybarW = 0
	if len(f.ybar.rects) > 0 {
		g.ybarW = barStripPx * f.ybar.barUnits() / barUnitNorm
	}

	g.plotX = left
	g.plotY = marginTop + g.xbarH
	g.plotW = float64(f.width) - left - marginRight - g.ybarW
	g.plotH = float64(f.height) - g.plotY - bottom
	g.xbarY = marginTop
	g.ybarX = g.plotX + g.plotW

	if f.main.hasGrid {
		g.ny = len(f.main.grid)
		if g.ny > 0 {
			g.nx = len(f.main.grid[0])
		}
	}
	g.c0, g.c1 = 0, g.nx-1
	g.r0, g.r1 = 0, g.ny-1
	if v := f.main.viewport; v != nil && g.nx > 0 && g.ny > 0 {
		g.c0 = clampInt(int(math.Floor(v[0]+0.5)), 0, g.nx-1)
		g.c1 = clampInt(int(math.Ceil(v[1]-0.5)), g.c0, g.nx-1)
		g.r0 = clampInt(int(math.Floor(v[2]+0.5)), 0, g.ny-1)
		g.r1 = clampInt(int(math.Ceil(v[3]-0.5)), g.r0, g.ny-1)
	}
	return g
}

// barUnitNorm is the bar-unit extent one strip thickness corresponds to:
// one bar of the standard width plus its gap.
const barUnitNorm = 0.35

// barUnits returns the cross-axis extent of the strip in bar units. The
// along-axis span is in data cells and must not count against the strip
// thickness.
func (r *Region) barUnits() float64 {
	var max float64
	for _, rect := range r.rects {
		u := rect.y + rect.h
		if r.vertical {
			u = rect.x + rect.w
		}
		if u > max {
			max = u
		}
	}
	if max < barUnitNorm {
		max = barUnitNorm
	}
	return max
}

// px maps a data x coordinate to pixels within the plot area.
func (g geometry) px(x float64) float64 {
	lo, hi := float64(g.c0)-0.5, float64(g.c1)+0.5
	return g.plotX + (x-lo)/(hi-lo)*g.plotW
}

// py maps a data y (row) coordinate to pixels within the plot area.
func (g geometry) py(y float64) float64 {
	lo, hi := float64(g.r0)-0.5, float64(g.r1)+0.5
	return g.plotY + (y-lo)/(hi-lo)*g.plotH
}

func (f *Figure) renderGrid(ctx *gg.Context, g geometry) error {
	if g.nx == 0 || g.ny == 0 || g.plotW <= 0 || g.plotH <= 0 {
		return nil
	}

	lo, hi := 0.0, 1.0
	if f.main.clim != nil && len(f.main.clim) == 2 {
		lo, hi = f.main.clim[0], f.main.clim[1]
	} else {
		lo, hi = DefaultLimits(f.main.grid)
	}

	// One pixel per cell, then nearest-neighbor scale to the plot area.
	cells := image.NewRGBA(image.Rect(0, 0, g.nx, g.ny))
	for i, row := range f.main.grid {
		for j, v := range row {
			cells.Set(j, i, f.main.cmap.At(Normalize(v, lo, hi)))
		}
	}
	visible := imaging.Crop(cells, image.Rect(g.c0, g.r0, g.c1+1, g.r1+1))
	scaled := imaging.Resize(visible, int(g.plotW), int(g.plotH), imaging.NearestNeighbor)
	ctx.DrawImage(scaled, int(g.plotX), int(g.plotY))
	return nil
}

func (f *Figure) renderVLines(ctx *gg.Context, g geometry) {
	if len(f.main.vlines) == 0 {
		return
	}
	ctx.Push()
	ctx.DrawRectangle(g.plotX, g.plotY, g.plotW, g.plotH)
	ctx.Clip()
	ctx.SetColor(color.White)
	ctx.SetLineWidth(1)
	for _, x := range f.main.vlines {
		ctx.DrawLine(g.px(x), g.plotY, g.px(x), g.plotY+g.plotH)
		ctx.Stroke()
	}
	ctx.ResetClip()
	ctx.Pop()
}

func (f *Figure) renderAxes(ctx *gg.Context, g geometry, hasFont bool) {
	black := color.RGBA{20, 20, 20, 255}
	ctx.SetColor(black)

	if !f.main.xHidden && f.main.xticks.set {
		ticks := f.main.xticks
		for i, pos := range ticks.pos {
			x := g.px(pos)
			if x < g.plotX-1 || x > g.plotX+g.plotW+1 {
				continue
			}
			y := g.plotY + g.plotH
			ctx.DrawLine(x, y, x, y+tickLen)
			ctx.Stroke()
			if hasFont && i < len(ticks.labels) {
				ctx.Push()
				ctx.RotateAbout(-gg.Radians(ticks.rotation), x, y+tickLen+2)
				ctx.DrawStringAnchored(ticks.labels[i], x, y+tickLen+2, 1, 0.8)
				ctx.Pop()
			}
		}
		if hasFont && f.main.xlabel != "" {
			ctx.DrawStringAnchored(f.main.xlabel, g.plotX+g.plotW/2, float64(f.height)-12, 0.5, 0.5)
		}
	}

	if !f.main.yHidden {
		for _, tk := range f.visibleYTicks(g) {
			y := g.py(tk.pos)
			if y < g.plotY-1 || y > g.plotY+g.plotH+1 {
				continue
			}
			ctx.DrawLine(g.plotX-tickLen, y, g.plotX, y)
			ctx.Stroke()
			if hasFont {
				ctx.DrawStringAnchored(tk.label, g.plotX-tickLen-3, y, 1, 0.4)
			}
		}
		if hasFont && f.main.ylabel != "" {
			ctx.Push()
			ctx.RotateAbout(-gg.Radians(90), 14, g.plotY+g.plotH/2)
			ctx.DrawStringAnchored(f.main.ylabel, 14, g.plotY+g.plotH/2, 0.5, 0.5)
			ctx.Pop()
		}
	}
}

type yTick struct {
	pos   float64
	label string
}

// visibleYTicks resolves explicit ticks or applies the dynamic locator to
// the visible row window, capping the number of simultaneous labels.
func (f *Figure) visibleYTicks(g geometry) []yTick {
	if f.main.yticks.set {
		out := make([]yTick, 0, len(f.main.yticks.pos))
		for i, pos := range f.main.yticks.pos {
			label := ""
			if i < len(f.main.yticks.labels) {
				label = f.main.yticks.labels[i]
			}
			out = append(out, yTick{pos: pos, label: label})
		}
		return out
	}
	if f.main.yLocator == nil || f.main.yLocatorMax <= 0 {
		return nil
	}
	visible := g.r1 - g.r0 + 1
	if visible <= 0 {
		return nil
	}
	step := (visible + f.main.yLocatorMax - 1) / f.main.yLocatorMax
	if step < 1 {
		step = 1
	}
	var out []yTick
	for i := g.r0; i <= g.r1; i += step {
		out = append(out, yTick{pos: float64(i), label: f.main.yLocator(i)})
	}
	return out
}

func (f *Figure) renderBars(ctx *gg.Context, g geometry, hasFont bool) {
	if len(f.xbar.rects) > 0 {
		scale := g.xbarH / f.xbar.barUnits()
		ctx.Push()
		ctx.DrawRectangle(g.plotX, g.xbarY, g.plotW, g.xbarH)
		ctx.Clip()
		for _, r := range f.xbar.rects {
			x0 := g.px(r.x)
			x1 := g.px(r.x + r.w)
			// Bar units grow away from the plot, which sits below the strip.
			yTop := g.xbarY + g.xbarH - (r.y+r.h)*scale
			ctx.SetColor(r.fill)
			ctx.DrawRectangle(x0, yTop, x1-x0, r.h*scale)
			ctx.Fill()
		}
		if hasFont {
			f.drawBarNotes(ctx, f.xbar.notes, func(n noteOp) (float64, float64) {
				return g.px(n.x), g.xbarY + g.xbarH - n.y*scale
			})
		}
		ctx.ResetClip()
		ctx.Pop()
	}

	if len(f.ybar.rects) > 0 {
		scale := g.ybarW / f.ybar.barUnits()
		ctx.Push()
		ctx.DrawRectangle(g.ybarX, g.plotY, g.ybarW, g.plotH)
		ctx.Clip()
		for _, r := range f.ybar.rects {
			y0 := g.py(r.y)
			y1 := g.py(r.y + r.h)
			ctx.SetColor(r.fill)
			ctx.DrawRectangle(g.ybarX+r.x*scale, y0, r.w*scale, y1-y0)
			ctx.Fill()
		}
		if hasFont {
			f.drawBarNotes(ctx, f.ybar.notes, func(n noteOp) (float64, float64) {
				return g.ybarX + n.x*scale, g.py(n.y)
			})
		}
		ctx.ResetClip()
		ctx.Pop()
	}
}

// drawBarNotes renders segment labels: white bold text centered on the
// segment, rotated for vertical bars.
func (f *Figure) drawBarNotes(ctx *gg.Context, notes []noteOp, at func(noteOp) (float64, float64)) {
	if face := fontFace(barFontSize); face != nil {
		ctx.SetFontFace(face)
	}
	ctx.SetColor(color.White)
	for _, n := range notes {
		x, y := at(n)
		if n.vertical {
			ctx.Push()
			ctx.RotateAbout(-gg.Radians(90), x, y)
			ctx.DrawStringAnchored(n.text, x, y, 0.5, 0.4)
			ctx.Pop()
		} else {
			ctx.DrawStringAnchored(n.text, x, y, 0.5, 0.4)
		}
	}
	if face := fontFace(tickFontSize); face != nil {
		ctx.SetFontFace(face)
	}
}

func (f *Figure) renderTitle(ctx *gg.Context, g geometry, hasFont bool) {
	if !hasFont || f.main.title == "" {
		return
	}
	if face := fontFace(titleFont); face != nil {
		ctx.SetFontFace(face)
	}
	ctx.SetColor(color.RGBA{20, 20, 20, 255})
	ctx.DrawStringAnchored(f.main.title, g.plotX+g.plotW/2, marginTop/2, 0.5, 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
