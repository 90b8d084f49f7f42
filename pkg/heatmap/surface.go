package heatmap

import "image/color"

// Surface is the drawing target the renderers produce output on. All
// coordinates are in data units: cell centers sit at integer positions, so
// cell j spans j-0.5 to j+0.5 and a grid of n cells spans -0.5 to n-0.5.
//
// *canvas.Region satisfies Surface.
type Surface interface {
	// DrawGrid sets the cell grid, drawn with row 0 at the top. An empty
	// colormap name selects the default; nil clim derives color limits
	// from the data.
	DrawGrid(data [][]float64, colormap string, clim []float64) error

	// SetViewport restricts the initially visible data window.
	SetViewport(xmin, xmax, ymin, ymax float64)

	// VLine draws a vertical group-boundary line at data x.
	VLine(x float64)

	// DrawRect fills a rectangle, used for color-bar segments.
	DrawRect(x, y, w, h float64, fill color.Color)

	// Annotate draws centered text at a data position, rotated 90 degrees
	// when vertical is set.
	Annotate(text string, x, y float64, vertical bool)

	// SetXTicks places x tick labels, rotated by rotation degrees.
	SetXTicks(pos []float64, labels []string, rotation float64)

	// SetYTicks places explicit y tick labels.
	SetYTicks(pos []float64, labels []string)

	// SetYTickLocator installs a dynamic y locator showing at most max
	// labels at once; format produces the label for a row index.
	SetYTickLocator(max int, format func(int) string)

	SetXLabel(label string)
	SetYLabel(label string)
	SetTitle(title string)

	HideXAxis()
	HideYAxis()

	// SetCoordFormatter installs the hover readout callback.
	SetCoordFormatter(format func(x, y float64) string)
}
