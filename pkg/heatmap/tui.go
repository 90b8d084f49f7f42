package heatmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhelland/seqheat/pkg/canvas"
	"github.com/mhelland/seqheat/pkg/database"
	"github.com/mhelland/seqheat/pkg/observability"
)

// tuiController shows the heatmap as a full-screen terminal grid with
// keyboard navigation. One terminal cell covers a zoomRow x zoomCol block
// of matrix cells, colored by the block maximum; the two axes zoom
// independently.
type tuiController struct {
	*session
}

func newTUIController(s *session) *tuiController {
	return &tuiController{session: s}
}

func (c *tuiController) Activate(ctx context.Context) error {
	start := time.Now()
	observability.Plot().OnSessionStart(ctx, GUITUI.String())
	defer func() {
		observability.Plot().OnSessionEnd(ctx, GUITUI.String(), time.Since(start))
	}()

	model, err := newTUIModel(c.session)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Model
// =============================================================================

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	tuiAnnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	tuiCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	tuiSelectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type annotationsMsg struct {
	feature string
	anns    []database.Annotation
}

type tuiModel struct {
	session *session

	grid    [][]float64
	cmap    canvas.Colormap
	lo, hi  float64
	readout func(x, y float64) string

	rows, cols int
	curRow     int
	curCol     int
	selAnchor  int // first row of a range selection, -1 when inactive
	top, left  int // scroll offset in data cells

	// Data cells per terminal cell, per axis.
	zoomRow int
	zoomCol int

	width, height int
	status        string
	annotations   []string
}

func newTUIModel(s *session) (*tuiModel, error) {
	region, ok := s.Axes().(*canvas.Region)
	if !ok {
		return nil, fmt.Errorf("tui requires a canvas-backed surface")
	}
	grid, cmap, clim := region.Grid()
	lo, hi := 0.0, 1.0
	if len(clim) == 2 {
		lo, hi = clim[0], clim[1]
	} else {
		lo, hi = canvas.DefaultLimits(grid)
	}

	m := &tuiModel{
		session:   s,
		grid:      grid,
		cmap:      cmap,
		lo:        lo,
		hi:        hi,
		readout:   region.CoordFormatter(),
		rows:      len(grid),
		selAnchor: -1,
		zoomRow:   1,
		zoomCol:   1,
	}
	if m.rows > 0 {
		m.cols = len(grid[0])
	}
	return m, nil
}

func (m *tuiModel) Init() tea.Cmd { return nil }

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampView()
	case annotationsMsg:
		m.annotations = m.annotations[:0]
		if len(msg.anns) == 0 {
			m.status = "no annotations for " + msg.feature
			break
		}
		m.status = msg.feature
		for _, ann := range msg.anns {
			m.annotations = append(m.annotations, fmt.Sprintf("[%s] %s", ann.Type, ann.Description))
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	// Arrows scroll the visible window.
	case "up", "k":
		m.scroll(-m.zoomRow, 0)
	case "down", "j":
		m.scroll(m.zoomRow, 0)
	case "left", "h":
		m.scroll(0, -m.zoomCol)
	case "right", "l":
		m.scroll(0, m.zoomCol)

	// Per-axis zoom.
	case "+", "shift+right":
		m.zoomCol = zoomIn(m.zoomCol)
		m.clampView()
	case "_", "shift+left":
		m.zoomCol = zoomOut(m.zoomCol, m.cols)
		m.clampView()
	case "=", "shift+up":
		m.zoomRow = zoomIn(m.zoomRow)
		m.clampView()
	case "-", "shift+down":
		m.zoomRow = zoomOut(m.zoomRow, m.rows)
		m.clampView()

	// Selection moves one cell at a time.
	case ".":
		m.moveSelection(1, 0)
	case ",":
		m.moveSelection(-1, 0)
	case "<":
		m.moveSelection(0, -1)
	case ">":
		m.moveSelection(0, 1)

	case "v":
		// Toggle a row-range selection anchored at the current row.
		if m.selAnchor < 0 {
			m.selAnchor = m.curRow
		} else {
			m.selAnchor = -1
		}

	case "g":
		m.curRow, m.curCol = 0, 0
		m.top, m.left = 0, 0
		m.selAnchor = -1
		m.clampView()

	case "enter":
		feature := m.session.featureID(m.curRow)
		sess := m.session
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return annotationsMsg{feature: feature, anns: sess.lookupAnnotations(ctx, feature)}
		}
	}
	return m, nil
}

func zoomIn(zoom int) int {
	if zoom > 1 {
		zoom /= 2
	}
	return zoom
}

func zoomOut(zoom, limit int) int {
	if zoom < limit {
		zoom *= 2
		if zoom > limit {
			zoom = limit
		}
	}
	return zoom
}

func (m *tuiModel) scroll(dRow, dCol int) {
	m.top = clamp(m.top+dRow, 0, max(0, m.rows-1))
	m.left = clamp(m.left+dCol, 0, max(0, m.cols-1))
}

func (m *tuiModel) moveSelection(dRow, dCol int) {
	m.curRow = clamp(m.curRow+dRow, 0, m.rows-1)
	m.curCol = clamp(m.curCol+dCol, 0, m.cols-1)
	m.clampView()
}

// selection returns the inclusive row range covered by the selection.
func (m *tuiModel) selection() (lo, hi int) {
	if m.selAnchor < 0 {
		return m.curRow, m.curRow
	}
	if m.selAnchor <= m.curRow {
		return m.selAnchor, m.curRow
	}
	return m.curRow, m.selAnchor
}

// clampView scrolls the visible window so the selection cursor stays on
// screen.
func (m *tuiModel) clampView() {
	viewRows, viewCols := m.viewSize()
	if viewRows <= 0 || viewCols <= 0 {
		return
	}
	if m.curRow < m.top {
		m.top = m.curRow
	}
	if m.curRow >= m.top+viewRows*m.zoomRow {
		m.top = m.curRow - (viewRows-1)*m.zoomRow
	}
	if m.curCol < m.left {
		m.left = m.curCol
	}
	if m.curCol >= m.left+viewCols*m.zoomCol {
		m.left = m.curCol - (viewCols-1)*m.zoomCol
	}
	m.top = clamp(m.top, 0, max(0, m.rows-1))
	m.left = clamp(m.left, 0, max(0, m.cols-1))
}

// viewSize returns the grid area in terminal cells (two columns wide each,
// after a one-character selection gutter).
func (m *tuiModel) viewSize() (rows, cols int) {
	return m.height - 6, (m.width - 1) / 2
}

func (m *tuiModel) View() string {
	if m.width == 0 || m.rows == 0 || m.cols == 0 {
		return "loading..."
	}

	var b strings.Builder
	desc := m.session.exp.Description
	if desc == "" {
		desc = "heatmap"
	}
	b.WriteString(tuiHeaderStyle.Render(desc))
	b.WriteString(tuiStatusStyle.Render(fmt.Sprintf("  %dx%d  zoom x 1:%d y 1:%d",
		m.rows, m.cols, m.zoomCol, m.zoomRow)))
	b.WriteString("\n")

	selLo, selHi := m.selection()
	viewRows, viewCols := m.viewSize()
	for vr := 0; vr < viewRows; vr++ {
		r0 := m.top + vr*m.zoomRow
		if r0 >= m.rows {
			break
		}
		if selLo < r0+m.zoomRow && r0 <= selHi {
			b.WriteString(tuiSelectStyle.Render(">"))
		} else {
			b.WriteString(" ")
		}
		for vc := 0; vc < viewCols; vc++ {
			c0 := m.left + vc*m.zoomCol
			if c0 >= m.cols {
				break
			}
			v := m.blockMax(r0, c0)
			cell := m.cmap.At(canvas.Normalize(v, m.lo, m.hi))
			style := lipgloss.NewStyle().Background(lipgloss.Color(hexColor(cell)))
			if m.curRow >= r0 && m.curRow < r0+m.zoomRow && m.curCol >= c0 && m.curCol < c0+m.zoomCol {
				b.WriteString(style.Inherit(tuiCursorStyle).Render("[]"))
			} else {
				b.WriteString(style.Render("  "))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m *tuiModel) footer() string {
	var b strings.Builder
	readout := ""
	if m.readout != nil {
		readout = m.readout(float64(m.curCol), float64(m.curRow))
	}
	b.WriteString(tuiStatusStyle.Render(fmt.Sprintf("sample %s  feature %s  %s",
		m.session.sampleID(m.curCol), m.session.featureID(m.curRow), readout)))
	b.WriteString("\n")
	if lo, hi := m.selection(); hi > lo {
		b.WriteString(tuiSelectStyle.Render(fmt.Sprintf("%d features selected (rows %d-%d)", hi-lo+1, lo, hi)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(tuiAnnStyle.Render(m.status))
		b.WriteString("\n")
	}
	for i, ann := range m.annotations {
		if i >= 2 {
			b.WriteString(tuiStatusStyle.Render(fmt.Sprintf("  ... %d more", len(m.annotations)-i)))
			break
		}
		b.WriteString(tuiAnnStyle.Render("  " + ann))
		b.WriteString("\n")
	}
	b.WriteString(tuiStatusStyle.Render("arrows scroll · ,./<> select · v range · +_/=- zoom x/y · enter annotations · q quit"))
	return b.String()
}

// blockMax is the largest value in the zoom block anchored at (r0, c0).
func (m *tuiModel) blockMax(r0, c0 int) float64 {
	v := m.grid[r0][c0]
	for r := r0; r < r0+m.zoomRow && r < m.rows; r++ {
		for c := c0; c < c0+m.zoomCol && c < m.cols; c++ {
			if m.grid[r][c] > v {
				v = m.grid[r][c]
			}
		}
	}
	return v
}

func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}