package heatmap

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhelland/seqheat/pkg/canvas"
	"github.com/mhelland/seqheat/pkg/database"
)

func newTestTUIModel(t *testing.T) *tuiModel {
	t.Helper()
	e := testExperiment(t)
	fig := canvas.NewFigure(400, 300)
	if err := Render(e, fig.Axes(), WithSampleField("group")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	m, err := newTUIModel(newSession(e, fig, nil))
	if err != nil {
		t.Fatalf("newTUIModel: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	return m
}

func keyPress(m *tuiModel, key string) {
	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func TestTUISelectionStaysInBounds(t *testing.T) {
	m := newTestTUIModel(t)

	// 4 samples x 2 features renders as 2 rows x 4 columns.
	for i := 0; i < 10; i++ {
		keyPress(m, ",")
		keyPress(m, "<")
	}
	if m.curRow != 0 || m.curCol != 0 {
		t.Errorf("selection = (%d, %d), want (0, 0)", m.curRow, m.curCol)
	}

	for i := 0; i < 10; i++ {
		keyPress(m, ".")
		keyPress(m, ">")
	}
	if m.curRow != m.rows-1 || m.curCol != m.cols-1 {
		t.Errorf("selection = (%d, %d), want (%d, %d)", m.curRow, m.curCol, m.rows-1, m.cols-1)
	}
}

func TestTUIScrollStaysInBounds(t *testing.T) {
	m := newTestTUIModel(t)

	for i := 0; i < 10; i++ {
		keyPress(m, "h")
		keyPress(m, "k")
	}
	if m.top != 0 || m.left != 0 {
		t.Errorf("offset = (%d, %d), want (0, 0)", m.top, m.left)
	}

	for i := 0; i < 10; i++ {
		keyPress(m, "l")
		keyPress(m, "j")
	}
	if m.top > m.rows-1 || m.left > m.cols-1 {
		t.Errorf("offset = (%d, %d) scrolled past the matrix", m.top, m.left)
	}
}

func TestTUIPerAxisZoomStaysInBounds(t *testing.T) {
	m := newTestTUIModel(t)

	// Each axis zooms out independently and caps at its own extent.
	for i := 0; i < 10; i++ {
		keyPress(m, "-")
	}
	if m.zoomRow != m.rows {
		t.Errorf("row zoom = %d after zooming out, want %d", m.zoomRow, m.rows)
	}
	if m.zoomCol != 1 {
		t.Errorf("column zoom = %d, row zoom keys touched it", m.zoomCol)
	}

	for i := 0; i < 10; i++ {
		keyPress(m, "_")
	}
	if m.zoomCol != m.cols {
		t.Errorf("column zoom = %d after zooming out, want %d", m.zoomCol, m.cols)
	}

	for i := 0; i < 10; i++ {
		keyPress(m, "=")
		keyPress(m, "+")
	}
	if m.zoomRow != 1 || m.zoomCol != 1 {
		t.Errorf("zoom = (%d, %d) after zooming back in, want (1, 1)", m.zoomRow, m.zoomCol)
	}
}

func TestTUIRangeSelection(t *testing.T) {
	m := newTestTUIModel(t)

	keyPress(m, "v")
	keyPress(m, ".")
	lo, hi := m.selection()
	if lo != 0 || hi != 1 {
		t.Errorf("selection = rows %d-%d, want 0-1", lo, hi)
	}
	if !strings.Contains(m.View(), "2 features selected") {
		t.Error("view missing the selection summary")
	}

	// Toggling the anchor off collapses the range to the cursor row.
	keyPress(m, "v")
	if lo, hi := m.selection(); lo != hi {
		t.Errorf("selection = rows %d-%d after clearing, want a single row", lo, hi)
	}

	// An anchor below the cursor still yields an ordered range.
	keyPress(m, "v")
	keyPress(m, ",")
	if lo, hi := m.selection(); lo != 0 || hi != 1 {
		t.Errorf("selection = rows %d-%d with reversed anchor, want 0-1", lo, hi)
	}
}

func TestTUIViewShowsReadout(t *testing.T) {
	m := newTestTUIModel(t)
	m.session.exp.Description = "mouse gut"

	view := m.View()
	if !strings.Contains(view, "mouse gut") {
		t.Error("view missing experiment description")
	}
	if !strings.Contains(view, "x=0.00, y=0.00") {
		t.Error("view missing coordinate readout for the selection")
	}
	if !strings.Contains(view, "q quit") {
		t.Error("view missing key help footer")
	}
}

func TestTUIAnnotationsMessage(t *testing.T) {
	m := newTestTUIModel(t)

	m.Update(annotationsMsg{feature: "f1", anns: []database.Annotation{
		{Type: "common", Description: "higher in gut"},
	}})
	if m.status != "f1" {
		t.Errorf("status = %q, want feature id", m.status)
	}
	if len(m.annotations) != 1 || !strings.Contains(m.annotations[0], "higher in gut") {
		t.Errorf("annotations = %v", m.annotations)
	}

	m.Update(annotationsMsg{feature: "f2"})
	if !strings.Contains(m.status, "no annotations") {
		t.Errorf("status = %q, want no-annotations notice", m.status)
	}
	if len(m.annotations) != 0 {
		t.Errorf("annotations not cleared: %v", m.annotations)
	}
}
