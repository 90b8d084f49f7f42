package heatmap

import (
	"image/color"
	"testing"

	"github.com/mhelland/seqheat/pkg/canvas"
)

func TestColorBarOneRectPerRun(t *testing.T) {
	surf := &recordingSurface{}
	err := ColorBar(surf, []string{"a", "a", "b", "b", "b", "a"}, 0.3, 0, AxisX)
	if err != nil {
		t.Fatalf("ColorBar: %v", err)
	}
	if len(surf.rects) != 3 {
		t.Fatalf("drew %d rects, want 3", len(surf.rects))
	}

	// First run: columns 0-1, so the segment spans -0.5 to 1.5.
	first := surf.rects[0]
	if first.x != -0.5 || first.w != 2 {
		t.Errorf("first segment x=%v w=%v, want x=-0.5 w=2", first.x, first.w)
	}
	if first.y != 0 || first.h != 0.3 {
		t.Errorf("first segment y=%v h=%v, want y=0 h=0.3", first.y, first.h)
	}

	if len(surf.notes) != 3 {
		t.Fatalf("drew %d labels, want 3", len(surf.notes))
	}
	// Label sits at the run center.
	if surf.notes[0].text != "a" || surf.notes[0].x != 0.5 {
		t.Errorf("first label %q at x=%v, want \"a\" at 0.5", surf.notes[0].text, surf.notes[0].x)
	}
	if surf.notes[0].vertical {
		t.Error("horizontal bar drew a vertical label")
	}
}

func TestColorBarSkipsEmptySentinel(t *testing.T) {
	surf := &recordingSurface{}
	err := ColorBar(surf, []string{"", "", "a", "a", ""}, 0.3, 0, AxisX)
	if err != nil {
		t.Fatalf("ColorBar: %v", err)
	}
	if len(surf.rects) != 1 {
		t.Fatalf("drew %d rects, want 1 (sentinel runs skipped)", len(surf.rects))
	}
	if got := surf.rects[0]; got.x != 1.5 || got.w != 2 {
		t.Errorf("segment x=%v w=%v, want x=1.5 w=2", got.x, got.w)
	}
	// The sentinel holds the first palette slot, so "a" gets the second.
	if got := surf.rects[0].fill; got != canvas.Dark2[1] {
		t.Errorf("segment fill = %v, want %v", got, canvas.Dark2[1])
	}
}

func TestColorBarAllSentinel(t *testing.T) {
	surf := &recordingSurface{}
	if err := ColorBar(surf, []string{"", ""}, 0.3, 0, AxisX); err != nil {
		t.Fatalf("ColorBar: %v", err)
	}
	if len(surf.rects) != 0 || len(surf.notes) != 0 {
		t.Errorf("all-sentinel bar drew %d rects, %d labels", len(surf.rects), len(surf.notes))
	}
}

func TestColorBarVertical(t *testing.T) {
	surf := &recordingSurface{}
	if err := ColorBar(surf, []string{"x", "x", "y"}, 0.3, 0.35, AxisY); err != nil {
		t.Fatalf("ColorBar: %v", err)
	}
	first := surf.rects[0]
	if first.x != 0.35 || first.w != 0.3 {
		t.Errorf("vertical segment x=%v w=%v, want x=0.35 w=0.3", first.x, first.w)
	}
	if first.y != -0.5 || first.h != 2 {
		t.Errorf("vertical segment y=%v h=%v, want y=-0.5 h=2", first.y, first.h)
	}
	if !surf.notes[0].vertical {
		t.Error("vertical bar label not rotated")
	}
}

func TestColorBarEmptyInput(t *testing.T) {
	if err := ColorBar(&recordingSurface{}, nil, 0.3, 0, AxisX); err == nil {
		t.Fatal("expected error for empty values")
	}
}

// Colors are assigned over sorted unique values, so appearance order does
// not change the mapping.
func TestAssignColorsSortedAndCycling(t *testing.T) {
	palette := []color.Color{
		color.RGBA{R: 1, A: 255},
		color.RGBA{R: 2, A: 255},
	}

	got := assignColors([]string{"b", "a", "", "c"}, palette)
	// Sorted unique order is "", "a", "b", "c"; the sentinel sorts first
	// and takes a slot even though its runs are never drawn.
	if got[""] != palette[0] || got["a"] != palette[1] {
		t.Errorf("sorted assignment wrong: \"\"=%v a=%v", got[""], got["a"])
	}
	// Later values wrap around the two-color palette.
	if got["b"] != palette[0] || got["c"] != palette[1] {
		t.Errorf("cycling assignment wrong: b=%v c=%v", got["b"], got["c"])
	}

	// Without a sentinel the same values shift down one slot.
	got = assignColors([]string{"b", "a", "c"}, palette)
	if got["a"] != palette[0] || got["b"] != palette[1] || got["c"] != palette[0] {
		t.Errorf("assignment without sentinel wrong: a=%v b=%v c=%v", got["a"], got["b"], got["c"])
	}
}

func TestColorBarDefaultPalette(t *testing.T) {
	surf := &recordingSurface{}
	if err := ColorBar(surf, []string{"a", "b"}, 0.3, 0, AxisX); err != nil {
		t.Fatalf("ColorBar: %v", err)
	}
	if surf.rects[0].fill != canvas.Dark2[0] {
		t.Errorf("first sorted value fill = %v, want %v", surf.rects[0].fill, canvas.Dark2[0])
	}
}
