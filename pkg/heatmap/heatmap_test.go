package heatmap

import (
	"math"
	"strings"
	"testing"

	"github.com/mhelland/seqheat/pkg/experiment"
	seqerrors "github.com/mhelland/seqheat/pkg/errors"
)

// testExperiment builds 4 samples x 2 features with a sorted group column.
func testExperiment(t *testing.T) *experiment.Experiment {
	t.Helper()

	samples := experiment.NewTable(4)
	for name, values := range map[string][]any{
		"id":    {"s1", "s2", "s3", "s4"},
		"group": {"a", "a", "b", "b"},
		"site":  {"gut", "gut", "gut", "skin"},
	} {
		if err := samples.AddField(name, values); err != nil {
			t.Fatal(err)
		}
	}

	features := experiment.NewTable(2)
	for name, values := range map[string][]any{
		"id":       {"AACG", "GGTT"},
		"taxonomy": {"k__Bacteria;p__Firmicutes", "k__Bacteria;p__Bacteroidetes"},
	} {
		if err := features.AddField(name, values); err != nil {
			t.Fatal(err)
		}
	}

	e, err := experiment.New([][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
		{7, 8},
	}, samples, features)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRenderTransposesGrid(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	if err := Render(e, surf, WithTransform(experiment.Identity)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(surf.grid) != 2 || len(surf.grid[0]) != 4 {
		t.Fatalf("grid is %dx%d, want 2 rows x 4 cols", len(surf.grid), len(surf.grid[0]))
	}
	// Feature 1 of sample 2 lands at row 1, column 2.
	if surf.grid[1][2] != 6 {
		t.Errorf("grid[1][2] = %v, want 6", surf.grid[1][2])
	}
}

func TestRenderDefaultTransformIsLog(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	if err := Render(e, surf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := surf.grid[0][0], math.Log2(1); got != want {
		t.Errorf("grid[0][0] = %v, want log2(1) = %v", got, want)
	}
	// The caller's matrix stays untouched.
	if e.Get(0, 0) != 1 {
		t.Errorf("render mutated the experiment: data[0][0] = %v", e.Get(0, 0))
	}
}

func TestRenderSampleFieldGroups(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	if err := Render(e, surf, WithSampleField("group")); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Two runs (a: 0-1, b: 2-3) share one boundary at x = 1.5.
	if len(surf.vlines) != 1 || surf.vlines[0] != 1.5 {
		t.Errorf("vlines = %v, want [1.5]", surf.vlines)
	}
	if len(surf.xtickPos) != 2 {
		t.Fatalf("tick count = %d, want 2", len(surf.xtickPos))
	}
	if surf.xtickPos[0] != 0.5 || surf.xtickPos[1] != 2.5 {
		t.Errorf("tick positions = %v, want [0.5 2.5]", surf.xtickPos)
	}
	if surf.xtickLabels[0] != "a" || surf.xtickLabels[1] != "b" {
		t.Errorf("tick labels = %v", surf.xtickLabels)
	}
	if surf.xtickRot != DefaultXTickRotation {
		t.Errorf("rotation = %v, want %v", surf.xtickRot, DefaultXTickRotation)
	}
	if surf.xlabel != "group" {
		t.Errorf("xlabel = %q, want %q", surf.xlabel, "group")
	}
	if surf.xHidden {
		t.Error("sample axis hidden despite a sample field")
	}
}

func TestRenderUnknownSampleField(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	err := Render(e, surf, WithSampleField("nope"))
	if !seqerrors.Is(err, seqerrors.ErrCodeFieldNotFound) {
		t.Fatalf("error = %v, want FIELD_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error %q does not name the field", err.Error())
	}
	// The failed render must not leave partial output behind.
	if len(surf.vlines) != 0 || surf.grid != nil {
		t.Error("failed render drew gridlines or the grid")
	}
}

func TestRenderNoSampleFieldHidesXAxis(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	if err := Render(e, surf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !surf.xHidden {
		t.Error("sample axis not hidden without a sample field")
	}
	if len(surf.vlines) != 0 {
		t.Errorf("drew %d gridlines without a sample field", len(surf.vlines))
	}
}

func TestRenderYTickModes(t *testing.T) {
	e := testExperiment(t)

	t.Run("cap zero hides the axis", func(t *testing.T) {
		surf := &recordingSurface{}
		if err := Render(e, surf, WithMaxYTickLabels(0)); err != nil {
			t.Fatal(err)
		}
		if !surf.yHidden {
			t.Error("y axis not hidden with a zero cap")
		}
		if surf.yLocatorMax != 0 || len(surf.ytickPos) != 0 {
			t.Error("zero cap still placed ticks")
		}
	})

	t.Run("all shows one tick per feature", func(t *testing.T) {
		surf := &recordingSurface{}
		if err := Render(e, surf, WithAllYTickLabels()); err != nil {
			t.Fatal(err)
		}
		if len(surf.ytickPos) != 2 {
			t.Fatalf("tick count = %d, want one per feature", len(surf.ytickPos))
		}
		if surf.ytickLabels[0] != "k__Bacteria;p__" {
			t.Errorf("label = %q, want the right-truncated taxonomy", surf.ytickLabels[0])
		}
	})

	t.Run("positive cap installs a locator", func(t *testing.T) {
		surf := &recordingSurface{}
		if err := Render(e, surf, WithMaxYTickLabels(50)); err != nil {
			t.Fatal(err)
		}
		if surf.yLocatorMax != 50 {
			t.Errorf("locator cap = %d, want 50", surf.yLocatorMax)
		}
		if got := surf.yLocator(0); got != "k__Bacteria;p__" {
			t.Errorf("locator(0) = %q", got)
		}
		if got := surf.yLocator(99); got != "" {
			t.Errorf("locator out of range = %q, want empty", got)
		}
	})

	t.Run("no feature field hides the axis", func(t *testing.T) {
		surf := &recordingSurface{}
		if err := Render(e, surf, WithoutFeatureField()); err != nil {
			t.Fatal(err)
		}
		if !surf.yHidden {
			t.Error("y axis not hidden")
		}
	})
}

func TestRenderFeatureFieldDefaults(t *testing.T) {
	e := testExperiment(t)
	e.HeatmapFeatureField = "taxonomy"
	surf := &recordingSurface{}
	if err := Render(e, surf, WithAllYTickLabels()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(surf.ytickLabels[0], "k__") {
		t.Errorf("default feature field not used, label = %q", surf.ytickLabels[0])
	}

	surf = &recordingSurface{}
	if err := Render(e, surf, WithAllYTickLabels(), WithFeatureField("id")); err != nil {
		t.Fatal(err)
	}
	if surf.ytickLabels[0] != "AACG" {
		t.Errorf("explicit feature field not used, label = %q", surf.ytickLabels[0])
	}
}

func TestRenderCoordFormatter(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	if err := Render(e, surf, WithTransform(experiment.Identity)); err != nil {
		t.Fatal(err)
	}
	if surf.coord == nil {
		t.Fatal("no coordinate formatter installed")
	}

	// (2.2, 0.9) rounds to column 2, row 1 -> transposed value 6.
	got := surf.coord(2.2, 0.9)
	if got != "x=2.20, y=0.90, z=6.00" {
		t.Errorf("readout = %q", got)
	}
	// Out of bounds reports coordinates only.
	if got := surf.coord(-3, 0); strings.Contains(got, "z=") {
		t.Errorf("out-of-bounds readout reports a value: %q", got)
	}
}

func TestRenderCoordFormatterReportsRawValue(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	// Default log transform: the image shows log2 values, the readout
	// still reports the stored abundance.
	if err := Render(e, surf); err != nil {
		t.Fatal(err)
	}
	// Cell at column 3, row 1 holds raw 8 (shown as log2(8) = 3).
	if got := surf.coord(3, 1); got != "x=3.00, y=1.00, z=8.00" {
		t.Errorf("readout = %q, want the raw value 8.00", got)
	}
}

func TestRenderSetsFeatureAxisLabel(t *testing.T) {
	e := testExperiment(t)

	surf := &recordingSurface{}
	if err := Render(e, surf, WithFeatureField("taxonomy"), WithAllYTickLabels()); err != nil {
		t.Fatal(err)
	}
	if surf.ylabel != "taxonomy" {
		t.Errorf("ylabel = %q, want the feature field", surf.ylabel)
	}

	// The dynamic locator mode labels the axis with the resolved default.
	surf = &recordingSurface{}
	if err := Render(e, surf); err != nil {
		t.Fatal(err)
	}
	if surf.ylabel != "id" {
		t.Errorf("ylabel = %q, want the id fallback", surf.ylabel)
	}

	surf = &recordingSurface{}
	if err := Render(e, surf, WithoutFeatureField()); err != nil {
		t.Fatal(err)
	}
	if surf.ylabel != "" {
		t.Errorf("ylabel = %q on a hidden feature axis", surf.ylabel)
	}
}

func TestRenderViewportAndStyle(t *testing.T) {
	e := testExperiment(t)
	surf := &recordingSurface{}
	err := Render(e, surf,
		WithViewport(0.5, 3.5, -0.5, 1.5),
		WithColormap("inferno"),
		WithCLim(0, 10),
		WithTitle("mouse gut"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if surf.viewport == nil || surf.viewport[0] != 0.5 {
		t.Errorf("viewport = %v", surf.viewport)
	}
	if surf.colormap != "inferno" {
		t.Errorf("colormap = %q", surf.colormap)
	}
	if surf.clim[0] != 0 || surf.clim[1] != 10 {
		t.Errorf("clim = %v", surf.clim)
	}
	if surf.title != "mouse gut" {
		t.Errorf("title = %q", surf.title)
	}
}

func TestElideMiddle(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{s: "short", max: 10, want: "short"},
		{s: "proximal_gut", max: 6, want: "pro..gut"},
		{s: "abcdefghijkl", max: 10, want: "abcde..hijkl"},
		{s: "whatever", max: 0, want: "whatever"},
	}
	for _, tt := range tests {
		if got := elideMiddle(tt.s, tt.max); got != tt.want {
			t.Errorf("elideMiddle(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
