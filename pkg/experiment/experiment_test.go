package experiment

import (
	"math"
	"reflect"
	"testing"
)

// testExperiment builds a small 3x2 experiment with a "group" sample field.
func testExperiment(t *testing.T) *Experiment {
	t.Helper()

	samples := NewTable(3)
	if err := samples.AddField(IDField, []any{"s1", "s2", "s3"}); err != nil {
		t.Fatal(err)
	}
	if err := samples.AddField("group", []any{"b", "a", "a"}); err != nil {
		t.Fatal(err)
	}

	features := NewTable(2)
	if err := features.AddField(IDField, []any{"f1", "f2"}); err != nil {
		t.Fatal(err)
	}

	e, err := New([][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	}, samples, features)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.HeatmapFeatureField = IDField
	return e
}

func TestNewShapeValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    [][]float64
		wantErr bool
	}{
		{
			name:    "rectangular",
			data:    [][]float64{{1, 2}, {3, 4}},
			wantErr: false,
		},
		{
			name:    "ragged",
			data:    [][]float64{{1, 2}, {3}},
			wantErr: true,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.data, nil, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShape(t *testing.T) {
	e := testExperiment(t)
	ns, nf := e.Shape()
	if ns != 3 || nf != 2 {
		t.Errorf("Shape() = (%d, %d), want (3, 2)", ns, nf)
	}
}

func TestGetDataCopyIsIndependent(t *testing.T) {
	e := testExperiment(t)
	data := e.GetData(true)
	data[0][0] = 99

	if e.Get(0, 0) != 1 {
		t.Errorf("Get(0,0) = %v after mutating copy, want 1", e.Get(0, 0))
	}
}

func TestSampleFieldNotFound(t *testing.T) {
	e := testExperiment(t)
	_, err := e.SampleField("nope")
	if err == nil {
		t.Fatal("SampleField(nope) error = nil, want error")
	}
}

func TestSortSamplesStable(t *testing.T) {
	e := testExperiment(t)
	if err := e.SortSamples("group"); err != nil {
		t.Fatalf("SortSamples() error = %v", err)
	}

	ids, _ := e.SampleField(IDField)
	// "a" samples first in their original relative order, then "b".
	want := []any{"s2", "s3", "s1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids after sort = %v, want %v", ids, want)
	}

	// Matrix rows move with the metadata.
	if e.Get(0, 0) != 3 {
		t.Errorf("Get(0,0) = %v after sort, want 3", e.Get(0, 0))
	}
}

func TestSortSamplesUnknownField(t *testing.T) {
	e := testExperiment(t)
	if err := e.SortSamples("nope"); err == nil {
		t.Fatal("SortSamples(nope) error = nil, want error")
	}
}

func TestCopyIsDeep(t *testing.T) {
	e := testExperiment(t)
	c := e.Copy()

	if err := c.SortSamples("group"); err != nil {
		t.Fatalf("SortSamples() error = %v", err)
	}
	c.GetData(false)[0][0] = 42

	ids, _ := e.SampleField(IDField)
	want := []any{"s1", "s2", "s3"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("original ids = %v after mutating copy, want %v", ids, want)
	}
	if e.Get(0, 0) != 1 {
		t.Errorf("original Get(0,0) = %v after mutating copy, want 1", e.Get(0, 0))
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil first", nil, "a", -1},
		{"both nil", nil, nil, 0},
		{"numeric order", 2, 10, -1},
		{"mixed int float", 2, 1.5, 1},
		{"string order", "a", "b", -1},
		{"equal strings", "x", "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLogN(t *testing.T) {
	e := testExperiment(t)
	out, err := LogN(1)(e)
	if err != nil {
		t.Fatalf("LogN() error = %v", err)
	}

	// log2(1) = 0 for the floored value, log2(4) = 2.
	if got := out.Get(0, 0); got != 0 {
		t.Errorf("transformed (0,0) = %v, want 0", got)
	}
	if got := out.Get(1, 1); got != 2 {
		t.Errorf("transformed (1,1) = %v, want 2", got)
	}

	// Original untouched.
	if e.Get(0, 0) != 1 {
		t.Errorf("original (0,0) = %v after transform, want 1", e.Get(0, 0))
	}
}

func TestLogNFloorsZeros(t *testing.T) {
	samples := NewTable(1)
	features := NewTable(2)
	e, err := New([][]float64{{0, 8}}, samples, features)
	if err != nil {
		t.Fatal(err)
	}

	out, err := LogN(1)(e)
	if err != nil {
		t.Fatalf("LogN() error = %v", err)
	}
	if got := out.Get(0, 0); got != 0 {
		t.Errorf("log of floored zero = %v, want 0", got)
	}
	if got := out.Get(0, 1); math.Abs(got-3) > 1e-12 {
		t.Errorf("log2(8) = %v, want 3", got)
	}
}
