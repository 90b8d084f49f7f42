// Package experiment holds the samples-by-features abundance data that the
// heatmap renderers consume.
//
// An Experiment couples a dense numeric matrix with two ordered metadata
// tables: one describing samples (matrix rows) and one describing features
// (matrix columns). Metadata values are heterogeneous - a column may mix
// strings, integers, floats and missing values - which is why the renderers
// compare them with type-tagged equality instead of string equality.
//
// Experiments are read from tab-separated files (see LoadTSVFile) and are
// never mutated by the plotting layer: renderers transform copies, and the
// sort-and-plot wrapper sorts a Copy.
package experiment

import (
	"fmt"
	"sort"

	"github.com/mhelland/seqheat/pkg/errors"
)

// Experiment is an abundance matrix with aligned sample and feature metadata.
type Experiment struct {
	data [][]float64 // samples x features

	// Samples holds per-sample metadata; row i describes matrix row i.
	Samples *Table

	// Features holds per-feature metadata; row j describes matrix column j.
	Features *Table

	// Description is a free-text label used as the default plot title.
	Description string

	// HeatmapFeatureField is the feature metadata field shown on the y axis
	// when the caller does not pick one explicitly.
	HeatmapFeatureField string

	// HeatmapDatabases names the annotation databases attached by default
	// when plotting interactively.
	HeatmapDatabases []string
}

// New creates an experiment from a dense matrix and metadata tables.
// The matrix must be rectangular and its dimensions must match the tables:
// len(data) sample rows and len(data[0]) feature columns.
func New(data [][]float64, samples, features *Table) (*Experiment, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeShape, "experiment needs at least one sample")
	}
	cols := len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeShape, "row %d has %d values, want %d", i, len(row), cols)
		}
	}
	if samples == nil {
		samples = NewTable(len(data))
	}
	if features == nil {
		features = NewTable(cols)
	}
	if samples.Len() != len(data) {
		return nil, errors.New(errors.ErrCodeShape, "sample metadata has %d rows, matrix has %d samples", samples.Len(), len(data))
	}
	if features.Len() != cols {
		return nil, errors.New(errors.ErrCodeShape, "feature metadata has %d rows, matrix has %d features", features.Len(), cols)
	}
	return &Experiment{data: data, Samples: samples, Features: features}, nil
}

// Shape returns (samples, features).
func (e *Experiment) Shape() (int, int) {
	if len(e.data) == 0 {
		return 0, 0
	}
	return len(e.data), len(e.data[0])
}

// Get returns the raw abundance value at (sample, feature).
// Indices are not bounds-checked; callers validate against Shape.
func (e *Experiment) Get(sample, feature int) float64 {
	return e.data[sample][feature]
}

// GetData returns the abundance matrix. When copyData is true the returned
// slices are independent of the experiment; otherwise the caller shares the
// backing arrays and must not mutate them.
func (e *Experiment) GetData(copyData bool) [][]float64 {
	if !copyData {
		return e.data
	}
	out := make([][]float64, len(e.data))
	for i, row := range e.data {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// SetData replaces the matrix. The new matrix must have the same shape.
func (e *Experiment) SetData(data [][]float64) error {
	ns, nf := e.Shape()
	if len(data) != ns {
		return errors.New(errors.ErrCodeShape, "new data has %d samples, want %d", len(data), ns)
	}
	for i, row := range data {
		if len(row) != nf {
			return errors.New(errors.ErrCodeShape, "new data row %d has %d values, want %d", i, len(row), nf)
		}
	}
	e.data = data
	return nil
}

// SampleField returns the named sample metadata column in sample order.
func (e *Experiment) SampleField(field string) ([]any, error) {
	values, err := e.Samples.Field(field)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFieldNotFound, "sample field %q not in sample metadata", field)
	}
	return values, nil
}

// FeatureField returns the named feature metadata column in feature order.
func (e *Experiment) FeatureField(field string) ([]any, error) {
	values, err := e.Features.Field(field)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFieldNotFound, "feature field %q not in feature metadata", field)
	}
	return values, nil
}

// Copy returns a deep copy: the matrix and both metadata tables are
// duplicated so mutations of the copy never affect the original.
func (e *Experiment) Copy() *Experiment {
	return &Experiment{
		data:                e.GetData(true),
		Samples:             e.Samples.Copy(),
		Features:            e.Features.Copy(),
		Description:         e.Description,
		HeatmapFeatureField: e.HeatmapFeatureField,
		HeatmapDatabases:    append([]string(nil), e.HeatmapDatabases...),
	}
}

// SortSamples reorders samples in place by the given metadata field.
// The sort is stable, so sorting by several fields in sequence yields a
// hierarchical ordering with the last field as the primary key.
func (e *Experiment) SortSamples(field string) error {
	values, err := e.SampleField(field)
	if err != nil {
		return err
	}

	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return compareValues(values[perm[a]], values[perm[b]]) < 0
	})

	data := make([][]float64, len(e.data))
	for i, p := range perm {
		data[i] = e.data[p]
	}
	e.data = data
	e.Samples.reorder(perm)
	return nil
}

// compareValues orders heterogeneous metadata values: nil sorts first,
// numbers sort numerically, everything else by its string form.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
