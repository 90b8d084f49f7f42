package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mhelland/seqheat/pkg/errors"
)

// IDField is the metadata field holding sample/feature identifiers.
// It is always present: the loader fills it from the matrix header and
// first column, and metadata sidecars are aligned against it.
const IDField = "id"

// LoadOption configures LoadTSV.
type LoadOption func(*loader)

type loader struct {
	sampleMeta  io.Reader
	featureMeta io.Reader
	description string
}

// WithSampleMetadata attaches a sample metadata table read from r.
func WithSampleMetadata(r io.Reader) LoadOption {
	return func(l *loader) { l.sampleMeta = r }
}

// WithFeatureMetadata attaches a feature metadata table read from r.
func WithFeatureMetadata(r io.Reader) LoadOption {
	return func(l *loader) { l.featureMeta = r }
}

// WithDescription sets the experiment description (default plot title).
func WithDescription(s string) LoadOption {
	return func(l *loader) { l.description = s }
}

// LoadTSV reads an abundance matrix in TSV form: a header row of feature
// ids (first cell names the sample-id column), then one row per sample
// starting with its id. Metadata sidecars, when attached, are TSV tables
// whose first column is the id; rows are aligned to matrix order and ids
// missing from a sidecar get nil metadata values.
func LoadTSV(matrix io.Reader, opts ...LoadOption) (*Experiment, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	data, sampleIDs, featureIDs, err := readMatrix(matrix)
	if err != nil {
		return nil, err
	}

	samples := NewTable(len(sampleIDs))
	_ = samples.AddField(IDField, asAnySlice(sampleIDs))
	features := NewTable(len(featureIDs))
	_ = features.AddField(IDField, asAnySlice(featureIDs))

	if l.sampleMeta != nil {
		if err := attachMetadata(samples, l.sampleMeta, sampleIDs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "sample metadata")
		}
	}
	if l.featureMeta != nil {
		if err := attachMetadata(features, l.featureMeta, featureIDs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "feature metadata")
		}
	}

	e, err := New(data, samples, features)
	if err != nil {
		return nil, err
	}
	e.Description = l.description
	e.HeatmapFeatureField = IDField
	return e, nil
}

// LoadTSVFile reads a matrix file, attaching `<base>_sample.tsv` and
// `<base>_feature.tsv` sidecars when they exist next to it.
func LoadTSVFile(path string) (*Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	opts := []LoadOption{WithDescription(path)}

	base := path
	if n := len(path) - len(".tsv"); n > 0 && path[n:] == ".tsv" {
		base = path[:n]
	}
	for _, sidecar := range []struct {
		path string
		opt  func(io.Reader) LoadOption
	}{
		{base + "_sample.tsv", WithSampleMetadata},
		{base + "_feature.tsv", WithFeatureMetadata},
	} {
		sf, err := os.Open(sidecar.path)
		if err != nil {
			continue
		}
		defer sf.Close()
		opts = append(opts, sidecar.opt(sf))
	}

	return LoadTSV(f, opts...)
}

// WriteTSV writes the abundance matrix in the format LoadTSV reads.
func WriteTSV(e *Experiment, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	sampleIDs := idStrings(e.Samples)
	featureIDs := idStrings(e.Features)

	header := append([]string{IDField}, featureIDs...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range e.GetData(false) {
		record := make([]string, 0, len(row)+1)
		record = append(record, sampleIDs[i])
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSVFile writes the matrix to a file with 0644 permissions.
func WriteTSVFile(e *Experiment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTSV(e, f)
}

func readMatrix(r io.Reader) ([][]float64, []string, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, nil, errors.Wrap(errors.ErrCodeParse, err, "read matrix")
	}
	if len(records) < 2 {
		return nil, nil, nil, errors.New(errors.ErrCodeParse, "matrix needs a header and at least one sample row")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, nil, nil, errors.New(errors.ErrCodeParse, "matrix header needs at least one feature column")
	}
	featureIDs := header[1:]

	var (
		data      [][]float64
		sampleIDs []string
	)
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, nil, nil, errors.New(errors.ErrCodeParse, "row %d has %d columns, header has %d", i+1, len(record), len(header))
		}
		sampleIDs = append(sampleIDs, record[0])
		row := make([]float64, len(featureIDs))
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, nil, errors.Wrap(errors.ErrCodeParse, err, "row %d column %d", i+1, j+1)
			}
			row[j] = v
		}
		data = append(data, row)
	}
	return data, sampleIDs, featureIDs, nil
}

// attachMetadata reads a TSV metadata table and aligns its rows to ids.
func attachMetadata(t *Table, r io.Reader, ids []string) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	header := records[0]
	byID := make(map[string][]string, len(records)-1)
	for _, record := range records[1:] {
		byID[record[0]] = record
	}

	for col := 1; col < len(header); col++ {
		values := make([]any, len(ids))
		for i, id := range ids {
			record, ok := byID[id]
			if !ok || col >= len(record) {
				continue // leave nil for missing rows
			}
			values[i] = parseValue(record[col])
		}
		if err := t.AddField(header[col], values); err != nil {
			return err
		}
	}
	return nil
}

// parseValue converts a TSV cell to a typed value: empty cells become nil,
// numeric cells become int or float64, everything else stays a string.
func parseValue(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func asAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func idStrings(t *Table) []string {
	values, err := t.Field(IDField)
	if err != nil {
		out := make([]string, t.Len())
		for i := range out {
			out[i] = strconv.Itoa(i)
		}
		return out
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
