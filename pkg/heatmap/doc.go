// Package heatmap renders interactive heatmaps of samples-by-features
// abundance matrices.
//
// The matrix is drawn transposed (features as rows, samples as columns)
// with categorical color bars along either axis marking metadata groups.
// Group boundaries are found by scanning metadata columns for runs of equal
// values; the same scan segments the color bars and places the axis ticks.
//
// Plot is the main entry point: it renders the heatmap, overlays the
// requested color bars and hands the result to an interactive controller
// (terminal prompt, full-screen TUI, or local web page) that answers
// cell lookups and annotation queries until the session ends. PlotSort
// sorts a copy of the experiment by one or more sample metadata fields
// before plotting. Render draws onto a caller-supplied surface without
// any interactivity.
package heatmap
