package canvas

import (
	"github.com/montanaflynn/stats"
)

// DefaultLimits computes color limits for a matrix when the caller supplies
// none. The 1st and 99th percentiles are used instead of the raw min/max so
// a handful of outlier abundances cannot wash out the whole map.
func DefaultLimits(data [][]float64) (lo, hi float64) {
	var flat []float64
	for _, row := range data {
		flat = append(flat, row...)
	}
	if len(flat) == 0 {
		return 0, 1
	}

	lo, errLo := stats.Percentile(flat, 1)
	hi, errHi := stats.Percentile(flat, 99)
	if errLo != nil || errHi != nil || lo >= hi {
		// Tiny or constant inputs: fall back to the full range.
		lo, _ = stats.Min(flat)
		hi, _ = stats.Max(flat)
		if lo >= hi {
			hi = lo + 1
		}
	}
	return lo, hi
}

// Normalize maps v into [0, 1] given color limits.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
