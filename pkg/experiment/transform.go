package experiment

import "math"

// Transform produces a transformed copy of an experiment. Implementations
// must not mutate their argument; the heatmap renderer relies on that to
// keep the caller's object untouched.
type Transform func(*Experiment) (*Experiment, error)

// DefaultPseudoCount is the abundance floor applied by the default log
// transform. Zeros in sequencing data would otherwise map to -Inf.
const DefaultPseudoCount = 1.0

// LogN returns a transform that floors values at pseudocount and then takes
// log2. This is the default transform applied before rendering a heatmap.
func LogN(pseudocount float64) Transform {
	return func(e *Experiment) (*Experiment, error) {
		out := e.Copy()
		data := out.GetData(false)
		for i := range data {
			for j := range data[i] {
				v := data[i][j]
				if v < pseudocount {
					v = pseudocount
				}
				data[i][j] = math.Log2(v)
			}
		}
		return out, nil
	}
}

// Identity returns the experiment unchanged (no copy). Useful when the
// caller wants raw abundances on the heatmap.
func Identity(e *Experiment) (*Experiment, error) {
	return e, nil
}
