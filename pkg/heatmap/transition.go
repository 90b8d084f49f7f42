package heatmap

import (
	"reflect"

	seqerrors "github.com/mhelland/seqheat/pkg/errors"
)

// Transition describes one maximal run of equal values in a sequence:
// Value repeated from the previous record's End (or 0) up to End.
type Transition struct {
	// End is one past the last index of the run.
	End int
	// Value is the run's representative value.
	Value any
}

// TransitionIndex scans values and returns one Transition per maximal run.
// End indices are strictly increasing and the last equals len(values), so
// the records partition the sequence exactly.
//
// Equality is type-tagged: two elements belong to the same run only when
// both their dynamic types and their values match, so the int 1 and the
// string "1" never merge, and nil only runs together with nil.
//
// An empty sequence has no defined run structure and fails.
func TransitionIndex(values []any) ([]Transition, error) {
	if len(values) == 0 {
		return nil, seqerrors.New(seqerrors.ErrCodeEmptySequence, "cannot scan an empty sequence for transitions")
	}

	out := make([]Transition, 0, 1)
	current := values[0]
	for i := 1; i < len(values); i++ {
		if !sameRun(current, values[i]) {
			out = append(out, Transition{End: i, Value: current})
			current = values[i]
		}
	}
	return append(out, Transition{End: len(values), Value: current}), nil
}

func sameRun(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
