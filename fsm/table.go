package fsm

import "github.com/enetx/g"

// Row maps an input to the next state. It is the per-state slice of a Table.
type Row[I, S comparable] map[I]S

// GetOr returns the state the row maps input to, or fallback when the row has
// no entry for it. This is the resolution used by the StayOnMiss policy with
// the current state as fallback.
func (r Row[I, S]) GetOr(input I, fallback S) S {
	if next, ok := r[input]; ok {
		return next
	}

	return fallback
}

// Table maps (current state, input) to the next state. Missing entries are
// allowed; the machine's Policy decides what a miss means.
type Table[S, I comparable] map[S]Row[I, S]

// NewTable returns an empty table ready for chained Transition calls.
func NewTable[S, I comparable]() Table[S, I] { return make(Table[S, I]) }

// Transition adds from -> input -> to, replacing any previous entry for
// (from, input).
func (t Table[S, I]) Transition(from S, input I, to S) Table[S, I] {
	row, ok := t[from]
	if !ok {
		row = make(Row[I, S])
		t[from] = row
	}

	row[input] = to

	return t
}

// Self maps every given input of state back to state.
func (t Table[S, I]) Self(state S, inputs ...I) Table[S, I] {
	for _, input := range inputs {
		t.Transition(state, input, state)
	}

	return t
}

// Row returns the row of state, if any.
func (t Table[S, I]) Row(state S) (Row[I, S], bool) {
	row, ok := t[state]
	return row, ok
}

// Lookup resolves (from, input) strictly: a missing row or a missing input
// both yield *ErrUndefinedTransition.
func (t Table[S, I]) Lookup(from S, input I) (S, error) {
	row, ok := t[from]
	if !ok {
		var zero S
		return zero, &ErrUndefinedTransition{From: from, Input: input, MissingRow: true}
	}

	next, ok := row[input]
	if !ok {
		var zero S
		return zero, &ErrUndefinedTransition{From: from, Input: input}
	}

	return next, nil
}

// Has reports whether state has a row or is the target of some transition.
func (t Table[S, I]) Has(state S) bool {
	return t.stateSet().Contains(state)
}

// States returns every state that owns a row or is the target of a transition.
func (t Table[S, I]) States() g.Slice[S] {
	return t.stateSet().ToSlice()
}

func (t Table[S, I]) stateSet() g.Set[S] {
	set := g.NewSet[S]()

	for from, row := range t {
		set.Insert(from)
		for _, to := range row {
			set.Insert(to)
		}
	}

	return set
}

// Clone returns a deep copy of the table.
func (t Table[S, I]) Clone() Table[S, I] {
	if t == nil {
		return nil
	}

	clone := make(Table[S, I], len(t))
	for from, row := range t {
		r := make(Row[I, S], len(row))
		for input, to := range row {
			r[input] = to
		}

		clone[from] = r
	}

	return clone
}

// Equal reports whether both tables contain exactly the same rows and entries.
func (t Table[S, I]) Equal(other Table[S, I]) bool {
	if len(t) != len(other) {
		return false
	}

	for from, row := range t {
		o, ok := other[from]
		if !ok || len(o) != len(row) {
			return false
		}

		for input, to := range row {
			if next, ok := o[input]; !ok || next != to {
				return false
			}
		}
	}

	return true
}
