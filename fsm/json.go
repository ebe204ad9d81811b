package fsm

import (
	"encoding/json"
	"fmt"

	"github.com/enetx/g"
)

// Snapshot is a serializable representation of the machine's position. The
// table and hooks are configuration and are not part of it.
type Snapshot[S comparable] struct {
	Current S          `json:"current"`
	Ready   bool       `json:"ready"`
	History g.Slice[S] `json:"history"`
}

// MarshalJSON implements the json.Marshaler interface.
func (f *FSM[S, I]) MarshalJSON() ([]byte, error) {
	return json.Marshal(Snapshot[S]{
		Current: f.current,
		Ready:   f.ready,
		History: f.history.Clone(),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. Every state in the
// snapshot must be known to the machine's table.
func (f *FSM[S, I]) UnmarshalJSON(data []byte) error {
	var snap Snapshot[S]
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal fsm state: %w", err)
	}

	known := g.NewSet[S]()
	for _, state := range f.States() {
		known.Insert(state)
	}

	if snap.Ready && !known.Contains(snap.Current) {
		return &ErrUnknownState{State: snap.Current}
	}

	for _, state := range snap.History {
		if !known.Contains(state) {
			return &ErrUnknownState{State: state}
		}
	}

	var zero S
	if !snap.Ready {
		snap.Current = zero
	}

	f.current = snap.Current
	f.ready = snap.Ready
	f.history = snap.History

	return nil
}
