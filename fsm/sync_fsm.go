package fsm

import (
	"sync"

	"github.com/enetx/g"
)

// SyncFSM is a thread-safe wrapper around an FSM. Every method takes the
// wrapper's lock, so a hook that calls back into the same SyncFSM deadlocks.
type SyncFSM[S, I comparable] struct {
	fsm *FSM[S, I]
	mu  sync.RWMutex
}

// Initialize is the thread-safe version of FSM.Initialize.
func (sf *SyncFSM[S, I]) Initialize(initial S, table Table[S, I]) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Initialize(initial, table)
}

// Reset is the thread-safe version of FSM.Reset.
func (sf *SyncFSM[S, I]) Reset(initial S, table Table[S, I]) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.fsm.Reset(initial, table)
}

// Start is the thread-safe version of FSM.Start.
func (sf *SyncFSM[S, I]) Start(input I) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Start(input)
}

// Stop is the thread-safe version of FSM.Stop.
func (sf *SyncFSM[S, I]) Stop(input I) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Stop(input)
}

// Input is the thread-safe version of FSM.Input.
// It atomically executes the whole exit, re-point, enter sequence.
func (sf *SyncFSM[S, I]) Input(input I) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Input(input)
}

// CanInput is the thread-safe version of FSM.CanInput.
func (sf *SyncFSM[S, I]) CanInput(input I) bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.CanInput(input)
}

// Current is the thread-safe version of FSM.Current.
func (sf *SyncFSM[S, I]) Current() (S, bool) {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Current()
}

// Ready is the thread-safe version of FSM.Ready.
func (sf *SyncFSM[S, I]) Ready() bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Ready()
}

// History is the thread-safe version of FSM.History.
func (sf *SyncFSM[S, I]) History() g.Slice[S] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.History()
}

// States is the thread-safe version of FSM.States.
func (sf *SyncFSM[S, I]) States() g.Slice[S] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.States()
}

// ToDOT is the thread-safe version of FSM.ToDOT.
func (sf *SyncFSM[S, I]) ToDOT() g.String {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.ToDOT()
}

// MarshalJSON implements the json.Marshaler interface for thread-safe
// serialization of the FSM's state to JSON.
func (sf *SyncFSM[S, I]) MarshalJSON() ([]byte, error) {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for thread-safe
// deserialization of the FSM's state from JSON.
func (sf *SyncFSM[S, I]) UnmarshalJSON(data []byte) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.UnmarshalJSON(data)
}
