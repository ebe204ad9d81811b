package fsm

import "github.com/enetx/g"

// StateMachine is the behavior shared by FSM and SyncFSM.
type StateMachine[S, I comparable] interface {
	Initialize(initial S, table Table[S, I]) error
	Reset(initial S, table Table[S, I])
	Start(input I) error
	Stop(input I) error
	Input(input I) error
	CanInput(input I) bool
	Current() (S, bool)
	Ready() bool
	History() g.Slice[S]
	States() g.Slice[S]
	ToDOT() g.String
	MarshalJSON() ([]byte, error)
	UnmarshalJSON(data []byte) error
}

var (
	_ StateMachine[string, string] = (*FSM[string, string])(nil)
	_ StateMachine[string, string] = (*SyncFSM[string, string])(nil)
)
