package fsm

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when Input, Start or Stop is called on a machine
// that has no current state, either because it was never initialized or because
// it has been stopped.
type ErrNotInitialized struct {
	// Op is the operation that was attempted ("Input", "Start", "Stop").
	Op string
}

func (e *ErrNotInitialized) Error() string {
	return fmt.Sprintf("fsm: %s called on a machine with no current state", e.Op)
}

// ErrUndefinedTransition is returned under the ErrorOnMiss policy when the
// transition table has no entry for the current state and input.
type ErrUndefinedTransition struct {
	From  any
	Input any
	// MissingRow is true when the current state has no row in the table at all,
	// false when the row exists but lacks the input.
	MissingRow bool
}

func (e *ErrUndefinedTransition) Error() string {
	if e.MissingRow {
		return fmt.Sprintf("fsm: state %v has no transitions (input %v)", e.From, e.Input)
	}

	return fmt.Sprintf("fsm: no transition for input %v from state %v", e.Input, e.From)
}

// ErrInvalidOperation is returned when an operation is not valid for the
// machine's current configuration, such as initializing a machine that already
// holds a different transition table.
type ErrInvalidOperation struct {
	Op     string
	Reason string
}

func (e *ErrInvalidOperation) Error() string {
	return fmt.Sprintf("fsm: invalid %s: %s", e.Op, e.Reason)
}

// ErrCallback is returned when a lifecycle hook (OnEnter, OnExit) or a
// transition hook returns an error or panics. It wraps the original error,
// allowing it to be inspected using errors.Is and errors.As.
type ErrCallback struct {
	// HookType is the kind of hook that failed ("OnEnter", "OnExit", "OnTransition").
	HookType string
	// State is the state the hook ran for. It is nil for transition hooks.
	State any
	// Err is the error returned by the hook or the error built from a recovered panic.
	Err error
}

func (e *ErrCallback) Error() string {
	if e.State != nil {
		return fmt.Sprintf("fsm: error in %s callback for state %v: %v", e.HookType, e.State, e.Err)
	}

	return fmt.Sprintf("fsm: error in %s hook: %v", e.HookType, e.Err)
}

func (e *ErrCallback) Unwrap() error { return e.Err }

// ErrUnknownState is returned when unmarshaling a snapshot that refers to a
// state the machine's table does not know about.
type ErrUnknownState struct {
	State any
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("fsm: unknown state %v encountered during unmarshaling", e.State)
}

func IsNotInitialized(err error) bool {
	var e *ErrNotInitialized
	return errors.As(err, &e)
}

func IsUndefinedTransition(err error) bool {
	var e *ErrUndefinedTransition
	return errors.As(err, &e)
}

func IsInvalidOperation(err error) bool {
	var e *ErrInvalidOperation
	return errors.As(err, &e)
}

func IsCallbackError(err error) bool {
	var e *ErrCallback
	return errors.As(err, &e)
}
