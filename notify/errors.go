package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrCallback records one subscriber whose callback failed during a broadcast.
type ErrCallback struct {
	// ID is the subscription id, or uuid.Nil for targeted Notify calls.
	ID uuid.UUID
	// Index is the subscriber's position in the broadcast sweep.
	Index int
	Err   error
}

func (e *ErrCallback) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("notify: subscriber callback failed: %v", e.Err)
	}

	return fmt.Sprintf("notify: subscriber %d (%s) callback failed: %v", e.Index, e.ID, e.Err)
}

func (e *ErrCallback) Unwrap() error { return e.Err }

// ErrBroadcast is returned by NotifyAll after a full sweep in which at least
// one subscriber failed. errors.Is and errors.As look through every failure.
type ErrBroadcast struct {
	// Notified is the number of subscribers visited.
	Notified int
	Failures []*ErrCallback
}

func (e *ErrBroadcast) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("notify: 1 of %d subscribers failed: %v", e.Notified, e.Failures[0].Err)
	}

	return fmt.Sprintf("notify: %d of %d subscribers failed", len(e.Failures), e.Notified)
}

func (e *ErrBroadcast) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}

	return errs
}

// ErrArgument is returned by callback adapters when the arguments supplied at
// broadcast time do not match the callback's signature.
type ErrArgument struct {
	Want string
	Got  []any
}

func (e *ErrArgument) Error() string {
	return fmt.Sprintf("notify: callback expects %s, got %d argument(s) %v", e.Want, len(e.Got), e.Got)
}
