// Package fsm provides a generic, synchronous finite state machine driven by
// a transition table keyed by (current state, input). States expose OnEnter
// and OnExit lifecycle hooks; the machine calls them around every transition.
//
// A machine is either Unset (no current state) or Ready. New returns an Unset
// machine; Initialize or Reset make it Ready; Stop makes it Unset again.
//
// The machine is not safe for concurrent use and is not reentrant: hooks must
// not call back into the machine that invoked them. Wrap it with Sync when it
// has to be shared between goroutines.
package fsm

import (
	"fmt"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

// TransitionHook is a global callback run on every transition after the state
// pointer moved to the new state and before the new state's OnEnter.
type TransitionHook[S, I comparable] func(from, to S, input I) error

// FSM is the state machine. S identifies states, I is the input type.
type FSM[S, I comparable] struct {
	policy       Policy
	table        Table[S, I]
	initial      S
	current      S
	ready        bool
	history      g.Slice[S]
	hooks        map[S]Hooks[I]
	onTransition g.Slice[TransitionHook[S, I]]
	logger       *zap.Logger
}

// New creates an Unset machine. Call Initialize or Reset before Input.
func New[S, I comparable](opts ...Option[S, I]) *FSM[S, I] {
	f := &FSM[S, I]{
		policy:       ErrorOnMiss,
		hooks:        make(map[S]Hooks[I]),
		onTransition: g.NewSlice[TransitionHook[S, I]](),
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewFSM creates a machine that is Ready in initial with the given table.
// No lifecycle hooks run; call Start to run the initial state's OnEnter.
func NewFSM[S, I comparable](initial S, table Table[S, I], opts ...Option[S, I]) *FSM[S, I] {
	f := New(opts...)
	f.reset(initial, table)

	return f
}

// Register sets the lifecycle hooks of state, replacing earlier ones.
// States without hooks behave as if their hooks did nothing.
func (f *FSM[S, I]) Register(state S, hooks Hooks[I]) *FSM[S, I] {
	if hooks == nil {
		delete(f.hooks, state)
		return f
	}

	f.hooks[state] = hooks

	return f
}

// OnTransition registers a global transition hook.
func (f *FSM[S, I]) OnTransition(hook TransitionHook[S, I]) *FSM[S, I] {
	f.onTransition.Push(hook)
	return f
}

// Initialize points the machine at initial and installs table. It is valid on
// a machine that holds no table yet, or when table equals the held one.
// Installing a different table requires Reset.
func (f *FSM[S, I]) Initialize(initial S, table Table[S, I]) error {
	if f.table != nil && !f.table.Equal(table) {
		return &ErrInvalidOperation{
			Op:     "Initialize",
			Reason: "machine already holds a different transition table; use Reset",
		}
	}

	f.reset(initial, table)

	return nil
}

// Reset unconditionally replaces the current state and the table. It is a
// hard re-point, not a transition: no hooks run and history restarts at initial.
func (f *FSM[S, I]) Reset(initial S, table Table[S, I]) {
	f.reset(initial, table)
}

func (f *FSM[S, I]) reset(initial S, table Table[S, I]) {
	if table == nil {
		table = NewTable[S, I]()
	}

	f.table = table.Clone()
	f.initial = initial
	f.current = initial
	f.ready = true
	f.history = g.Slice[S]{initial}

	f.logger.Debug("fsm reset", zap.Any("state", initial), zap.Int("rows", len(f.table)))
}

// Start runs OnEnter(input) on the current state without a transition.
func (f *FSM[S, I]) Start(input I) error {
	if !f.ready {
		return &ErrNotInitialized{Op: "Start"}
	}

	f.logger.Debug("fsm start", zap.Any("state", f.current), zap.Any("input", input))

	return f.executeHook("OnEnter", f.current, input)
}

// Stop runs OnExit(input) on the current state and then leaves the machine
// Unset. If OnExit fails the machine stays on its current state.
func (f *FSM[S, I]) Stop(input I) error {
	if !f.ready {
		return &ErrNotInitialized{Op: "Stop"}
	}

	if err := f.executeHook("OnExit", f.current, input); err != nil {
		return err
	}

	f.logger.Debug("fsm stop", zap.Any("state", f.current), zap.Any("input", input))

	var zero S
	f.current = zero
	f.ready = false

	return nil
}

// Input resolves the next state for (current, input) and performs the
// transition in this exact order:
//
//  1. OnExit(input) on the current state
//  2. the current state is re-pointed to the next state
//  3. transition hooks
//  4. OnEnter(input) on the new current state
//
// Resolution errors (*ErrNotInitialized, *ErrUndefinedTransition) are returned
// before anything changes. A failing hook aborts the sequence where it
// happened and nothing is rolled back: a failing OnExit leaves the machine on
// the old state, a failing transition hook or OnEnter leaves it on the new one.
func (f *FSM[S, I]) Input(input I) error {
	if !f.ready {
		return &ErrNotInitialized{Op: "Input"}
	}

	from := f.current

	to, err := f.resolve(from, input)
	if err != nil {
		f.logger.Debug("fsm undefined transition", zap.Any("from", from), zap.Any("input", input))
		return err
	}

	if err := f.executeHook("OnExit", from, input); err != nil {
		return err
	}

	f.current = to
	f.history.Push(to)

	f.logger.Debug("fsm transition", zap.Any("from", from), zap.Any("to", to), zap.Any("input", input))

	for _, hook := range f.onTransition {
		if err := f.executeTransitionHook(hook, from, to, input); err != nil {
			return err
		}
	}

	return f.executeHook("OnEnter", to, input)
}

// CanInput reports whether Input(input) would resolve to a transition.
// It does not run any hooks.
func (f *FSM[S, I]) CanInput(input I) bool {
	if !f.ready {
		return false
	}

	_, err := f.resolve(f.current, input)

	return err == nil
}

func (f *FSM[S, I]) resolve(from S, input I) (S, error) {
	if f.policy == StayOnMiss {
		row, _ := f.table.Row(from)
		return row.GetOr(input, from), nil
	}

	return f.table.Lookup(from, input)
}

// executeHook runs a lifecycle hook of state, recovering from panics.
func (f *FSM[S, I]) executeHook(hookType string, state S, input I) (err error) {
	hooks, ok := f.hooks[state]
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ErrCallback{HookType: hookType, State: state, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var hookErr error
	if hookType == "OnEnter" {
		hookErr = hooks.OnEnter(input)
	} else {
		hookErr = hooks.OnExit(input)
	}

	if hookErr != nil {
		err = &ErrCallback{HookType: hookType, State: state, Err: hookErr}
	}

	return err
}

func (f *FSM[S, I]) executeTransitionHook(hook TransitionHook[S, I], from, to S, input I) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ErrCallback{HookType: "OnTransition", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if hookErr := hook(from, to, input); hookErr != nil {
		err = &ErrCallback{HookType: "OnTransition", Err: hookErr}
	}

	return err
}

// Current returns the current state and whether the machine is Ready.
func (f *FSM[S, I]) Current() (S, bool) {
	return f.current, f.ready
}

// Ready reports whether the machine has a current state.
func (f *FSM[S, I]) Ready() bool { return f.ready }

// Policy returns the miss policy the machine was built with.
func (f *FSM[S, I]) Policy() Policy { return f.policy }

// Table returns a copy of the transition table.
func (f *FSM[S, I]) Table() Table[S, I] { return f.table.Clone() }

// History returns a copy of the states visited since the last Reset.
func (f *FSM[S, I]) History() g.Slice[S] { return f.history.Clone() }

// States returns every state known to the table, plus the initial state.
func (f *FSM[S, I]) States() g.Slice[S] {
	set := f.table.stateSet()
	if f.table != nil {
		set.Insert(f.initial)
	}

	return set.ToSlice()
}

// Clone creates a machine with the same table, hooks, policy and logger, Ready
// in the initial state. A machine that was never initialized clones to Unset.
func (f *FSM[S, I]) Clone() *FSM[S, I] {
	clone := &FSM[S, I]{
		policy:       f.policy,
		hooks:        make(map[S]Hooks[I], len(f.hooks)),
		onTransition: f.onTransition.Clone(),
		logger:       f.logger,
	}

	for state, hooks := range f.hooks {
		clone.hooks[state] = hooks
	}

	if f.table != nil {
		clone.reset(f.initial, f.table)
	}

	return clone
}

// Sync wraps the machine in a mutex-guarded SyncFSM.
func (f *FSM[S, I]) Sync() *SyncFSM[S, I] { return &SyncFSM[S, I]{fsm: f} }
