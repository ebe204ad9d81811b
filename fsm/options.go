package fsm

import "go.uber.org/zap"

// Option configures a machine during construction.
type Option[S, I comparable] func(*FSM[S, I])

// WithPolicy selects how Input resolves a missing table entry.
func WithPolicy[S, I comparable](p Policy) Option[S, I] {
	return func(f *FSM[S, I]) {
		f.policy = p
	}
}

// WithLogger sets the logger used for debug traces of transitions.
func WithLogger[S, I comparable](logger *zap.Logger) Option[S, I] {
	return func(f *FSM[S, I]) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithState registers the lifecycle hooks of state.
func WithState[S, I comparable](state S, hooks Hooks[I]) Option[S, I] {
	return func(f *FSM[S, I]) {
		f.Register(state, hooks)
	}
}

// WithStates registers the lifecycle hooks of several states at once.
func WithStates[S, I comparable](states map[S]Hooks[I]) Option[S, I] {
	return func(f *FSM[S, I]) {
		for state, hooks := range states {
			f.Register(state, hooks)
		}
	}
}
