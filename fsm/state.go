package fsm

// Hooks is the lifecycle contract every state implements. OnEnter runs when
// the state becomes current, OnExit when it stops being current. Both receive
// the input that caused the change.
//
// Hooks must not call Input, Start or Stop on the machine that invokes them.
type Hooks[I comparable] interface {
	OnEnter(input I) error
	OnExit(input I) error
}

// HookFuncs is a stateless state: it carries no payload beyond its lifecycle
// functions. A nil function is a no-op.
type HookFuncs[I comparable] struct {
	Enter func(input I) error
	Exit  func(input I) error
}

func (h HookFuncs[I]) OnEnter(input I) error {
	if h.Enter == nil {
		return nil
	}

	return h.Enter(input)
}

func (h HookFuncs[I]) OnExit(input I) error {
	if h.Exit == nil {
		return nil
	}

	return h.Exit(input)
}

// Nop returns hooks that do nothing.
func Nop[I comparable]() Hooks[I] { return HookFuncs[I]{} }

// Bound is a state that manipulates an externally owned subject on entry and
// exit, e.g. locking a turnstile. The binding is set once by Bind and never
// changes. Bound does not own the subject; the caller keeps it alive.
type Bound[T any, I comparable] struct {
	subject *T
	enter   func(subject *T, input I) error
	exit    func(subject *T, input I) error
}

// Bind creates a state bound to subject. Either function may be nil.
func Bind[T any, I comparable](subject *T, enter, exit func(subject *T, input I) error) *Bound[T, I] {
	return &Bound[T, I]{subject: subject, enter: enter, exit: exit}
}

// Subject returns the object the state is bound to.
func (b *Bound[T, I]) Subject() *T { return b.subject }

func (b *Bound[T, I]) OnEnter(input I) error {
	if b.enter == nil {
		return nil
	}

	return b.enter(b.subject, input)
}

func (b *Bound[T, I]) OnExit(input I) error {
	if b.exit == nil {
		return nil
	}

	return b.exit(b.subject, input)
}
