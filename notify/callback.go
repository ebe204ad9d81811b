package notify

import "fmt"

// Callback describes which behavior to invoke on a subscriber. The arguments
// are supplied at call time and forwarded untouched; the callback decides how
// many it accepts and of which types.
type Callback[T any] func(sub T, args ...any) error

// Call adapts a zero-argument method, e.g. a method expression such as
// Listener.SwitchedOn.
func Call[T any](fn func(T)) Callback[T] {
	return func(sub T, args ...any) error {
		if len(args) != 0 {
			return &ErrArgument{Want: "no arguments", Got: args}
		}

		fn(sub)

		return nil
	}
}

// CallErr adapts a zero-argument method that can fail.
func CallErr[T any](fn func(T) error) Callback[T] {
	return func(sub T, args ...any) error {
		if len(args) != 0 {
			return &ErrArgument{Want: "no arguments", Got: args}
		}

		return fn(sub)
	}
}

// Call1 adapts a one-argument method. The argument must be assignable to A.
func Call1[T, A any](fn func(T, A)) Callback[T] {
	return CallErr1(func(sub T, a A) error {
		fn(sub, a)
		return nil
	})
}

// CallErr1 adapts a one-argument method that can fail.
func CallErr1[T, A any](fn func(T, A) error) Callback[T] {
	return func(sub T, args ...any) error {
		if len(args) != 1 {
			return &ErrArgument{Want: fmt.Sprintf("1 argument of type %T", *new(A)), Got: args}
		}

		a, ok := args[0].(A)
		if !ok {
			return &ErrArgument{Want: fmt.Sprintf("1 argument of type %T", *new(A)), Got: args}
		}

		return fn(sub, a)
	}
}
