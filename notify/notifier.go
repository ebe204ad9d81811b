// Package notify implements a synchronous publisher/subscriber notifier.
//
// A Notifier holds an insertion-ordered list of subscribers it does not own
// and dispatches callbacks to them. It knows nothing about state machines;
// callers decide when to broadcast.
package notify

import (
	"fmt"

	"github.com/enetx/g"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ID identifies one subscription. Adding the same subscriber twice yields two ids.
type ID = uuid.UUID

type subscription[T any] struct {
	id  ID
	sub T
}

// Notifier dispatches callbacks to subscribers of type T. It is not safe for
// concurrent use; callbacks must not add or remove subscribers of the
// notifier that is calling them.
type Notifier[T any] struct {
	subs   g.Slice[subscription[T]]
	logger *zap.Logger
}

// Option configures a Notifier.
type Option[T any] func(*Notifier[T])

// WithLogger sets the logger used for broadcast traces and callback failures.
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(n *Notifier[T]) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates an empty notifier.
func New[T any](opts ...Option[T]) *Notifier[T] {
	n := &Notifier[T]{
		subs:   g.NewSlice[subscription[T]](),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Add appends sub to the subscriber list. Duplicates are kept.
func (n *Notifier[T]) Add(sub T) ID {
	id := uuid.New()
	n.subs.Push(subscription[T]{id: id, sub: sub})

	return id
}

// Remove drops the subscription with the given id.
func (n *Notifier[T]) Remove(id ID) bool {
	before := len(n.subs)
	n.subs = n.subs.Iter().Exclude(func(s subscription[T]) bool { return s.id == id }).Collect()

	return len(n.subs) < before
}

// RemoveFunc drops every subscriber for which pred returns true and reports
// how many were removed.
func (n *Notifier[T]) RemoveFunc(pred func(sub T) bool) int {
	before := len(n.subs)
	n.subs = n.subs.Iter().Exclude(func(s subscription[T]) bool { return pred(s.sub) }).Collect()

	return before - len(n.subs)
}

// Subscribers returns the current subscribers in insertion order.
func (n *Notifier[T]) Subscribers() g.Slice[T] {
	out := make(g.Slice[T], 0, len(n.subs))
	for _, s := range n.subs {
		out = append(out, s.sub)
	}

	return out
}

// Len returns the number of subscriptions.
func (n *Notifier[T]) Len() int { return len(n.subs) }

// Notify invokes cb on exactly sub with args. sub does not have to be
// registered.
func (n *Notifier[T]) Notify(sub T, cb Callback[T], args ...any) error {
	if err := invoke(sub, cb, args); err != nil {
		return &ErrCallback{Err: err}
	}

	return nil
}

// NotifyAll invokes cb on every subscriber in insertion order, one at a time.
// A failing callback does not stop the sweep: failures are collected and
// returned together as *ErrBroadcast once every subscriber has been visited.
func (n *Notifier[T]) NotifyAll(cb Callback[T], args ...any) error {
	subs := n.subs.Clone()

	n.logger.Debug("notify broadcast", zap.Int("subscribers", len(subs)), zap.Int("args", len(args)))

	var failures []*ErrCallback

	for i, s := range subs {
		if err := invoke(s.sub, cb, args); err != nil {
			n.logger.Warn("notify subscriber failed",
				zap.Int("index", i),
				zap.Stringer("id", s.id),
				zap.Error(err),
			)

			failures = append(failures, &ErrCallback{ID: s.id, Index: i, Err: err})
		}
	}

	if len(failures) > 0 {
		return &ErrBroadcast{Notified: len(subs), Failures: failures}
	}

	return nil
}

// invoke runs cb, converting a panic into an error.
func invoke[T any](sub T, cb Callback[T], args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return cb(sub, args...)
}
