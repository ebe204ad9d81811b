// Package component composes one state machine and one notifier into a
// stateful object whose transitions are broadcast to observers.
//
// The machine and the notifier never call each other. Apply sequences them:
// the input first, the broadcast only if the input succeeded.
package component

import (
	"github.com/enetx/fsmkit/fsm"
	"github.com/enetx/fsmkit/notify"
	"go.uber.org/zap"
)

// Component owns a machine over states S and inputs I and a notifier for
// subscribers of type T.
type Component[S, I comparable, T any] struct {
	machine     *fsm.FSM[S, I]
	subscribers *notify.Notifier[T]
	logger      *zap.Logger
}

// New composes machine and subscribers. A nil notifier is replaced by an
// empty one.
func New[S, I comparable, T any](machine *fsm.FSM[S, I], subscribers *notify.Notifier[T], logger *zap.Logger) *Component[S, I, T] {
	if subscribers == nil {
		subscribers = notify.New[T]()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Component[S, I, T]{
		machine:     machine,
		subscribers: subscribers,
		logger:      logger,
	}
}

// Machine returns the underlying state machine.
func (c *Component[S, I, T]) Machine() *fsm.FSM[S, I] { return c.machine }

// Notifier returns the underlying notifier.
func (c *Component[S, I, T]) Notifier() *notify.Notifier[T] { return c.subscribers }

// Subscribe adds an observer.
func (c *Component[S, I, T]) Subscribe(sub T) notify.ID { return c.subscribers.Add(sub) }

// Unsubscribe removes the subscription with the given id.
func (c *Component[S, I, T]) Unsubscribe(id notify.ID) bool { return c.subscribers.Remove(id) }

// State returns the machine's current state.
func (c *Component[S, I, T]) State() (S, bool) { return c.machine.Current() }

// Apply feeds input to the machine and then broadcasts cb with args to every
// subscriber. If the input fails no subscriber is notified.
func (c *Component[S, I, T]) Apply(input I, cb notify.Callback[T], args ...any) error {
	if err := c.machine.Input(input); err != nil {
		c.logger.Debug("component input rejected", zap.Any("input", input), zap.Error(err))
		return err
	}

	return c.subscribers.NotifyAll(cb, args...)
}
