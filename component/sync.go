package component

import (
	"sync"

	"github.com/enetx/fsmkit/notify"
)

// Sync guards a Component with a single mutex so the input and the broadcast
// that follows it happen as one step with respect to other goroutines.
type Sync[S, I comparable, T any] struct {
	c  *Component[S, I, T]
	mu sync.Mutex
}

// NewSync wraps c. The caller must stop using c directly.
func NewSync[S, I comparable, T any](c *Component[S, I, T]) *Sync[S, I, T] {
	return &Sync[S, I, T]{c: c}
}

// Apply is the thread-safe version of Component.Apply.
func (s *Sync[S, I, T]) Apply(input I, cb notify.Callback[T], args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.c.Apply(input, cb, args...)
}

// Subscribe is the thread-safe version of Component.Subscribe.
func (s *Sync[S, I, T]) Subscribe(sub T) notify.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.c.Subscribe(sub)
}

// Unsubscribe is the thread-safe version of Component.Unsubscribe.
func (s *Sync[S, I, T]) Unsubscribe(id notify.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.c.Unsubscribe(id)
}

// State is the thread-safe version of Component.State.
func (s *Sync[S, I, T]) State() (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.c.State()
}
