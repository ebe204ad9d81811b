package component_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/enetx/fsmkit/component"
	"github.com/enetx/fsmkit/fsm"
	"github.com/enetx/fsmkit/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ hits int }

func (c *counter) Hit() { c.hits++ }

func newDoor() *component.Component[string, string, *counter] {
	table := fsm.NewTable[string, string]().
		Transition("closed", "open", "opened").
		Transition("opened", "close", "closed")

	return component.New(fsm.NewFSM("closed", table), notify.New[*counter](), nil)
}

func TestApply_NotifiesAfterInput(t *testing.T) {
	door := newDoor()
	a, b := &counter{}, &counter{}
	door.Subscribe(a)
	door.Subscribe(b)

	var stateSeen string
	err := door.Apply("open", func(c *counter, _ ...any) error {
		stateSeen, _ = door.State()
		c.Hit()
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "opened", stateSeen)
	assert.Equal(t, 1, a.hits)
	assert.Equal(t, 1, b.hits)
}

func TestApply_FailedInputSkipsBroadcast(t *testing.T) {
	door := newDoor()
	a := &counter{}
	door.Subscribe(a)

	err := door.Apply("close", notify.Call((*counter).Hit))
	require.Error(t, err)
	assert.True(t, fsm.IsUndefinedTransition(err))
	assert.Zero(t, a.hits)

	state, _ := door.State()
	assert.Equal(t, "closed", state)
}

func TestApply_BroadcastFailureKeepsTransition(t *testing.T) {
	door := newDoor()
	door.Subscribe(&counter{})

	boom := errors.New("boom")
	err := door.Apply("open", func(*counter, ...any) error { return boom })
	require.ErrorIs(t, err, boom)

	state, _ := door.State()
	assert.Equal(t, "opened", state)
}

func TestUnsubscribe(t *testing.T) {
	door := newDoor()
	a, b := &counter{}, &counter{}
	id := door.Subscribe(a)
	door.Subscribe(b)

	assert.True(t, door.Unsubscribe(id))
	require.NoError(t, door.Apply("open", notify.Call((*counter).Hit)))
	assert.Zero(t, a.hits)
	assert.Equal(t, 1, b.hits)
	assert.Equal(t, 1, door.Notifier().Len())
	assert.True(t, door.Machine().Ready())
}

func TestSync_Apply(t *testing.T) {
	table := fsm.NewTable[string, string]().Self("on", "pulse")
	c := component.New(fsm.NewFSM("on", table), notify.New[*counter](), nil)
	sc := component.NewSync(c)

	a := &counter{}
	sc.Subscribe(a)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sc.Apply("pulse", notify.Call((*counter).Hit)))
		}()
	}

	wg.Wait()

	assert.Equal(t, 100, a.hits)
	state, ok := sc.State()
	assert.True(t, ok)
	assert.Equal(t, "on", state)
}
