package fsm_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/enetx/fsmkit/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) state(name string) fsm.Hooks[string] {
	return fsm.HookFuncs[string]{
		Enter: func(in string) error {
			r.calls = append(r.calls, fmt.Sprintf("enter %s(%s)", name, in))
			return nil
		},
		Exit: func(in string) error {
			r.calls = append(r.calls, fmt.Sprintf("exit %s(%s)", name, in))
			return nil
		},
	}
}

func toggleTable() fsm.Table[string, string] {
	return fsm.NewTable[string, string]().
		Transition("off", "toggle", "on").
		Transition("on", "toggle", "off")
}

func newToggle(rec *recorder, opts ...fsm.Option[string, string]) *fsm.FSM[string, string] {
	opts = append(opts,
		fsm.WithState[string, string]("off", rec.state("off")),
		fsm.WithState[string, string]("on", rec.state("on")),
	)

	return fsm.NewFSM("off", toggleTable(), opts...)
}

func current(t *testing.T, m *fsm.FSM[string, string]) string {
	t.Helper()

	state, ok := m.Current()
	require.True(t, ok, "machine should be ready")

	return state
}

func TestFSM_BasicTransition(t *testing.T) {
	rec := &recorder{}
	m := newToggle(rec)

	assert.Equal(t, "off", current(t, m))
	require.NoError(t, m.Input("toggle"))
	assert.Equal(t, "on", current(t, m))
	assert.Equal(t, []string{"exit off(toggle)", "enter on(toggle)"}, rec.calls)

	require.NoError(t, m.Input("toggle"))
	assert.Equal(t, "off", current(t, m))
	assert.Len(t, rec.calls, 4)
}

func TestFSM_NotInitialized(t *testing.T) {
	rec := &recorder{}
	m := fsm.New(fsm.WithState[string, string]("off", rec.state("off")))

	for name, op := range map[string]func() error{
		"Input": func() error { return m.Input("toggle") },
		"Start": func() error { return m.Start("") },
		"Stop":  func() error { return m.Stop("") },
	} {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)

			var notInit *fsm.ErrNotInitialized
			require.ErrorAs(t, err, &notInit)
			assert.Equal(t, name, notInit.Op)
			assert.True(t, fsm.IsNotInitialized(err))
		})
	}

	assert.False(t, m.Ready())
	assert.False(t, m.CanInput("toggle"))
	assert.Empty(t, rec.calls)
}

func TestFSM_UndefinedTransition(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		rec := &recorder{}
		m := newToggle(rec)

		err := m.Input("explode")
		var undef *fsm.ErrUndefinedTransition
		require.ErrorAs(t, err, &undef)
		assert.False(t, undef.MissingRow)
		assert.Equal(t, "off", undef.From)
		assert.Equal(t, "explode", undef.Input)

		assert.Equal(t, "off", current(t, m))
		assert.Empty(t, rec.calls)
		assert.Len(t, m.History(), 1)
	})

	t.Run("missing row", func(t *testing.T) {
		table := fsm.NewTable[string, string]().Transition("a", "go", "b")
		m := fsm.NewFSM("a", table)

		require.NoError(t, m.Input("go"))

		err := m.Input("go")
		var undef *fsm.ErrUndefinedTransition
		require.ErrorAs(t, err, &undef)
		assert.True(t, undef.MissingRow)
		assert.True(t, fsm.IsUndefinedTransition(err))
		assert.Equal(t, "b", current(t, m))
	})
}

func TestFSM_StayOnMiss(t *testing.T) {
	rec := &recorder{}
	m := newToggle(rec, fsm.WithPolicy[string, string](fsm.StayOnMiss))

	assert.Equal(t, fsm.StayOnMiss, m.Policy())
	assert.True(t, m.CanInput("unknown"))

	require.NoError(t, m.Input("unknown"))
	assert.Equal(t, "off", current(t, m))
	assert.Equal(t, []string{"exit off(unknown)", "enter off(unknown)"}, rec.calls)

	t.Run("state without row stays", func(t *testing.T) {
		var entered int
		table := fsm.NewTable[string, string]().Transition("a", "go", "sink")
		m := fsm.NewFSM("a", table,
			fsm.WithPolicy[string, string](fsm.StayOnMiss),
			fsm.WithState[string, string]("sink", fsm.HookFuncs[string]{
				Enter: func(string) error { entered++; return nil },
			}),
		)

		require.NoError(t, m.Input("go"))
		require.NoError(t, m.Input("go"))
		assert.Equal(t, "sink", current(t, m))
		assert.Equal(t, 2, entered)
	})
}

func TestFSM_ResetIsIdempotent(t *testing.T) {
	rec := &recorder{}
	m := newToggle(rec)
	require.NoError(t, m.Input("toggle"))
	rec.calls = nil

	m.Reset("off", toggleTable())
	first, err := json.Marshal(m)
	require.NoError(t, err)

	m.Reset("off", toggleTable())
	second, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, "off", current(t, m))
	assert.True(t, m.Table().Equal(toggleTable()))
	assert.Empty(t, rec.calls)
}

func TestFSM_Initialize(t *testing.T) {
	m := fsm.New[string, string]()
	require.NoError(t, m.Initialize("off", toggleTable()))
	assert.Equal(t, "off", current(t, m))

	require.NoError(t, m.Initialize("on", toggleTable()), "same table is accepted")
	assert.Equal(t, "on", current(t, m))

	other := fsm.NewTable[string, string]().Transition("a", "go", "b")
	err := m.Initialize("a", other)
	require.Error(t, err)
	assert.True(t, fsm.IsInvalidOperation(err))
	assert.Equal(t, "on", current(t, m))

	m.Reset("a", other)
	assert.Equal(t, "a", current(t, m))
}

func TestFSM_TableIsOwned(t *testing.T) {
	table := toggleTable()
	m := fsm.NewFSM("off", table)

	table.Transition("off", "toggle", "off")
	require.NoError(t, m.Input("toggle"))
	assert.Equal(t, "on", current(t, m))

	m.Table().Transition("on", "toggle", "on")
	require.NoError(t, m.Input("toggle"))
	assert.Equal(t, "off", current(t, m))
}

func TestFSM_StartStop(t *testing.T) {
	rec := &recorder{}
	m := newToggle(rec)

	require.NoError(t, m.Start("boot"))
	assert.Equal(t, []string{"enter off(boot)"}, rec.calls)
	assert.Equal(t, "off", current(t, m))
	assert.Len(t, m.History(), 1)

	require.NoError(t, m.Stop("halt"))
	assert.Equal(t, "exit off(halt)", rec.calls[1])
	assert.False(t, m.Ready())

	assert.True(t, fsm.IsNotInitialized(m.Input("toggle")))
	assert.True(t, fsm.IsNotInitialized(m.Stop("halt")))

	m.Reset("on", toggleTable())
	assert.True(t, m.Ready())
}

func TestFSM_StopExitFailureKeepsState(t *testing.T) {
	boom := errors.New("boom")
	m := fsm.NewFSM("off", toggleTable(),
		fsm.WithState[string, string]("off", fsm.HookFuncs[string]{
			Exit: func(string) error { return boom },
		}),
	)

	err := m.Stop("halt")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "off", current(t, m))
}

func TestFSM_HookFailureOrdering(t *testing.T) {
	boom := errors.New("boom")

	t.Run("exit failure leaves old state", func(t *testing.T) {
		var entered bool
		m := fsm.NewFSM("off", toggleTable(),
			fsm.WithState[string, string]("off", fsm.HookFuncs[string]{
				Exit: func(string) error { return boom },
			}),
			fsm.WithState[string, string]("on", fsm.HookFuncs[string]{
				Enter: func(string) error { entered = true; return nil },
			}),
		)

		err := m.Input("toggle")
		require.ErrorIs(t, err, boom)

		var cbErr *fsm.ErrCallback
		require.ErrorAs(t, err, &cbErr)
		assert.Equal(t, "OnExit", cbErr.HookType)
		assert.Equal(t, "off", cbErr.State)

		assert.Equal(t, "off", current(t, m))
		assert.False(t, entered)
	})

	t.Run("enter failure leaves new state", func(t *testing.T) {
		m := fsm.NewFSM("off", toggleTable(),
			fsm.WithState[string, string]("on", fsm.HookFuncs[string]{
				Enter: func(string) error { return boom },
			}),
		)

		err := m.Input("toggle")
		require.ErrorIs(t, err, boom)
		assert.True(t, fsm.IsCallbackError(err))
		assert.Equal(t, "on", current(t, m))
	})

	t.Run("panic is converted", func(t *testing.T) {
		m := fsm.NewFSM("off", toggleTable(),
			fsm.WithState[string, string]("on", fsm.HookFuncs[string]{
				Enter: func(string) error { panic("something went wrong") },
			}),
		)

		err := m.Input("toggle")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic")
		assert.Equal(t, "on", current(t, m))
	})
}

func TestFSM_OnTransition(t *testing.T) {
	rec := &recorder{}
	m := newToggle(rec)

	m.OnTransition(func(from, to, input string) error {
		rec.calls = append(rec.calls, fmt.Sprintf("transition %s->%s(%s)", from, to, input))
		return nil
	})

	require.NoError(t, m.Input("toggle"))
	assert.Equal(t, []string{
		"exit off(toggle)",
		"transition off->on(toggle)",
		"enter on(toggle)",
	}, rec.calls)

	m.OnTransition(func(string, string, string) error { return errors.New("veto") })

	err := m.Input("toggle")
	var cbErr *fsm.ErrCallback
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, "OnTransition", cbErr.HookType)
	assert.Nil(t, cbErr.State)
	assert.Equal(t, "off", current(t, m))
}

func TestFSM_HistoryAndStates(t *testing.T) {
	table := fsm.NewTable[string, string]().
		Transition("x", "next", "y").
		Transition("y", "next", "z")
	m := fsm.NewFSM("x", table)

	require.NoError(t, m.Input("next"))
	require.NoError(t, m.Input("next"))

	h := m.History()
	require.Len(t, h, 3)
	assert.Equal(t, "x", h[0])
	assert.Equal(t, "y", h[1])
	assert.Equal(t, "z", h[2])

	assert.ElementsMatch(t, []string{"x", "y", "z"}, []string(m.States()))
}

func TestFSM_Clone(t *testing.T) {
	rec := &recorder{}
	template := newToggle(rec)

	m1 := template.Clone()
	m2 := template.Clone()

	require.NoError(t, m1.Input("toggle"))

	assert.Equal(t, "on", current(t, m1))
	assert.Equal(t, "off", current(t, m2))
	assert.Equal(t, "off", current(t, template))
	assert.Equal(t, []string{"exit off(toggle)", "enter on(toggle)"}, rec.calls, "clones share hooks")

	assert.False(t, fsm.New[string, string]().Clone().Ready())
}

func TestFSM_BoundState(t *testing.T) {
	type lamp struct{ lit bool }

	l := &lamp{}
	lit := fsm.Bind(l,
		func(l *lamp, _ bool) error { l.lit = true; return nil },
		func(l *lamp, _ bool) error { l.lit = false; return nil },
	)
	dark := fsm.Bind[lamp, bool](l, nil, nil)

	table := fsm.NewTable[string, bool]().
		Transition("dark", true, "lit").
		Transition("lit", false, "dark")

	m := fsm.NewFSM("dark", table,
		fsm.WithStates(map[string]fsm.Hooks[bool]{"lit": lit, "dark": dark}),
	)

	assert.Same(t, l, lit.Subject())
	require.NoError(t, m.Input(true))
	assert.True(t, l.lit)
	require.NoError(t, m.Input(false))
	assert.False(t, l.lit)
}

func TestFSM_Serialization(t *testing.T) {
	template := fsm.NewFSM("a", fsm.NewTable[string, string]().Transition("a", "next", "b"))

	m := template.Clone()
	require.NoError(t, m.Input("next"))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	restored := template.Clone()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, "b", current(t, restored))
	assert.Len(t, restored.History(), 2)
}

func TestFSM_SerializationUnknownState(t *testing.T) {
	m := fsm.NewFSM("a", fsm.NewTable[string, string]().Transition("a", "next", "b"))

	err := json.Unmarshal([]byte(`{"current": "unknown_state", "ready": true, "history": ["a"]}`), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state")
	assert.Equal(t, "a", current(t, m))
}

func TestFSM_ToDOT(t *testing.T) {
	m := newToggle(&recorder{})
	dot := string(m.ToDOT())

	assert.Contains(t, dot, "digraph FSM")
	assert.Contains(t, dot, `"off" -> "on" [label=" toggle "]`)
	assert.Contains(t, dot, `"on" -> "off" [label=" toggle "]`)
	assert.Contains(t, dot, `policy: error`)
}

func TestSyncFSM_Concurrent(t *testing.T) {
	var entered int
	table := fsm.NewTable[string, int]().Self("idle", 1)
	sf := fsm.NewFSM("idle", table,
		fsm.WithState[string, int]("idle", fsm.HookFuncs[int]{
			Enter: func(int) error { entered++; return nil },
		}),
	).Sync()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sf.Input(1))
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, entered)
	assert.Len(t, sf.History(), 51)
}
