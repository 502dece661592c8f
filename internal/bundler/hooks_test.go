package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

// hookedCompiler is a Compiler that only carries hooks.
type hookedCompiler struct {
	hooks *Hooks
}

func (c *hookedCompiler) Run(Callback)                         {}
func (c *hookedCompiler) Watch(WatchOptions, Callback) Watcher { return closedWatcher{} }
func (c *hookedCompiler) Running() bool                        { return false }
func (c *hookedCompiler) Hooks() *Hooks                        { return c.hooks }

func TestHooks_CallOrder(t *testing.T) {
	h := NewHooks()
	var calls []string
	require.NoError(t, h.Tap(HookDone, Tap{Class: "a", Fn: func(ev *HookEvent) { calls = append(calls, "a:"+ev.Hook) }}))
	require.NoError(t, h.Tap(HookDone, Tap{Class: "b", Fn: func(ev *HookEvent) { calls = append(calls, "b:"+ev.Hook) }}))

	h.Call(HookDone, nil)
	h.Call(HookCompile, nil)

	assert.Equal(t, []string{"a:done", "b:done"}, calls)
}

func TestHooks_UnknownName(t *testing.T) {
	h := NewHooks()
	err := h.Tap("emit", Tap{})
	assert.ErrorIs(t, err, oerrors.ErrUnknownHook)
}

func TestApplyHooks(t *testing.T) {
	c := &hookedCompiler{hooks: NewHooks()}
	noop := func(*HookEvent) {}

	err := ApplyHooks(map[string]HookRegistration{
		HookDone:    {Class: "Reporter", Stage: 2, Callbacks: []HookFunc{noop, noop}},
		HookCompile: {Class: "Timer", Callbacks: []HookFunc{noop}},
	}, c)
	require.NoError(t, err)

	done := c.hooks.Taps(HookDone)
	require.Len(t, done, 2)
	assert.Equal(t, "Reporter", done[0].Class)
	assert.Equal(t, 2, done[0].Stage)
	assert.Len(t, c.hooks.Taps(HookCompile), 1)

	// applying again appends, no deduplication
	require.NoError(t, ApplyHooks(map[string]HookRegistration{
		HookDone: {Class: "Reporter", Callbacks: []HookFunc{noop}},
	}, c))
	assert.Len(t, c.hooks.Taps(HookDone), 3)
}

func TestApplyHooks_Unknown(t *testing.T) {
	c := &hookedCompiler{hooks: NewHooks()}
	err := ApplyHooks(map[string]HookRegistration{
		"afterEmit": {Callbacks: []HookFunc{func(*HookEvent) {}}},
	}, c)
	assert.ErrorIs(t, err, oerrors.ErrUnknownHook)
}

func TestApplyHooks_UnknownDoesNotBlockOthers(t *testing.T) {
	c := &hookedCompiler{hooks: NewHooks()}
	err := ApplyHooks(map[string]HookRegistration{
		"afterEmit": {Callbacks: []HookFunc{func(*HookEvent) {}}},
		HookDone:    {Callbacks: []HookFunc{func(*HookEvent) {}}},
	}, c)
	assert.ErrorIs(t, err, oerrors.ErrUnknownHook)
	assert.Len(t, c.hooks.Taps(HookDone), 1)
}
