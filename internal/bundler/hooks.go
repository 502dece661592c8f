package bundler

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

// Extension points of a compiler.
const (
	// HookBeforeRun fires before a one-shot compilation.
	HookBeforeRun = "beforeRun"
	// HookWatchRun fires before each compilation of a watch loop.
	HookWatchRun = "watchRun"
	// HookCompile fires before every compilation.
	HookCompile = "compile"
	// HookDone fires after a compilation produced stats.
	HookDone = "done"
	// HookFailed fires after a compiler-level failure.
	HookFailed = "failed"
	// HookWatchClose fires when a watch loop has stopped.
	HookWatchClose = "watchClose"
)

// HookNames lists every extension point.
var HookNames = []string{HookBeforeRun, HookWatchRun, HookCompile, HookDone, HookFailed, HookWatchClose}

// HookEvent is passed to hook callbacks.
type HookEvent struct {
	Hook  string
	Watch bool
	Stats *Stats
	Err   error
}

// HookFunc is a hook callback.
type HookFunc func(ev *HookEvent)

// Tap is one callback attached to an extension point.
type Tap struct {
	// Class names the registrant.
	Class string
	// Stage is the priority tag given at registration.
	Stage int
	Fn    HookFunc
}

// HookRegistration describes callbacks to attach to one extension point.
type HookRegistration struct {
	Class     string
	Stage     int
	Callbacks []HookFunc
}

// Hooks holds the taps of every extension point. Taps fire in registration order.
type Hooks struct {
	mu   sync.RWMutex
	taps map[string][]Tap
}

// NewHooks creates an empty set of extension points.
func NewHooks() *Hooks {
	taps := make(map[string][]Tap, len(HookNames))
	for _, name := range HookNames {
		taps[name] = nil
	}
	return &Hooks{taps: taps}
}

// Tap attaches tap to the named extension point.
func (h *Hooks) Tap(name string, tap Tap) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, ok := h.taps[name]
	if !ok {
		return fmt.Errorf("hook %q: %w", name, oerrors.ErrUnknownHook)
	}
	h.taps[name] = append(existing, tap)
	return nil
}

// Taps returns a copy of the taps attached to name.
func (h *Hooks) Taps(name string) []Tap {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Tap(nil), h.taps[name]...)
}

// Call invokes every tap of name with ev.
func (h *Hooks) Call(name string, ev *HookEvent) {
	if ev == nil {
		ev = &HookEvent{}
	}
	ev.Hook = name
	for _, tap := range h.Taps(name) {
		if tap.Fn != nil {
			tap.Fn(ev)
		}
	}
}

// ApplyHooks attaches every callback of every registration to c, in list
// order, tagged with the registration's class and stage. Hook names are
// processed in sorted order. Unknown names are skipped and reported together.
func ApplyHooks(regs map[string]HookRegistration, c Compiler) error {
	names := make([]string, 0, len(regs))
	for name := range regs {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		reg := regs[name]
		for _, fn := range reg.Callbacks {
			if err := c.Hooks().Tap(name, Tap{Class: reg.Class, Stage: reg.Stage, Fn: fn}); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}
