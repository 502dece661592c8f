package testutil

import (
	"sync"
	"time"

	"github.com/opmodel/packtask/internal/bundler"
)

// FakeBundler creates FakeCompilers. Compilations only finish when the test
// completes them, which makes lifecycle ordering deterministic.
type FakeBundler struct {
	mu        sync.Mutex
	compilers []*FakeCompiler
}

// NewFakeBundler returns an empty fake bundler.
func NewFakeBundler() *FakeBundler {
	return &FakeBundler{}
}

// Name implements bundler.Bundler.
func (b *FakeBundler) Name() string { return "fake" }

// NewCompiler implements bundler.Bundler.
func (b *FakeBundler) NewCompiler(cfg *bundler.Config) bundler.Compiler {
	c := &FakeCompiler{Config: cfg, hooks: bundler.NewHooks()}
	b.mu.Lock()
	b.compilers = append(b.compilers, c)
	b.mu.Unlock()
	return c
}

// Compilers returns every compiler created so far.
func (b *FakeBundler) Compilers() []*FakeCompiler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*FakeCompiler(nil), b.compilers...)
}

// FakeCompiler records calls and holds callbacks until the test fires them.
type FakeCompiler struct {
	Config *bundler.Config

	hooks *bundler.Hooks

	mu       sync.Mutex
	running  bool
	runs     int
	watches  int
	pending  []bundler.Callback
	watcher  *FakeWatcher
	watchOpt bundler.WatchOptions
}

// Hooks implements bundler.Compiler.
func (c *FakeCompiler) Hooks() *bundler.Hooks { return c.hooks }

// Running implements bundler.Compiler.
func (c *FakeCompiler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetRunning overrides the running flag.
func (c *FakeCompiler) SetRunning(running bool) {
	c.mu.Lock()
	c.running = running
	c.mu.Unlock()
}

// Run implements bundler.Compiler. The callback fires on CompleteRun.
func (c *FakeCompiler) Run(cb bundler.Callback) {
	c.mu.Lock()
	c.running = true
	c.runs++
	c.pending = append(c.pending, cb)
	c.mu.Unlock()
}

// Watch implements bundler.Compiler. Cycles are emitted with the returned
// watcher's Emit.
func (c *FakeCompiler) Watch(opts bundler.WatchOptions, cb bundler.Callback) bundler.Watcher {
	w := &FakeWatcher{c: c, cb: cb}
	c.mu.Lock()
	c.running = true
	c.watches++
	c.watcher = w
	c.watchOpt = opts
	c.mu.Unlock()
	return w
}

// Runs returns how many one-shot compilations were started.
func (c *FakeCompiler) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// Watches returns how many watch loops were started.
func (c *FakeCompiler) Watches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watches
}

// Watcher returns the latest watcher.
func (c *FakeCompiler) Watcher() *FakeWatcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watcher
}

// WatchOptions returns the options of the latest watch loop.
func (c *FakeCompiler) WatchOptions() bundler.WatchOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watchOpt
}

// CompleteRun finishes the oldest pending one-shot compilation.
func (c *FakeCompiler) CompleteRun(err error, stats *bundler.Stats) bool {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return false
	}
	cb := c.pending[0]
	c.pending = c.pending[1:]
	c.running = false
	c.mu.Unlock()

	if err != nil {
		c.hooks.Call(bundler.HookFailed, &bundler.HookEvent{Err: err})
	} else {
		c.hooks.Call(bundler.HookDone, &bundler.HookEvent{Stats: stats})
	}
	cb(err, stats)
	return true
}

// FakeWatcher is the handle returned by FakeCompiler.Watch.
type FakeWatcher struct {
	c  *FakeCompiler
	cb bundler.Callback

	mu      sync.Mutex
	closing []func()
	closed  bool
}

// Emit delivers one watch cycle.
func (w *FakeWatcher) Emit(err error, stats *bundler.Stats) {
	w.cb(err, stats)
}

// Close implements bundler.Watcher. Callbacks fire on FinishClose.
func (w *FakeWatcher) Close(cb func()) {
	w.mu.Lock()
	w.closing = append(w.closing, cb)
	w.mu.Unlock()
}

// Closing reports whether Close was called and not yet finished.
func (w *FakeWatcher) Closing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.closing) > 0
}

// Closed reports whether FinishClose ran.
func (w *FakeWatcher) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// FinishClose ends the loop and fires every pending Close callback.
func (w *FakeWatcher) FinishClose() {
	w.mu.Lock()
	cbs := w.closing
	w.closing = nil
	w.closed = true
	w.mu.Unlock()

	w.c.SetRunning(false)
	w.c.hooks.Call(bundler.HookWatchClose, &bundler.HookEvent{Watch: true})
	for _, cb := range cbs {
		if cb != nil {
			cb()
		}
	}
}

// NewStats returns stats for a 12 ms compilation of the given assets.
func NewStats(hash string, assets ...bundler.Asset) *bundler.Stats {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &bundler.Stats{
		StartTime: start,
		EndTime:   start.Add(12 * time.Millisecond),
		Hash:      hash,
		Assets:    assets,
	}
}
