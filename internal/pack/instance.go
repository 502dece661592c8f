package pack

import (
	"sync"

	"github.com/opmodel/packtask/internal/bundler"
)

// State is the lifecycle state of an Instance.
type State int

const (
	// StateIdle means no compilation or watch loop was started by the instance.
	StateIdle State = iota
	// StateBuilding means a one-shot compilation is in flight.
	StateBuilding
	// StateWatching means a watch loop is active.
	StateWatching
	// StateClosingToRebuild means a build is waiting for the watch loop to
	// close so it can resolve through one fresh watched compilation.
	StateClosingToRebuild
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateWatching:
		return "watching"
	case StateClosingToRebuild:
		return "closing-to-rebuild"
	default:
		return "unknown"
	}
}

// Instance tracks the compiler and watch loop of one bundle target across
// task invocations. It is safe for use from compiler callbacks.
type Instance struct {
	mu sync.Mutex

	compiler bundler.Compiler
	watcher  bundler.Watcher
	stats    *bundler.Snapshot
	failed   bool
	state    State

	// watchDone completes a directly started watch; fired by unwatch.
	watchDone func()
	// rebuildDone completes a build redirected through the watch loop.
	rebuildDone func()
}

// NewInstance returns an empty instance.
func NewInstance() *Instance {
	return &Instance{}
}

// State returns the lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Watching reports whether a watch loop handle is held.
func (i *Instance) Watching() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.watcher != nil
}

// Stats returns the snapshot of the last successful report.
func (i *Instance) Stats() *bundler.Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stats
}

// Failed reports whether the last compilation ended with an error.
func (i *Instance) Failed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.failed
}

// Dispose releases compiler resources when the compiler supports it.
func (i *Instance) Dispose() {
	i.mu.Lock()
	c := i.compiler
	i.mu.Unlock()
	if d, ok := c.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}

// compilerFor returns the compiler, creating it from cfg on first use.
func (i *Instance) compilerFor(b bundler.Bundler, cfg *bundler.Config) bundler.Compiler {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.compiler == nil {
		i.compiler = b.NewCompiler(cfg)
	}
	return i.compiler
}

func (i *Instance) record(snap *bundler.Snapshot, failed bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if snap != nil {
		i.stats = snap
	}
	i.failed = failed
}
