// Package bundler defines the compiler handle that packtask drives and
// provides its esbuild implementation.
//
// A Compiler is created once per bundle target and reused. It compiles either
// once (Run) or in a loop triggered by source changes (Watch). All results are
// delivered through callbacks on the compiler's own goroutines.
package bundler

// Callback receives the outcome of one compilation. err is set for
// compiler-level failures; per-module problems are reported in stats.
type Callback func(err error, stats *Stats)

// Bundler constructs compilers from configuration.
type Bundler interface {
	// Name identifies the bundler, e.g. "esbuild".
	Name() string

	// NewCompiler returns a compiler for cfg. Configuration problems surface
	// through the first compilation callback, not here.
	NewCompiler(cfg *Config) Compiler
}

// Compiler is a stateful handle for one configured bundle target.
type Compiler interface {
	// Run starts a single compilation and calls cb when it finishes.
	Run(cb Callback)

	// Watch starts a compilation loop that recompiles on source changes,
	// calling cb after every compilation.
	Watch(opts WatchOptions, cb Callback) Watcher

	// Running reports whether a compilation or watch loop is active.
	Running() bool

	// Hooks returns the compiler's extension points.
	Hooks() *Hooks
}

// Watcher is the handle of an active watch loop.
type Watcher interface {
	// Close stops the loop and calls cb once the loop has fully ended.
	Close(cb func())
}
