package pack

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/opmodel/packtask/internal/bundler"
	"github.com/opmodel/packtask/internal/output"
)

var (
	defaultMu   sync.Mutex
	defaultOrch *Orchestrator
)

// Default returns the process-wide orchestrator backed by esbuild.
func Default() *Orchestrator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultOrch == nil {
		b := bundler.NewEsbuild(afero.NewOsFs(), "")
		defaultOrch = New(b, WithLogger(output.Scoped(b.Name())))
	}
	return defaultOrch
}

// SetDefault replaces the process-wide orchestrator.
func SetDefault(o *Orchestrator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOrch = o
}

// Build runs Orchestrator.Build on the default orchestrator, for callers
// outside the generated tasks.
func Build(src Source, inst *Instance, done func()) (*Instance, error) {
	return Default().Build(src, inst, done)
}
