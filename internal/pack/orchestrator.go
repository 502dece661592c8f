package pack

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/opmodel/packtask/internal/bundler"
	"github.com/opmodel/packtask/internal/fsutil"
	"github.com/opmodel/packtask/internal/output"
)

// MsgConcurrentCompilation is logged when a build or watch is requested on a
// busy compiler.
const MsgConcurrentCompilation = "You ran the bundler twice. Each instance only supports a single concurrent compilation at a time."

// MsgBuildPending is logged when a build arrives while another build waits
// for the watch loop to close.
const MsgBuildPending = "A build is already waiting for the watcher to close."

// Orchestrator runs build, watch, unwatch, clear and report operations
// against instances.
type Orchestrator struct {
	bundler  bundler.Bundler
	resolver *Resolver
	log      *output.Logger
	fs       afero.Fs
	workDir  string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger that receives reports.
func WithLogger(l *output.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithFs sets the filesystem used by Clear.
func WithFs(fs afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// WithWorkDir sets the directory report and clear paths are relative to.
// Empty means the process working directory.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) { o.workDir = dir }
}

// New creates an orchestrator for b.
func New(b bundler.Bundler, opts ...Option) *Orchestrator {
	o := &Orchestrator{bundler: b, resolver: NewResolver(b)}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = output.Scoped(b.Name())
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	return o
}

// Bundler returns the bundler compilers are created from.
func (o *Orchestrator) Bundler() bundler.Bundler { return o.bundler }

func noop() {}

// prepare resolves configuration, takes its hooks and returns the
// instance's compiler.
func (o *Orchestrator) prepare(src Source, inst *Instance) (*bundler.Config, bundler.Compiler, map[string]bundler.HookRegistration, error) {
	cfg, err := o.resolver.Resolve(src)
	if err != nil {
		return nil, nil, nil, err
	}
	hooks := cfg.TakeHooks()
	return cfg, inst.compilerFor(o.bundler, cfg), hooks, nil
}

func (o *Orchestrator) applyHooks(hooks map[string]bundler.HookRegistration, c bundler.Compiler) {
	if err := bundler.ApplyHooks(hooks, c); err != nil {
		o.log.Fail("applying hooks: %v", err)
	}
}

// Build runs one compilation and calls done once it has been reported.
// With an active watch loop the loop is closed and restarted instead, and
// done fires after its first compilation. A build already in flight on inst
// rejects the call with a failure line. A nil inst is replaced by a new
// Instance. Only configuration failures are returned; compilation failures
// are logged and done still fires.
func (o *Orchestrator) Build(src Source, inst *Instance, done func()) (*Instance, error) {
	if inst == nil {
		inst = NewInstance()
	}
	if done == nil {
		done = noop
	}

	cfg, c, hooks, err := o.prepare(src, inst)
	if err != nil {
		return inst, err
	}
	o.applyHooks(hooks, c)

	inst.mu.Lock()
	if inst.state == StateClosingToRebuild {
		inst.mu.Unlock()
		o.log.Fail(MsgBuildPending)
		done()
		return inst, nil
	}
	if w := inst.watcher; w != nil {
		inst.state = StateClosingToRebuild
		inst.rebuildDone = done
		inst.mu.Unlock()

		o.log.Debug("closing watcher to rebuild")
		w.Close(func() {
			inst.mu.Lock()
			if inst.watcher == w {
				inst.watcher = nil
			}
			inst.state = StateWatching
			inst.mu.Unlock()
			o.startWatch(cfg, c, inst)
		})
		return inst, nil
	}
	if inst.state == StateBuilding {
		inst.mu.Unlock()
		o.log.Fail(MsgConcurrentCompilation)
		done()
		return inst, nil
	}
	owner := inst.state == StateIdle
	if owner {
		inst.state = StateBuilding
	}
	inst.mu.Unlock()

	c.Run(func(err error, stats *bundler.Stats) {
		o.report(cfg, inst, err, stats)
		if owner {
			inst.mu.Lock()
			if inst.state == StateBuilding {
				inst.state = StateIdle
			}
			inst.mu.Unlock()
		}
		done()
	})
	return inst, nil
}

// Watch starts a watch loop reporting every compilation. done is kept until
// Unwatch ends the loop. A busy compiler is refused with a failure line and
// done fires immediately.
func (o *Orchestrator) Watch(src Source, inst *Instance, done func()) (*Instance, error) {
	if inst == nil {
		inst = NewInstance()
	}
	if done == nil {
		done = noop
	}

	cfg, c, hooks, err := o.prepare(src, inst)
	if err != nil {
		return inst, err
	}

	inst.mu.Lock()
	busy := c.Running() || inst.state == StateClosingToRebuild || inst.watcher != nil
	if !busy {
		inst.state = StateWatching
		inst.watchDone = done
	}
	inst.mu.Unlock()

	if busy {
		o.log.Fail(MsgConcurrentCompilation)
		done()
		return inst, nil
	}

	o.applyHooks(hooks, c)
	o.startWatch(cfg, c, inst)
	return inst, nil
}

// startWatch starts the loop. A pending redirected build resolves after the
// first compilation.
func (o *Orchestrator) startWatch(cfg *bundler.Config, c bundler.Compiler, inst *Instance) {
	w := c.Watch(cfg.Watch, func(err error, stats *bundler.Stats) {
		o.report(cfg, inst, err, stats)

		inst.mu.Lock()
		rebuildDone := inst.rebuildDone
		inst.rebuildDone = nil
		inst.mu.Unlock()

		if rebuildDone != nil {
			rebuildDone()
		}
	})

	inst.mu.Lock()
	inst.watcher = w
	inst.mu.Unlock()
}

// Unwatch closes an active watch loop. Once closed, the instance is idle and
// the stored watch completion fires, along with a redirected build that has
// not resolved yet. Without a watch loop it does nothing.
func (o *Orchestrator) Unwatch(inst *Instance) *Instance {
	if inst == nil {
		return NewInstance()
	}

	inst.mu.Lock()
	if inst.state == StateClosingToRebuild {
		inst.mu.Unlock()
		o.log.Warn("the watcher is closing for a pending build, unwatch ignored")
		return inst
	}
	w := inst.watcher
	inst.mu.Unlock()
	if w == nil {
		return inst
	}

	w.Close(func() {
		inst.mu.Lock()
		if inst.watcher == w {
			inst.watcher = nil
		}
		inst.state = StateIdle
		watchDone, rebuildDone := inst.watchDone, inst.rebuildDone
		inst.watchDone, inst.rebuildDone = nil, nil
		inst.mu.Unlock()

		if rebuildDone != nil {
			rebuildDone()
		}
		if watchDone != nil {
			watchDone()
		}
	})
	return inst
}

// Clear deletes the bundle and its source map, then calls done.
func (o *Orchestrator) Clear(src Source, done func()) error {
	cfg, err := o.resolver.Resolve(src)
	if err != nil {
		return err
	}

	files := []string{o.relative(cfg.OutputFile())}
	if sm := cfg.SourceMapFile(); sm != "" {
		files = append(files, o.relative(sm))
	}

	dir := o.workDir
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	fsutil.Unlink(o.fs, dir, files, o.log, done)
	return nil
}

// Modules logs the module graph of the last reported compilation.
func (o *Orchestrator) Modules(inst *Instance) {
	if inst == nil {
		return
	}
	snap := inst.Stats()
	if snap == nil {
		return
	}
	for _, m := range snap.Modules {
		o.log.Info("%s", output.Bold(m.Name))
		if len(m.Reasons) == 0 {
			o.log.Info("%s", output.Grey("    (root)"))
			continue
		}
		for _, r := range m.Reasons {
			from := output.Grey("n/a")
			if r.Module != "" {
				from = output.Green(r.Module)
			}
			o.log.Info("    %s %s from %s", output.Grey(r.Type), output.Green(r.UserRequest), from)
		}
	}
}

// Inspect logs the resolved configuration as YAML.
func (o *Orchestrator) Inspect(src Source) error {
	cfg, err := o.resolver.Resolve(src)
	if err != nil {
		return err
	}
	o.log.Inspect(cfg)
	return nil
}

// report logs a compilation result and stores its snapshot on inst.
func (o *Orchestrator) report(cfg *bundler.Config, inst *Instance, err error, stats *bundler.Stats) {
	if err != nil {
		o.log.Fail("%s", err)
		inst.record(nil, true)
		return
	}
	if stats == nil {
		return
	}

	snap := stats.Snapshot(bundler.SnapshotOptions{Source: false})
	inst.record(snap, len(snap.Errors) > 0)

	dir := o.relative(cfg.Output.Path)
	o.log.Info("time: %s ms", output.Magenta(snap.Time))
	o.log.Info("hash: %s", output.Grey(snap.Hash))
	for _, a := range snap.Assets {
		o.log.Info("write %s (size: %s)",
			output.Bold(filepath.Join(dir, filepath.FromSlash(a.Name))),
			output.Green(humanize.Bytes(uint64(a.Size))))
	}

	for _, e := range snap.Errors {
		head, detail, rest := splitMessage(e)
		o.log.Fail("%s", joinHead(output.Bold(head), detail))
		if rest != "" {
			o.log.Print(output.Red(rest))
		}
	}
	for _, w := range snap.Warnings {
		head, detail, rest := splitMessage(w)
		o.log.Warn("%s", joinHead(output.Bold(head), detail))
		if rest != "" {
			o.log.Print(output.Yellow(rest))
		}
	}
}

// splitMessage splits a multi-line message into its first line, second line
// and the remainder.
func splitMessage(msg string) (head, detail, rest string) {
	lines := strings.SplitN(msg, "\n", 3)
	head = lines[0]
	if len(lines) > 1 {
		detail = lines[1]
	}
	if len(lines) > 2 {
		rest = lines[2]
	}
	return head, detail, rest
}

func joinHead(head, detail string) string {
	if detail == "" {
		return head
	}
	return head + " " + detail
}

// relative returns path relative to the working directory, or path itself
// when that is not possible.
func (o *Orchestrator) relative(path string) string {
	base := o.workDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return path
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return path
	}
	return rel
}
