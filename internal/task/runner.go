package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	oerrors "github.com/opmodel/packtask/internal/errors"
	"github.com/opmodel/packtask/internal/output"
)

// DefaultStopGrace bounds how long an interrupted task may take to finish
// after its stop task ran.
const DefaultStopGrace = 10 * time.Second

// Runner executes tasks in series.
type Runner struct {
	log    *output.Logger
	tasks  Set
	groups []*Group
	grace  time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStopGrace overrides DefaultStopGrace.
func WithStopGrace(d time.Duration) RunnerOption {
	return func(r *Runner) { r.grace = d }
}

// NewRunner creates a runner logging to log.
func NewRunner(log *output.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{log: log, tasks: Set{}, grace: DefaultStopGrace}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers the tasks of g. Task names must be unique across groups.
func (r *Runner) Add(g *Group) error {
	for name := range g.Tasks {
		if _, exists := r.tasks[name]; exists {
			return oerrors.NewValidationError(fmt.Sprintf("task %q is defined twice", name), "", "",
				"Give every bundle a distinct prefix or suffix")
		}
	}
	for name, t := range g.Tasks {
		r.tasks[name] = t
	}
	r.groups = append(r.groups, g)
	return nil
}

// Tasks returns every registered task.
func (r *Runner) Tasks() Set { return r.tasks }

// Groups returns the registered groups in registration order.
func (r *Runner) Groups() []*Group { return r.groups }

// Run executes the named tasks one after another. Each task must complete
// before the next one starts. When ctx is cancelled during a task with a
// stop task, the stop task runs and the interrupted task gets the grace
// period to finish.
func (r *Runner) Run(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, ok := r.tasks[name]; !ok {
			return oerrors.NewNotFoundError(fmt.Sprintf("task %q", name), "",
				"Run 'packtask tasks' to list available tasks")
		}
	}

	for _, name := range names {
		if ctx.Err() != nil {
			return fmt.Errorf("before task %s: %w", name, oerrors.ErrInterrupted)
		}
		if err := r.runOne(ctx, r.tasks[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, t *Task) error {
	finished := make(chan struct{})
	var once sync.Once
	done := func() {
		completed := false
		once.Do(func() {
			completed = true
			close(finished)
		})
		if !completed {
			r.log.Warn("task %s completed more than once", t.Name)
		}
	}

	start := time.Now()
	r.log.Debug("starting %s", output.Noun(t.Name))

	if err := t.Fn(done); err != nil {
		r.log.Fail("task %s failed: %v", t.Name, err)
		return fmt.Errorf("task %s: %w", t.Name, err)
	}
	if !t.Async {
		done()
	}

	select {
	case <-finished:
		r.log.Debug("finished %s after %s", output.Noun(t.Name), time.Since(start).Round(time.Millisecond))
		return nil
	case <-ctx.Done():
	}

	if err := r.stop(t, finished); err != nil {
		return err
	}
	return fmt.Errorf("task %s: %w", t.Name, oerrors.ErrInterrupted)
}

// stop runs the stop task of t and waits for t to finish.
func (r *Runner) stop(t *Task, finished <-chan struct{}) error {
	stopTask, ok := r.tasks[t.Stop]
	if !ok {
		r.log.Warn("interrupted %s", t.Name)
		return fmt.Errorf("task %s: %w", t.Name, oerrors.ErrInterrupted)
	}

	r.log.Info("stopping %s", output.Noun(t.Name))
	if err := stopTask.Fn(func() {}); err != nil {
		return fmt.Errorf("task %s: %w", stopTask.Name, err)
	}

	select {
	case <-finished:
		return nil
	case <-time.After(r.grace):
		r.log.Warn("task %s did not finish within %s", t.Name, r.grace)
		return fmt.Errorf("task %s: %w", t.Name, oerrors.ErrInterrupted)
	}
}
