// Package task exposes orchestrator operations as named tasks and runs them.
package task

import "sort"

// Task is a named unit of work.
type Task struct {
	Name        string
	Description string

	// Target is the bundle target the task belongs to.
	Target string

	// Async tasks signal completion by calling done. Other tasks are
	// complete when Fn returns.
	Async bool

	// Stop names the task that ends this one early, e.g. unwatch for watch.
	Stop string

	// Fn runs the task. A returned error aborts the run and done is not
	// expected to be called.
	Fn func(done func()) error
}

// Kind describes how the task completes.
func (t *Task) Kind() string {
	switch {
	case t.Stop != "":
		return "long-running"
	case t.Async:
		return "async"
	default:
		return "sync"
	}
}

// Set maps task names to tasks.
type Set map[string]*Task

// Names returns the task names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
