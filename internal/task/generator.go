package task

import (
	"github.com/opmodel/packtask/internal/pack"
)

// Base names of the generated tasks.
const (
	BaseConfig  = "config"
	BaseBuild   = "build"
	BaseModules = "modules"
	BaseClear   = "clear"
	BaseWatch   = "watch"
	BaseUnwatch = "unwatch"
)

// Group is the task set of one bundle target together with the instance its
// tasks share.
type Group struct {
	Name     string
	Instance *pack.Instance
	Tasks    Set
}

type options struct {
	prefix    *string
	suffix    string
	groupName string
}

// Option configures Generate.
type Option func(*options)

// WithPrefix sets the task name prefix. The default is the bundler name
// followed by a colon.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = &prefix }
}

// WithSuffix sets the task name suffix. The default is empty.
func WithSuffix(suffix string) Option {
	return func(o *options) { o.suffix = suffix }
}

// WithName names the group, which defaults to the source key.
func WithName(name string) Option {
	return func(o *options) { o.groupName = name }
}

// Generate creates the six tasks of a bundle target: config, build, modules,
// clear, watch and unwatch, each named prefix + base + suffix.
func Generate(o *pack.Orchestrator, src pack.Source, opts ...Option) *Group {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	prefix := o.Bundler().Name() + ":"
	if cfg.prefix != nil {
		prefix = *cfg.prefix
	}
	name := func(base string) string { return prefix + base + cfg.suffix }

	g := &Group{Name: cfg.groupName, Instance: pack.NewInstance(), Tasks: Set{}}
	if g.Name == "" {
		g.Name = src.Key
	}

	add := func(t *Task) {
		t.Target = g.Name
		g.Tasks[t.Name] = t
	}

	add(&Task{
		Name:        name(BaseConfig),
		Description: "print the resolved configuration",
		Fn: func(func()) error {
			return o.Inspect(src)
		},
	})
	add(&Task{
		Name:        name(BaseBuild),
		Description: "compile once",
		Async:       true,
		Fn: func(done func()) error {
			inst, err := o.Build(src, g.Instance, done)
			g.Instance = inst
			return err
		},
	})
	add(&Task{
		Name:        name(BaseModules),
		Description: "list modules of the last compilation",
		Fn: func(func()) error {
			o.Modules(g.Instance)
			return nil
		},
	})
	add(&Task{
		Name:        name(BaseClear),
		Description: "delete the bundle and its source map",
		Async:       true,
		Fn: func(done func()) error {
			return o.Clear(src, done)
		},
	})
	add(&Task{
		Name:        name(BaseWatch),
		Description: "recompile on source changes",
		Async:       true,
		Stop:        name(BaseUnwatch),
		Fn: func(done func()) error {
			inst, err := o.Watch(src, g.Instance, done)
			g.Instance = inst
			return err
		},
	})
	add(&Task{
		Name:        name(BaseUnwatch),
		Description: "stop watching",
		Fn: func(func()) error {
			g.Instance = o.Unwatch(g.Instance)
			return nil
		},
	})
	return g
}
