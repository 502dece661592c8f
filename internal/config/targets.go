package config

import (
	"github.com/opmodel/packtask/internal/bundler"
	"github.com/opmodel/packtask/internal/pack"
	"github.com/opmodel/packtask/internal/task"
)

// Target is a bundle ready for task generation.
type Target struct {
	Name   string
	Prefix string
	Suffix string
	Source pack.Source
}

// Options returns the task generator options naming the target's tasks.
func (t Target) Options() []task.Option {
	return []task.Option{
		task.WithName(t.Name),
		task.WithPrefix(t.Prefix),
		task.WithSuffix(t.Suffix),
	}
}

// Targets turns every bundle into a Target, sorted by name. file is the
// config file the bundles came from and scopes the source keys.
func Targets(cfg *Config, file, bundlerName string) []Target {
	names := cfg.BundleNames()
	targets := make([]Target, 0, len(names))

	defaultPrefix := bundlerName + ":"
	if cfg.Tasks.Prefix != nil {
		defaultPrefix = *cfg.Tasks.Prefix
	}

	for _, name := range names {
		bundle := cfg.Bundles[name]

		prefix := defaultPrefix
		if bundle.Prefix != nil {
			prefix = *bundle.Prefix
		}
		suffix := ""
		switch {
		case bundle.Suffix != nil:
			suffix = *bundle.Suffix
		case len(names) > 1:
			suffix = ":" + name
		}

		targets = append(targets, Target{
			Name:   name,
			Prefix: prefix,
			Suffix: suffix,
			Source: pack.Source{Key: file + "#" + name, Produce: FileProducer(bundle)},
		})
	}
	return targets
}

// FileProducer returns a producer yielding a copy of the bundle's options.
func FileProducer(bundle BundleConfig) pack.Producer {
	return func(bundler.Bundler) (*bundler.Config, error) {
		cfg := bundle.Config
		cfg.EntryPoints = append([]string(nil), bundle.EntryPoints...)
		cfg.Define = append([]string(nil), bundle.Define...)
		cfg.External = append([]string(nil), bundle.External...)
		cfg.Loader = append([]string(nil), bundle.Loader...)
		cfg.Watch.Ignored = append([]string(nil), bundle.Watch.Ignored...)
		return &cfg, nil
	}
}
