// Package config provides configuration loading and management.
package config

import (
	"sort"

	"github.com/opmodel/packtask/internal/bundler"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// TasksConfig contains task naming settings shared by every bundle.
type TasksConfig struct {
	// Prefix is prepended to every task name.
	// Env: PACKTASK_TASKS_PREFIX, Default: "<bundler>:"
	Prefix *string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// BundleConfig is one bundle target: task naming plus bundler options.
type BundleConfig struct {
	// Prefix overrides tasks.prefix for this bundle.
	Prefix *string `mapstructure:"prefix" yaml:"prefix,omitempty"`

	// Suffix is appended to task names. When several bundles are configured
	// and Suffix is unset, it defaults to ":<bundle name>".
	Suffix *string `mapstructure:"suffix" yaml:"suffix,omitempty"`

	bundler.Config `mapstructure:",squash" yaml:",inline"`
}

// Config represents the packtask configuration file.
type Config struct {
	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`

	// Tasks contains task naming settings.
	Tasks TasksConfig `mapstructure:"tasks" yaml:"tasks,omitempty"`

	// Bundles maps bundle names to their configuration. Names are
	// case-insensitive and stored lower case.
	Bundles map[string]BundleConfig `mapstructure:"bundles" yaml:"bundles"`
}

// DefaultConfig returns the configuration written by `packtask config init`.
func DefaultConfig() *Config {
	return &Config{
		Bundles: map[string]BundleConfig{
			"app": {
				Config: bundler.Config{
					EntryPoints: []string{"src/index.ts"},
					Output: bundler.Output{
						Path:              "dist",
						Filename:          "bundle.js",
						SourceMapFilename: "bundle.js.map",
					},
					Format:   "esm",
					Platform: "browser",
					Target:   "es2020",
					Watch: bundler.WatchOptions{
						Ignored: []string{"**/*.test.ts"},
					},
				},
			},
		},
	}
}

// BundleNames returns the bundle names in sorted order.
func (c *Config) BundleNames() []string {
	names := make([]string, 0, len(c.Bundles))
	for name := range c.Bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
