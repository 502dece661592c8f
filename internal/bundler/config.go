package bundler

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

// Config is the configuration of one bundle target.
type Config struct {
	// EntryPoints are the files compilation starts from.
	EntryPoints []string `mapstructure:"entryPoints" yaml:"entryPoints" json:"entryPoints"`

	// Output controls where the bundle is written.
	Output Output `mapstructure:"output" yaml:"output" json:"output"`

	// Format is one of esm, cjs or iife. Empty lets esbuild decide.
	Format string `mapstructure:"format" yaml:"format,omitempty" json:"format,omitempty"`

	// Platform is one of browser, node or neutral.
	Platform string `mapstructure:"platform" yaml:"platform,omitempty" json:"platform,omitempty"`

	// Target is the language target, e.g. es2020 or esnext.
	Target string `mapstructure:"target" yaml:"target,omitempty" json:"target,omitempty"`

	// Minify enables whitespace, identifier and syntax minification.
	Minify bool `mapstructure:"minify" yaml:"minify,omitempty" json:"minify,omitempty"`

	// Define lists KEY=VALUE global constant substitutions.
	Define []string `mapstructure:"define" yaml:"define,omitempty" json:"define,omitempty"`

	// External lists import paths left out of the bundle.
	External []string `mapstructure:"external" yaml:"external,omitempty" json:"external,omitempty"`

	// Loader lists .ext=loader overrides, e.g. ".svg=text".
	Loader []string `mapstructure:"loader" yaml:"loader,omitempty" json:"loader,omitempty"`

	// Tsconfig is an optional path to a tsconfig.json.
	Tsconfig string `mapstructure:"tsconfig" yaml:"tsconfig,omitempty" json:"tsconfig,omitempty"`

	// Watch holds options for the watch loop.
	Watch WatchOptions `mapstructure:"watch" yaml:"watch,omitempty" json:"watch,omitempty"`

	// Hooks are extension point registrations. They are not part of the
	// bundler's own options and are removed with TakeHooks before use.
	Hooks map[string]HookRegistration `mapstructure:"-" yaml:"-" json:"-"`
}

// Output controls the emitted files.
type Output struct {
	// Path is the output directory.
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// Filename is the bundle file name. With several entry points it must
	// contain the [name] placeholder.
	Filename string `mapstructure:"filename" yaml:"filename" json:"filename"`

	// SourceMapFilename enables a linked source map written under this name.
	SourceMapFilename string `mapstructure:"sourceMapFilename" yaml:"sourceMapFilename,omitempty" json:"sourceMapFilename,omitempty"`
}

// WatchOptions tune the watch loop.
type WatchOptions struct {
	// Delay aggregates changes that happen within this window into one rebuild.
	Delay time.Duration `mapstructure:"delay" yaml:"delay,omitempty" json:"delay,omitempty"`

	// Ignored lists glob patterns of paths whose changes never trigger a rebuild.
	Ignored []string `mapstructure:"ignored" yaml:"ignored,omitempty" json:"ignored,omitempty"`
}

// DefaultWatchDelay is used when WatchOptions.Delay is zero.
const DefaultWatchDelay = 50 * time.Millisecond

var (
	validFormats   = []string{"", "esm", "cjs", "iife"}
	validPlatforms = []string{"", "browser", "node", "neutral"}
)

// TakeHooks returns the hook registrations and removes them from the config.
func (c *Config) TakeHooks() map[string]HookRegistration {
	hooks := c.Hooks
	c.Hooks = nil
	return hooks
}

// OutputFile returns the bundle path (output path joined with filename).
func (c *Config) OutputFile() string {
	return filepath.Join(c.Output.Path, c.Output.Filename)
}

// SourceMapFile returns the source map path, or "" when none is configured.
func (c *Config) SourceMapFile() string {
	if c.Output.SourceMapFilename == "" {
		return ""
	}
	return filepath.Join(c.Output.Path, c.Output.SourceMapFilename)
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if len(c.EntryPoints) == 0 {
		return oerrors.NewValidationError("at least one entry point is required", "", "entryPoints",
			"List the files compilation starts from, e.g. [src/index.ts]")
	}
	if c.Output.Path == "" {
		return oerrors.NewValidationError("output path is required", "", "output.path", "")
	}
	if c.Output.Filename == "" {
		return oerrors.NewValidationError("output filename is required", "", "output.filename", "")
	}
	if len(c.EntryPoints) > 1 && !strings.Contains(c.Output.Filename, "[name]") {
		return oerrors.NewValidationError("several entry points need a [name] placeholder in the filename",
			"", "output.filename", "Use a filename such as [name].js")
	}
	if !contains(validFormats, c.Format) {
		return oerrors.NewValidationError(fmt.Sprintf("unknown format %q", c.Format), "", "format",
			"Use esm, cjs or iife")
	}
	if !contains(validPlatforms, c.Platform) {
		return oerrors.NewValidationError(fmt.Sprintf("unknown platform %q", c.Platform), "", "platform",
			"Use browser, node or neutral")
	}
	if _, ok := targets[strings.ToLower(c.Target)]; !ok {
		return oerrors.NewValidationError(fmt.Sprintf("unknown target %q", c.Target), "", "target",
			"Use esnext or an ECMAScript year such as es2020")
	}
	if _, err := parseDefines(c.Define); err != nil {
		return err
	}
	if _, err := parseLoaders(c.Loader); err != nil {
		return err
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// splitPair splits a KEY=VALUE entry.
func splitPair(entry string) (string, string, bool) {
	key, value, ok := strings.Cut(entry, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", false
	}
	return strings.TrimSpace(key), value, true
}

func parseDefines(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	defines := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := splitPair(entry)
		if !ok {
			return nil, oerrors.NewValidationError(fmt.Sprintf("define entry %q is not KEY=VALUE", entry),
				"", "define", `Write entries such as process.env.NODE_ENV="production"`)
		}
		defines[key] = value
	}
	return defines, nil
}
