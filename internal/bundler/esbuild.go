package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

// EsbuildName is the name of the esbuild bundler.
const EsbuildName = "esbuild"

var targets = map[string]api.Target{
	"":       api.DefaultTarget,
	"esnext": api.ESNext,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var formats = map[string]api.Format{
	"":     api.FormatDefault,
	"esm":  api.FormatESModule,
	"cjs":  api.FormatCommonJS,
	"iife": api.FormatIIFE,
}

var platforms = map[string]api.Platform{
	"":        api.PlatformBrowser,
	"browser": api.PlatformBrowser,
	"node":    api.PlatformNode,
	"neutral": api.PlatformNeutral,
}

var loaders = map[string]api.Loader{
	"js":      api.LoaderJS,
	"jsx":     api.LoaderJSX,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
	"json":    api.LoaderJSON,
	"text":    api.LoaderText,
	"base64":  api.LoaderBase64,
	"dataurl": api.LoaderDataURL,
	"file":    api.LoaderFile,
	"binary":  api.LoaderBinary,
	"css":     api.LoaderCSS,
	"copy":    api.LoaderCopy,
	"empty":   api.LoaderEmpty,
}

func parseLoaders(entries []string) (map[string]api.Loader, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]api.Loader, len(entries))
	for _, entry := range entries {
		ext, name, ok := splitPair(entry)
		loader, known := loaders[strings.TrimSpace(name)]
		if !ok || !strings.HasPrefix(ext, ".") || !known {
			return nil, oerrors.NewValidationError(fmt.Sprintf("loader entry %q is not .ext=loader", entry),
				"", "loader", "Write entries such as .svg=text")
		}
		out[ext] = loader
	}
	return out, nil
}

// Esbuild is the esbuild bundler. Outputs are written through Fs, relative
// paths are resolved against WorkDir.
type Esbuild struct {
	Fs      afero.Fs
	WorkDir string
}

// NewEsbuild returns an esbuild bundler writing to fs. An empty workDir
// means the process working directory.
func NewEsbuild(fs afero.Fs, workDir string) *Esbuild {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Esbuild{Fs: fs, WorkDir: workDir}
}

// Name implements Bundler.
func (e *Esbuild) Name() string { return EsbuildName }

// NewCompiler implements Bundler.
func (e *Esbuild) NewCompiler(cfg *Config) Compiler {
	return &esbuildCompiler{
		cfg:     cfg,
		fs:      e.Fs,
		workDir: e.WorkDir,
		hooks:   NewHooks(),
	}
}

type esbuildCompiler struct {
	cfg     *Config
	fs      afero.Fs
	workDir string
	hooks   *Hooks

	mu      sync.Mutex
	running bool
	ctx     api.BuildContext
}

func (c *esbuildCompiler) Hooks() *Hooks { return c.hooks }

func (c *esbuildCompiler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *esbuildCompiler) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	return true
}

func (c *esbuildCompiler) release() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func errBusy() error {
	return fmt.Errorf("%w: a compilation is already in progress", oerrors.ErrConcurrentCompilation)
}

func (c *esbuildCompiler) Run(cb Callback) {
	if !c.acquire() {
		go cb(errBusy(), nil)
		return
	}
	go func() {
		stats, err := c.compile(false)
		c.release()
		cb(err, stats)
	}()
}

func (c *esbuildCompiler) Watch(opts WatchOptions, cb Callback) Watcher {
	if !c.acquire() {
		go cb(errBusy(), nil)
		return closedWatcher{}
	}
	w, err := newFileWatcher(c, opts, cb)
	if err != nil {
		c.release()
		go cb(fmt.Errorf("starting file watcher: %w", err), nil)
		return closedWatcher{}
	}
	go w.loop()
	return w
}

// Dispose releases esbuild's incremental build state.
func (c *esbuildCompiler) Dispose() {
	c.mu.Lock()
	ctx := c.ctx
	c.ctx = nil
	c.mu.Unlock()
	if ctx != nil {
		ctx.Dispose()
	}
}

func (c *esbuildCompiler) absWorkDir() (string, error) {
	if c.workDir != "" {
		return filepath.Abs(c.workDir)
	}
	return os.Getwd()
}

// context returns the incremental build context, creating it on first use.
// Only called by the goroutine that holds the running flag.
func (c *esbuildCompiler) context() (api.BuildContext, error) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx != nil {
		return ctx, nil
	}

	opts, err := c.buildOptions()
	if err != nil {
		return nil, err
	}
	ctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, fmt.Errorf("creating build context: %s", joinMessages(ctxErr.Errors))
	}

	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	return ctx, nil
}

func (c *esbuildCompiler) buildOptions() (api.BuildOptions, error) {
	cfg := c.cfg
	if err := cfg.Validate(); err != nil {
		return api.BuildOptions{}, err
	}
	wd, err := c.absWorkDir()
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("resolving working directory: %w", err)
	}
	defines, _ := parseDefines(cfg.Define)
	loaderMap, _ := parseLoaders(cfg.Loader)

	opts := api.BuildOptions{
		EntryPoints:   cfg.EntryPoints,
		AbsWorkingDir: wd,
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		LogLevel:      api.LogLevelSilent,

		Format:            formats[cfg.Format],
		Platform:          platforms[cfg.Platform],
		Target:            targets[strings.ToLower(cfg.Target)],
		MinifyWhitespace:  cfg.Minify,
		MinifyIdentifiers: cfg.Minify,
		MinifySyntax:      cfg.Minify,
		Define:            defines,
		External:          cfg.External,
		Loader:            loaderMap,
		Tsconfig:          cfg.Tsconfig,
	}

	if len(cfg.EntryPoints) > 1 {
		opts.Outdir = cfg.Output.Path
		opts.EntryNames = strings.TrimSuffix(cfg.Output.Filename, filepath.Ext(cfg.Output.Filename))
	} else {
		opts.Outfile = cfg.OutputFile()
	}
	if cfg.Output.SourceMapFilename != "" {
		opts.Sourcemap = api.SourceMapLinked
	}
	return opts, nil
}

// compile runs one compilation and fires the surrounding hooks.
func (c *esbuildCompiler) compile(watching bool) (*Stats, error) {
	ctx, err := c.context()
	if err != nil {
		c.hooks.Call(HookFailed, &HookEvent{Watch: watching, Err: err})
		return nil, err
	}

	if watching {
		c.hooks.Call(HookWatchRun, &HookEvent{Watch: true})
	} else {
		c.hooks.Call(HookBeforeRun, &HookEvent{})
	}
	c.hooks.Call(HookCompile, &HookEvent{Watch: watching})

	start := time.Now()
	result := ctx.Rebuild()

	stats, err := c.collect(result, start)
	if err != nil {
		c.hooks.Call(HookFailed, &HookEvent{Watch: watching, Err: err})
		return nil, err
	}
	c.hooks.Call(HookDone, &HookEvent{Watch: watching, Stats: stats})
	return stats, nil
}

// collect writes the output files and converts the build result to Stats.
func (c *esbuildCompiler) collect(result api.BuildResult, start time.Time) (*Stats, error) {
	wd, err := c.absWorkDir()
	if err != nil {
		return nil, err
	}
	outDir := c.cfg.Output.Path
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(wd, outDir)
	}

	stats := &Stats{
		StartTime: start,
		Errors:    formatMessages(result.Errors),
		Warnings:  formatMessages(result.Warnings),
	}

	for _, f := range result.OutputFiles {
		name, err := filepath.Rel(outDir, f.Path)
		if err != nil {
			name = filepath.Base(f.Path)
		}
		stats.Assets = append(stats.Assets, Asset{
			Name:     filepath.ToSlash(name),
			Size:     len(f.Contents),
			Contents: f.Contents,
		})
	}
	stats.Assets = renameSourceMap(stats.Assets, c.cfg.Output.SourceMapFilename)

	for _, a := range stats.Assets {
		if err := c.write(filepath.Join(outDir, filepath.FromSlash(a.Name)), a.Contents); err != nil {
			return nil, err
		}
	}
	stats.Hash = hashAssets(stats.Assets)

	if result.Metafile != "" {
		meta, err := ParseMetafile(result.Metafile)
		if err != nil {
			return nil, err
		}
		stats.Modules = meta.Modules()
	}

	stats.EndTime = time.Now()
	return stats, nil
}

func (c *esbuildCompiler) write(path string, data []byte) error {
	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(c.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// renameSourceMap gives esbuild's "<bundle>.map" asset the configured name
// and points the bundle's sourceMappingURL comment at it.
func renameSourceMap(assets []Asset, mapName string) []Asset {
	if mapName == "" {
		return assets
	}
	for i := range assets {
		if !strings.HasSuffix(assets[i].Name, ".map") {
			continue
		}
		generated := assets[i].Name
		if generated == mapName {
			return assets
		}
		assets[i].Name = mapName
		bundle := strings.TrimSuffix(generated, ".map")
		for j := range assets {
			if assets[j].Name != bundle {
				continue
			}
			from := "sourceMappingURL=" + filepath.Base(generated)
			to := "sourceMappingURL=" + filepath.Base(mapName)
			assets[j].Contents = []byte(strings.Replace(string(assets[j].Contents), from, to, 1))
			assets[j].Size = len(assets[j].Contents)
		}
		return assets
	}
	return assets
}

// closedWatcher is returned when a watch loop could not start.
type closedWatcher struct{}

func (closedWatcher) Close(cb func()) {
	if cb != nil {
		go cb()
	}
}
