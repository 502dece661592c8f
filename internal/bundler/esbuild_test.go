package bundler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

type result struct {
	err   error
	stats *Stats
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) (string, *Config) {
	t.Helper()
	dir := t.TempDir()
	writeSource(t, dir, "src/index.js", "import { greet } from './greet'\nconsole.log(greet('world'))\n")
	writeSource(t, dir, "src/greet.js", "export function greet(name) { return 'hello ' + name }\n")
	return dir, &Config{
		EntryPoints: []string{"src/index.js"},
		Output:      Output{Path: "dist", Filename: "bundle.js", SourceMapFilename: "bundle.map"},
		Format:      "esm",
	}
}

func waitResult(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(30 * time.Second):
		t.Fatal("compilation did not finish")
		return result{}
	}
}

func TestEsbuild_Run(t *testing.T) {
	dir, cfg := newProject(t)
	c := NewEsbuild(afero.NewOsFs(), dir).NewCompiler(cfg)

	var hooks []string
	for _, name := range HookNames {
		require.NoError(t, c.Hooks().Tap(name, Tap{Fn: func(ev *HookEvent) { hooks = append(hooks, ev.Hook) }}))
	}

	ch := make(chan result, 1)
	c.Run(func(err error, stats *Stats) { ch <- result{err, stats} })
	r := waitResult(t, ch)

	require.NoError(t, r.err)
	require.NotNil(t, r.stats)
	assert.Empty(t, r.stats.Errors)
	assert.Len(t, r.stats.Hash, 16)
	assert.False(t, c.Running())
	assert.Equal(t, []string{HookBeforeRun, HookCompile, HookDone}, hooks)

	names := make([]string, 0, len(r.stats.Assets))
	for _, a := range r.stats.Assets {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"bundle.js", "bundle.map"}, names)

	bundle, err := os.ReadFile(filepath.Join(dir, "dist", "bundle.js"))
	require.NoError(t, err)
	assert.Contains(t, string(bundle), "hello ")
	assert.Contains(t, string(bundle), "sourceMappingURL=bundle.map")
	assert.FileExists(t, filepath.Join(dir, "dist", "bundle.map"))

	require.Len(t, r.stats.Modules, 2)
	assert.Equal(t, "src/greet.js", r.stats.Modules[0].Name)
	require.Len(t, r.stats.Modules[0].Reasons, 1)
	assert.Equal(t, "import-statement", r.stats.Modules[0].Reasons[0].Type)
	assert.Equal(t, "src/index.js", r.stats.Modules[0].Reasons[0].Module)
	assert.Empty(t, r.stats.Modules[1].Reasons)

	c.(*esbuildCompiler).Dispose()
}

func TestEsbuild_RunReportsModuleErrors(t *testing.T) {
	dir, cfg := newProject(t)
	writeSource(t, dir, "src/index.js", "import './missing'\n")
	c := NewEsbuild(afero.NewOsFs(), dir).NewCompiler(cfg)
	defer c.(*esbuildCompiler).Dispose()

	ch := make(chan result, 1)
	c.Run(func(err error, stats *Stats) { ch <- result{err, stats} })
	r := waitResult(t, ch)

	require.NoError(t, r.err)
	require.NotNil(t, r.stats)
	require.Len(t, r.stats.Errors, 1)
	assert.Contains(t, r.stats.Errors[0], "src/index.js:1:")
	assert.Contains(t, r.stats.Errors[0], "./missing")
}

func TestEsbuild_InvalidConfig(t *testing.T) {
	c := NewEsbuild(afero.NewMemMapFs(), t.TempDir()).NewCompiler(&Config{})

	var failed bool
	require.NoError(t, c.Hooks().Tap(HookFailed, Tap{Fn: func(*HookEvent) { failed = true }}))

	ch := make(chan result, 1)
	c.Run(func(err error, stats *Stats) { ch <- result{err, stats} })
	r := waitResult(t, ch)

	assert.ErrorIs(t, r.err, oerrors.ErrValidation)
	assert.Nil(t, r.stats)
	assert.True(t, failed)
}

func TestEsbuild_ConcurrentRun(t *testing.T) {
	dir, cfg := newProject(t)
	c := NewEsbuild(afero.NewOsFs(), dir).NewCompiler(cfg)
	defer c.(*esbuildCompiler).Dispose()

	release := make(chan struct{})
	require.NoError(t, c.Hooks().Tap(HookBeforeRun, Tap{Fn: func(*HookEvent) { <-release }}))

	first := make(chan result, 1)
	second := make(chan result, 1)
	c.Run(func(err error, stats *Stats) { first <- result{err, stats} })
	assert.True(t, c.Running())
	c.Run(func(err error, stats *Stats) { second <- result{err, stats} })

	r := waitResult(t, second)
	assert.ErrorIs(t, r.err, oerrors.ErrConcurrentCompilation)

	close(release)
	r = waitResult(t, first)
	assert.NoError(t, r.err)
}

func TestEsbuild_Watch(t *testing.T) {
	dir, cfg := newProject(t)
	c := NewEsbuild(afero.NewOsFs(), dir).NewCompiler(cfg)
	defer c.(*esbuildCompiler).Dispose()

	var closed bool
	require.NoError(t, c.Hooks().Tap(HookWatchClose, Tap{Fn: func(*HookEvent) { closed = true }}))

	ch := make(chan result, 4)
	w := c.Watch(WatchOptions{Delay: 10 * time.Millisecond}, func(err error, stats *Stats) {
		ch <- result{err, stats}
	})

	first := waitResult(t, ch)
	require.NoError(t, first.err)
	assert.True(t, c.Running())

	writeSource(t, dir, "src/greet.js", "export function greet(name) { return 'bye ' + name }\n")
	second := waitResult(t, ch)
	require.NoError(t, second.err)
	assert.NotEqual(t, first.stats.Hash, second.stats.Hash)

	stopped := make(chan struct{})
	w.Close(func() { close(stopped) })
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("watcher did not close")
	}
	assert.False(t, c.Running())
	assert.True(t, closed)
}
