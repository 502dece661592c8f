package bundler

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher recompiles whenever a directory holding a bundled module
// changes. The watched set follows the module list of the latest build.
type fileWatcher struct {
	c    *esbuildCompiler
	fsw  *fsnotify.Watcher
	opts WatchOptions
	cb   Callback

	workDir string
	outDir  string
	dirs    map[string]bool

	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

func newFileWatcher(c *esbuildCompiler, opts WatchOptions, cb Callback) (*fileWatcher, error) {
	wd, err := c.absWorkDir()
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	outDir := c.cfg.Output.Path
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(wd, outDir)
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultWatchDelay
	}
	return &fileWatcher{
		c:       c,
		fsw:     fsw,
		opts:    opts,
		cb:      cb,
		workDir: wd,
		outDir:  outDir,
		dirs:    make(map[string]bool),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (w *fileWatcher) loop() {
	defer close(w.done)

	w.cycle()

	var pending <-chan time.Time
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod || w.ignored(ev.Name) {
				continue
			}
			pending = time.After(w.opts.Delay)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.cb(err, nil)
		case <-pending:
			pending = nil
			w.cycle()
		}
	}
}

func (w *fileWatcher) cycle() {
	select {
	case <-w.stop:
		return
	default:
	}
	stats, err := w.c.compile(true)
	w.sync(stats)
	w.cb(err, stats)
}

// sync adds the directories of every known module and entry point.
func (w *fileWatcher) sync(stats *Stats) {
	var paths []string
	paths = append(paths, w.c.cfg.EntryPoints...)
	if stats != nil {
		for _, m := range stats.Modules {
			paths = append(paths, m.Name)
		}
	}
	for _, p := range paths {
		if strings.Contains(p, ":") && !filepath.IsAbs(p) {
			// namespaced inputs such as "data:" or "http-url:" have no directory
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(w.workDir, p)
		}
		dir := filepath.Dir(p)
		if w.dirs[dir] || strings.Contains(dir, "node_modules") {
			continue
		}
		if err := w.fsw.Add(dir); err == nil {
			w.dirs[dir] = true
		}
	}
}

// ignored reports whether a change to path must not trigger a rebuild.
// Paths under the output directory are always ignored.
func (w *fileWatcher) ignored(path string) bool {
	if rel, err := filepath.Rel(w.outDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return true
	}
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	return matchIgnored(w.opts.Ignored, filepath.ToSlash(rel))
}

// matchIgnored matches rel against glob patterns. A leading "**/" matches
// any directory depth.
func matchIgnored(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if rest, found := strings.CutPrefix(pattern, "**/"); found {
			parts := strings.Split(rel, "/")
			for i := range parts {
				if ok, _ := filepath.Match(rest, strings.Join(parts[i:], "/")); ok {
					return true
				}
			}
		}
	}
	return false
}

// Close stops the loop. cb runs after the loop has ended, the compiler has
// been released and the watchClose hook has fired.
func (w *fileWatcher) Close(cb func()) {
	w.stopOnce.Do(func() { close(w.stop) })
	go func() {
		<-w.done
		w.closeOnce.Do(func() {
			_ = w.fsw.Close()
			w.c.release()
			w.c.hooks.Call(HookWatchClose, &HookEvent{Watch: true})
		})
		if cb != nil {
			cb()
		}
	}()
}
