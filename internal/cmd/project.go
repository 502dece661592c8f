package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/opmodel/packtask/internal/bundler"
	"github.com/opmodel/packtask/internal/config"
	"github.com/opmodel/packtask/internal/output"
	"github.com/opmodel/packtask/internal/pack"
	"github.com/opmodel/packtask/internal/task"
)

var (
	// appFs is the filesystem used for outputs and the config template.
	appFs afero.Fs = afero.NewOsFs()

	// newBundler creates the bundler for a project rooted at workDir.
	newBundler = func(fs afero.Fs, workDir string) bundler.Bundler {
		return bundler.NewEsbuild(fs, workDir)
	}
)

// project is a loaded config file with its generated tasks.
type project struct {
	path    string
	config  *config.Config
	orch    *pack.Orchestrator
	runner  *task.Runner
	targets []config.Target
}

// loadProject reads and validates the config file and generates the tasks
// of every bundle. Relative paths in the file resolve against its directory.
func loadProject() (*project, error) {
	path, err := config.ExpandPath(GetConfigPath())
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	cfg, err := config.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	workDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	b := newBundler(appFs, workDir)
	if err := config.Validate(cfg, b.Name()); err != nil {
		return nil, err
	}

	orch := pack.New(b,
		pack.WithLogger(output.Scoped(b.Name())),
		pack.WithFs(appFs),
		pack.WithWorkDir(workDir),
	)
	runner := task.NewRunner(output.Scoped("packtask"))

	targets := config.Targets(cfg, path, b.Name())
	for _, t := range targets {
		if err := runner.Add(task.Generate(orch, t.Source, t.Options()...)); err != nil {
			return nil, err
		}
	}

	output.Debug("loaded project", "config", path, "bundles", len(targets), "tasks", len(runner.Tasks()))

	return &project{path: path, config: cfg, orch: orch, runner: runner, targets: targets}, nil
}

// failedTargets returns the bundles whose last compilation failed.
func (p *project) failedTargets() []string {
	var failed []string
	for _, g := range p.runner.Groups() {
		if g.Instance.Failed() {
			failed = append(failed, g.Name)
		}
	}
	return failed
}

// dispose releases every compiler.
func (p *project) dispose() {
	for _, g := range p.runner.Groups() {
		g.Instance.Dispose()
	}
}
