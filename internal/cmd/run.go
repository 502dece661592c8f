package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/packtask/internal/errors"
	"github.com/opmodel/packtask/internal/output"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <task>...",
		Short: "Run tasks in series",
		Long: `Run one or more generated tasks, one after another.

A watch task keeps running until its unwatch task runs. Press Ctrl-C to
stop it; the unwatch task is run for you.

The command fails when a task fails or when the last compilation of any
bundle reported errors.

Examples:
  # Build once
  packtask run esbuild:build

  # Clean, build, then watch
  packtask run esbuild:clear esbuild:build esbuild:watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.dispose()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runTasksInProject(ctx, p, args)
}

func runTasksInProject(ctx context.Context, p *project, names []string) error {
	if output.IsTTY() {
		tasks := p.runner.Tasks()
		for _, name := range names {
			if t, ok := tasks[name]; ok && t.Stop != "" {
				output.Info("press Ctrl-C to stop " + name)
				break
			}
		}
	}

	if err := p.runner.Run(ctx, names...); err != nil {
		return err
	}

	if failed := p.failedTargets(); len(failed) > 0 {
		output.Error("compilation failed", "bundles", strings.Join(failed, ","))
		return &oerrors.ExitError{
			Code:    oerrors.ExitGeneralError,
			Err:     fmt.Errorf("compilation failed for %s", strings.Join(failed, ", ")),
			Printed: true,
		}
	}
	return nil
}
