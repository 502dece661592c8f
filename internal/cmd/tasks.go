package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/packtask/internal/errors"
	"github.com/opmodel/packtask/internal/output"
)

var tasksOutputFlag string

// NewTasksCmd creates the tasks command.
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List generated tasks",
		Long: `List the tasks generated for every bundle in the config file.

Each bundle gets six tasks named <prefix><base><suffix>:
  config   print the resolved configuration
  build    compile once
  modules  list modules of the last compilation
  clear    delete the bundle and its source map
  watch    recompile on source changes (ends with unwatch or Ctrl-C)
  unwatch  stop watching`,
		Args: cobra.NoArgs,
		RunE: runTasks,
	}

	cmd.Flags().StringVarP(&tasksOutputFlag, "output", "o", "table",
		"Output format (table, yaml, json)")

	return cmd
}

func runTasks(cmd *cobra.Command, args []string) error {
	format := output.ParseOutputFormat(tasksOutputFlag)
	if !format.IsValid() {
		return oerrors.NewValidationError(fmt.Sprintf("unknown output format %q", tasksOutputFlag),
			"", "output", "Use one of: "+strings.Join(output.ValidFormats(), ", "))
	}

	p, err := loadProject()
	if err != nil {
		return err
	}

	tasks := p.runner.Tasks()
	rows := make([]output.TaskRow, 0, len(tasks))
	for _, name := range tasks.Names() {
		t := tasks[name]
		rows = append(rows, output.TaskRow{
			Name:        t.Name,
			Target:      t.Target,
			Kind:        t.Kind(),
			Description: t.Description,
		})
	}

	return output.WriteTasks(cmd.OutOrStdout(), rows, format)
}
