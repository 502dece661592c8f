package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opmodel/packtask/internal/config"
	oerrors "github.com/opmodel/packtask/internal/errors"
	"github.com/opmodel/packtask/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write a starter packtask.yaml to the resolved config path.

The file declares one bundle, "app", compiling src/index.ts to
dist/bundle.js with a linked source map.

Examples:
  # Initialize configuration in the current directory
  packtask config init

  # Overwrite existing configuration
  packtask config init --force`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.ExpandPath(GetConfigPath())
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return err
	}
	if exists && !configInitForce {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := config.WriteTemplate(appFs, path); err != nil {
		return err
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + path))
	output.Println("")
	output.Println("List the generated tasks with: packtask tasks")
	output.Println("Validate with: packtask config vet")

	return nil
}
