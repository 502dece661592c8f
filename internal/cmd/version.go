package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/packtask/internal/output"
	"github.com/opmodel/packtask/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show packtask version information.

Displays:
  - packtask version, commit, and build date
  - esbuild version (embedded in packtask)`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	output.Println(version.GetInfo().String())
	return nil
}
