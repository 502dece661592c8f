package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/packtask/internal/config"
	"github.com/opmodel/packtask/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the packtask configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Every bundle has entry points, an output path and a filename
  4. Format, platform, target, define and loader values are recognized
  5. No two bundles generate the same task names

The config path is resolved using precedence:
  --config flag > PACKTASK_CONFIG env > ./packtask.yaml

Examples:
  # Validate default configuration
  packtask config vet

  # Validate custom config path
  packtask config vet --config web/packtask.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: configFlag,
	})
	configPath := pathResult.ConfigPath

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return err
	}

	b := newBundler(appFs, ".")
	if err := config.Validate(cfg, b.Name()); err != nil {
		return err
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("Configuration is valid: %s (%d bundles)", configPath, len(cfg.Bundles))))
	return nil
}
