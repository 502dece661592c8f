// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/packtask/internal/config"
	"github.com/opmodel/packtask/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
)

// NewRootCmd creates the root command for packtask.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packtask",
		Short: "Bundler build, watch and clean as named tasks",
		Long: `packtask turns every bundle of packtask.yaml into a set of tasks:
config, build, modules, clear, watch and unwatch. Tasks of one bundle share a
single esbuild compiler.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: PACKTASK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	// Add subcommands
	rootCmd.AddCommand(NewTasksCmd())
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging. The config file is only read by the
// commands that need it, but its log settings apply when it can be loaded.
func initializeGlobals(cmd *cobra.Command) error {
	pathResult := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})

	cfg, err := config.NewLoader().Load(pathResult.ConfigPath)
	if err != nil {
		output.Debug("config load error", "error", err)
		// Don't fail here - allow commands that don't need config to work
		cfg = nil
	}

	timestamps := config.ResolveTimestamps(cmd.Flags().Changed("timestamps"), timestampsFlag, cfg)

	// Build LogConfig with precedence: flag > config > default(true)
	output.SetupLogging(output.LogConfig{
		Verbose:    verboseFlag,
		Timestamps: output.BoolPtr(timestamps.Value.(bool)),
	})

	if verboseFlag {
		config.LogResolvedValues([]config.ResolvedValue{
			{Key: "config", Value: pathResult.ConfigPath, Source: pathResult.Source, Shadowed: pathResult.Shadowed},
			timestamps,
		})
	}

	return nil
}

// GetConfigPath returns the resolved config path value.
func GetConfigPath() string {
	return config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag}).ConfigPath
}
