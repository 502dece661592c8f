package config

import (
	"os"

	"github.com/opmodel/packtask/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the outcome of resolving one setting.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) PACKTASK_CONFIG env, (3) ./packtask.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) ResolveConfigPathResult {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(envConfig)

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = DefaultConfigFile
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = DefaultConfigFile
	default:
		result.ConfigPath = DefaultConfigFile
		result.Source = SourceDefault
	}

	return result
}

// ResolveTimestamps resolves whether log lines carry timestamps using
// precedence: (1) --timestamps flag, (2) log.timestamps from the config
// file or PACKTASK_LOG_TIMESTAMPS, (3) default on.
func ResolveTimestamps(flagSet bool, flagValue bool, cfg *Config) ResolvedValue {
	result := ResolvedValue{Key: "log.timestamps", Shadowed: make(map[ConfigSource]string)}

	var fromConfig *bool
	if cfg != nil {
		fromConfig = cfg.Log.Timestamps
	}

	switch {
	case flagSet:
		result.Value = flagValue
		result.Source = SourceFlag
		if fromConfig != nil {
			result.Shadowed[SourceConfig] = boolString(*fromConfig)
		}
	case fromConfig != nil:
		result.Value = *fromConfig
		result.Source = SourceConfig
	default:
		result.Value = true
		result.Source = SourceDefault
	}
	return result
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
