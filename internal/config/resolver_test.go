package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv("PACKTASK_CONFIG", "/env/path/packtask.yaml")

	result := ResolveConfigPath(ResolveConfigPathOptions{
		FlagValue: "/flag/path/packtask.yaml",
	})

	assert.Equal(t, "/flag/path/packtask.yaml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/path/packtask.yaml", result.Shadowed[SourceEnv])
	assert.Equal(t, DefaultConfigFile, result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv("PACKTASK_CONFIG", "/env/path/packtask.yaml")

	result := ResolveConfigPath(ResolveConfigPathOptions{
		FlagValue: "", // No flag
	})

	assert.Equal(t, "/env/path/packtask.yaml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotEmpty(t, result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv("PACKTASK_CONFIG", "")

	result := ResolveConfigPath(ResolveConfigPathOptions{})

	assert.Equal(t, "packtask.yaml", result.ConfigPath)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveTimestamps(t *testing.T) {
	off := false
	withConfig := &Config{Log: LogConfig{Timestamps: &off}}

	tests := []struct {
		name      string
		flagSet   bool
		flagValue bool
		cfg       *Config
		want      bool
		source    ConfigSource
	}{
		{name: "default", want: true, source: SourceDefault},
		{name: "config", cfg: withConfig, want: false, source: SourceConfig},
		{name: "flag over config", flagSet: true, flagValue: true, cfg: withConfig, want: true, source: SourceFlag},
		{name: "flag off", flagSet: true, flagValue: false, want: false, source: SourceFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimestamps(tt.flagSet, tt.flagValue, tt.cfg)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.source, got.Source)
		})
	}

	shadowed := ResolveTimestamps(true, true, withConfig)
	assert.Equal(t, "false", shadowed.Shadowed[SourceConfig])
}

func TestLogResolvedValues_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		LogResolvedValues([]ResolvedValue{ResolveTimestamps(false, false, nil)})
	})
}
