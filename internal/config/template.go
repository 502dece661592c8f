package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const templateHeader = `# packtask configuration.
# Every bundle generates config, build, modules, clear, watch and unwatch tasks.
# List them with 'packtask tasks'.
`

// Template renders cfg as a commented YAML config file.
func Template(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(templateHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes the default configuration to path on fs.
func WriteTemplate(fs afero.Fs, path string) error {
	data, err := Template(DefaultConfig())
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
