package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

func TestNewConfigVetCmd(t *testing.T) {
	cmd := NewConfigVetCmd()

	assert.Equal(t, "vet", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "valid", content: twoBundleConfig},
		{name: "no bundles", content: "tasks:\n  prefix: \"x:\"\n", wantErr: oerrors.ErrValidation},
		{name: "unknown format", content: "bundles:\n  app:\n    entryPoints: [a.ts]\n    output: {path: dist, filename: a.js}\n    format: amd\n", wantErr: oerrors.ErrValidation},
		{name: "colliding names", content: `
bundles:
  a:
    suffix: ""
    entryPoints: [a.ts]
    output: {path: dist, filename: a.js}
  b:
    suffix: ""
    entryPoints: [b.ts]
    output: {path: dist, filename: b.js}
`, wantErr: oerrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := newProjectDir(t, tt.content, nil)

			_, err := execute(t, "--config", path, "config", "vet")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigVet_Missing(t *testing.T) {
	_, err := execute(t, "--config", t.TempDir()+"/packtask.yaml", "config", "vet")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}
