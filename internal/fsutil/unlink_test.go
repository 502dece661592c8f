package fsutil

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/packtask/internal/testutil"
)

// readOnlyRemove fails every removal with a permission error.
type readOnlyRemove struct {
	afero.Fs
}

func (readOnlyRemove) Remove(string) error { return os.ErrPermission }

func TestUnlink(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/bundle.js", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/bundle.js.map", []byte("{}"), 0o644))
	log := testutil.NewLogBuffer("esbuild")

	calls := 0
	Unlink(fs, "", []string{"dist/bundle.js", "dist/bundle.js.map", "dist/missing.js"}, log.Logger, func() { calls++ })

	assert.Equal(t, 1, calls)
	exists, err := afero.Exists(fs, "dist/bundle.js")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, 2, log.Count("remove dist/"))
	assert.Equal(t, 1, log.Count("skip dist/missing.js"))
	assert.Zero(t, log.Count("ERRO"))
}

func TestUnlink_Failure(t *testing.T) {
	log := testutil.NewLogBuffer("esbuild")

	calls := 0
	Unlink(readOnlyRemove{afero.NewMemMapFs()}, "", []string{"dist/bundle.js"}, log.Logger, func() { calls++ })

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, log.Count("ERRO"))
	assert.Contains(t, log.String(), "permission denied")
}

func TestUnlink_NilDone(t *testing.T) {
	log := testutil.NewLogBuffer("esbuild")
	assert.NotPanics(t, func() {
		Unlink(afero.NewMemMapFs(), "", nil, log.Logger, nil)
	})
}

func TestUnlink_Dir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/public/bundle.js", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/site/dist/app.js", []byte("x"), 0o644))
	log := testutil.NewLogBuffer("esbuild")

	Unlink(fs, "/work/site", []string{"../public/bundle.js", "dist/app.js"}, log.Logger, nil)

	for _, path := range []string{"/work/public/bundle.js", "/work/site/dist/app.js"} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.False(t, exists, path)
	}
	assert.Equal(t, 1, log.Count("remove ../public/bundle.js"))
	assert.Equal(t, 1, log.Count("remove dist/app.js"))
	assert.Zero(t, log.Count("skip"))
}
