// Package fsutil holds filesystem helpers used by tasks.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/opmodel/packtask/internal/output"
)

// Unlink deletes files best-effort, logging one line per file, and calls done
// once when every file has been handled. Missing files are skipped.
// Relative files are resolved against dir when it is set and logged as given.
func Unlink(fsys afero.Fs, dir string, files []string, log *output.Logger, done func()) {
	for _, file := range files {
		path := file
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		err := fsys.Remove(path)
		switch {
		case err == nil:
			log.Info("remove %s", output.Bold(file))
		case errors.Is(err, fs.ErrNotExist):
			log.Info("skip %s %s", output.Bold(file), output.Grey("(not found)"))
		default:
			log.Fail("remove %s: %v", output.Bold(file), err)
		}
	}
	if done != nil {
		done()
	}
}
