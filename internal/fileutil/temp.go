package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// tempContext holds state for an atomic file write operation.
type tempContext struct {
	fs      afero.Fs
	tmpFile afero.File
	tmpName string
}

// newTempContext creates a temp file next to outPath for atomic writing.
// Caller must defer cleanupOnError.
func newTempContext(fs afero.Fs, outPath string) (*tempContext, error) {
	tmpFile, err := afero.TempFile(fs, filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &tempContext{
		fs:      fs,
		tmpFile: tmpFile,
		tmpName: tmpFile.Name(),
	}, nil
}

// commit closes the temp file, applies perm and renames it to outPath.
func (tc *tempContext) commit(outPath string, perm os.FileMode) error {
	if err := tc.tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := tc.fs.Chmod(tc.tmpName, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.fs.Rename(tc.tmpName, outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// cleanupOnError closes the temp file and removes it if the write failed.
func (tc *tempContext) cleanupOnError(errp *error) {
	tc.tmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		tc.fs.Remove(tc.tmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}
