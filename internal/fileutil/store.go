// Package fileutil provides the file operations used by the encryption processor.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when a file to read does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrIO is returned for any other filesystem failure.
	ErrIO = errors.New("i/o error")
)

const (
	// OwnerReadWrite is the permission for key files and decrypted output.
	OwnerReadWrite os.FileMode = 0o600

	dirPerm os.FileMode = 0o750
)

// Store reads and writes whole files on an afero filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store backed by fs.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOsStore returns a Store on the host filesystem.
func NewOsStore() *Store {
	return NewStore(afero.NewOsFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Read returns the contents of path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrNotFound, path, err)
		}

		return nil, fmt.Errorf("%w: reading %q: %w", ErrIO, path, err)
	}

	return data, nil
}

// Write stores data at path, creating parent directories as needed.
// Data goes to a temp file first and is renamed into place.
func (s *Store) Write(path string, data []byte, perm os.FileMode) (err error) {
	path = filepath.Clean(path)

	if err := s.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: creating parent directory for %q: %w", ErrIO, path, err)
	}

	tc, err := newTempContext(s.fs, path)
	if err != nil {
		return fmt.Errorf("%w: preparing atomic write: %w", ErrIO, err)
	}

	defer tc.cleanupOnError(&err)

	if _, err = tc.tmpFile.Write(data); err != nil {
		return fmt.Errorf("%w: writing %q: %w", ErrIO, path, err)
	}

	if err = tc.commit(path, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

// Size returns the size of path in bytes.
func (s *Store) Size(path string) (int64, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %q: %w", ErrIO, path, err)
	}

	return info.Size(), nil
}
