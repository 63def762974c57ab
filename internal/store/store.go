// Package store implements the layout module: pure operations over the
// on-disk version store. It owns the mapping between a logical name and its
// backing .versiondir entries, and knows nothing about open sessions or the
// kernel upcall surface.
package store

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/arcfile/versionfs/pkg/logging"
)

const (
	// DirName is the default name of the version store, relative to the
	// mount process's working directory.
	DirName = ".versiondir"
	// MaxVersions is K: the number of versions retained per logical file.
	MaxVersions = 6
	// FilePermissions is the fixed mode reported and applied for every
	// version file and staging/temporary artifact.
	FilePermissions os.FileMode = 0644
	// DirPermissions is the fixed mode for the version store directory and
	// the mount root.
	DirPermissions os.FileMode = 0755

	stagingPrefix = ".staging."
	tmpPrefix     = ".tmp."
)

// Store is a handle on a single version store directory.
type Store struct {
	root   string
	logger *logging.Logger
}

// New creates a handle for the version store at root. It does not touch the
// filesystem; call Ensure before performing any other operation.
func New(root string, logger *logging.Logger) *Store {
	return &Store{root: root, logger: logger}
}

// Root returns the version store's directory path.
func (s *Store) Root() string {
	return s.root
}

// Ensure creates the version store directory if it does not already exist.
// It is idempotent and safe to call before every operation.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.root, DirPermissions); err != nil {
		return errors.Wrap(err, "unable to create version store")
	}
	return nil
}

// VersionPath returns the backing path for version n of the logical file
// name: <store>/name.n.
func (s *Store) VersionPath(name string, n int) string {
	return filepath.Join(s.root, name+"."+strconv.Itoa(n))
}

// StagingPath returns the path of the staging file for name.
func (s *Store) StagingPath(name string) string {
	return filepath.Join(s.root, stagingPrefix+name)
}

// TempPath returns the path of the transient file used by Promote for name.
func (s *Store) TempPath(name string) string {
	return filepath.Join(s.root, tmpPrefix+name)
}

// Present reports whether name.1 exists, i.e. whether the logical file is
// visible in the mount.
func (s *Store) Present(name string) bool {
	return fileExists(s.VersionPath(name, 1))
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
