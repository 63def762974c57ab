package fsops

import (
	"os"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

// statCurrent stats the current version (name.1) of a logical file,
// translating a missing file into fuse.ENOENT.
func statCurrent(s *store.Store, logical string) (os.FileInfo, fuse.Status) {
	info, err := os.Stat(s.VersionPath(logical, 1))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fuse.ENOENT
		}
		return nil, fuse.ToStatus(err)
	}
	return info, fuse.OK
}

// openCurrent opens name.1 with the given host flags, used by the open
// upcall. No staging occurs here.
func openCurrent(s *store.Store, logical string, flags int) (*os.File, error) {
	return os.OpenFile(s.VersionPath(logical, 1), flags, store.FilePermissions)
}

// createCurrent creates name.1 if it does not already exist and opens it
// for read-write, used by the create upcall. Creating an already-present
// name leaves its content intact (see DESIGN.md's Open Question log).
func createCurrent(s *store.Store, logical string) (*os.File, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return os.OpenFile(s.VersionPath(logical, 1), os.O_RDWR|os.O_CREATE, store.FilePermissions)
}

// removeVersion removes a single backing version file, logging and
// swallowing any failure: unlink is best-effort per version, matching
// original_source/versionfs.py's unlink.
func removeVersion(s *store.Store, path string, logger *logging.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("unable to remove '%s' during unlink: %s", path, err.Error())
	}
}

// renameVersion moves a single backing version file during a rename
// upcall; unlike removeVersion this is structural and its failure
// propagates to the client.
func renameVersion(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// applyTimes sets the access/modification times on path, defaulting either
// that is nil to the current time (matching the host utimensat semantics
// FUSE's utimens upcall is standing in for).
func applyTimes(path string, atime, mtime *time.Time) fuse.Status {
	now := time.Now()
	a, m := now, now
	if atime != nil {
		a = *atime
	}
	if mtime != nil {
		m = *mtime
	}
	if err := os.Chtimes(path, a, m); err != nil {
		return fuse.ToStatus(err)
	}
	return fuse.OK
}
