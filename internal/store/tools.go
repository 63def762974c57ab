package store

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/arcfile/versionfs/pkg/must"
)

// ErrVersionNotFound is returned by Promote and CatVersion when the
// requested version does not exist.
var ErrVersionNotFound = errors.New("version not found")

// CatVersion writes the raw bytes of name.n to w.
func (s *Store) CatVersion(w io.Writer, name string, n int) error {
	path := s.VersionPath(name, n)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrVersionNotFound
		}
		return errors.Wrap(err, "unable to open version")
	}
	defer must.Close(file, s.logger)

	if _, err := io.Copy(w, file); err != nil {
		return errors.Wrap(err, "unable to write version contents")
	}
	return nil
}

// Promote installs name.k as the new current version, shifting every
// existing version up by one exactly as a normal commit would (the same
// Rotate used by the staging manager) and evicting the oldest if the chain
// was already full. It snapshots name.k into a temporary file before
// rotating, so a rotation failure never leaves name.1 missing — the
// snapshot only moves into place after Rotate has already succeeded, per
// original_source/mkcurrent.py.
func (s *Store) Promote(name string, k int) error {
	source := s.VersionPath(name, k)
	if !fileExists(source) {
		return ErrVersionNotFound
	}

	temporary := s.TempPath(name)
	if err := CopyPreservingModTime(source, temporary); err != nil {
		return errors.Wrap(err, "unable to snapshot version for promotion")
	}

	if err := s.Rotate(name); err != nil {
		must.Remove(temporary, s.logger)
		return err
	}

	if err := os.Rename(temporary, s.VersionPath(name, 1)); err != nil {
		return errors.Wrap(err, "unable to install promoted version")
	}
	return nil
}

// PurgeOld removes every version of name except the current one (name.2
// through name.MaxVersions). Individual removal failures are logged and
// swallowed, matching original_source/rmversions.py.
func (s *Store) PurgeOld(name string) {
	for n := 2; n <= MaxVersions; n++ {
		path := s.VersionPath(name, n)
		if fileExists(path) {
			must.Remove(path, s.logger)
		}
	}
}

// CopyPreservingModTime copies src to dst and applies src's modification
// time to dst, mirroring shutil.copy2's semantics in the Python original.
// It is exported for use by the staging manager's copy-on-first-write step.
func CopyPreservingModTime(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePermissions)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return err
	}
	if err := destination.Close(); err != nil {
		return err
	}

	modTime := info.ModTime()
	return os.Chtimes(dst, modTime, modTime)
}
