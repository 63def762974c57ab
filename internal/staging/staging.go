// Package staging implements the staging manager: the process-local table
// mapping a logical name being written to its staging file, and the
// copy-on-first-write / commit-on-flush protocol that decides whether a
// session produces a new version.
//
// The manager is accessed only from the single upcall-dispatch goroutine,
// so its table requires no synchronization of its own; that invariant is
// enforced by construction (internal/fsops is the only caller, and go-fuse
// is configured single-threaded), not by a mutex here.
package staging

import (
	"os"

	"github.com/pkg/errors"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
	"github.com/arcfile/versionfs/pkg/must"
)

// Entry is an in-memory staging descriptor: the path of the write buffer
// for an open session on some logical name.
type Entry struct {
	// Path is the staging file's backing path.
	Path string
}

// Manager owns the table of open staging sessions.
type Manager struct {
	store   *store.Store
	logger  *logging.Logger
	entries map[string]*Entry
}

// NewManager constructs a staging manager bound to store. fsops.New
// constructs one per driver (the mount entry point builds a single driver)
// — there is no package-level singleton.
func NewManager(s *store.Store, logger *logging.Logger) *Manager {
	return &Manager{
		store:   s,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
}

// Acquire returns the staging entry for name, creating one on first use. If
// name.1 exists it is copied into the staging file (preserving mtime) so
// that a partial write never destroys historical content; otherwise the
// staging file starts out empty.
func (m *Manager) Acquire(name string) (*Entry, error) {
	if entry, ok := m.entries[name]; ok {
		return entry, nil
	}

	path := m.store.StagingPath(name)
	current := m.store.VersionPath(name, 1)
	if _, err := os.Stat(current); err == nil {
		if err := store.CopyPreservingModTime(current, path); err != nil {
			return nil, errors.Wrap(err, "unable to stage current version")
		}
	} else {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, store.FilePermissions)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create staging file")
		}
		if err := file.Close(); err != nil {
			return nil, errors.Wrap(err, "unable to create staging file")
		}
	}

	entry := &Entry{Path: path}
	m.entries[name] = entry
	return entry, nil
}

// Discard drops the staging entry for name, if any, and removes the staging
// file for name if one exists — including a stale one left behind by a
// process that was killed mid-session. Used on unlink.
func (m *Manager) Discard(name string) {
	must.Remove(m.store.StagingPath(name), m.logger)
	delete(m.entries, name)
}

// Commit applies the commit policy for name: if there is
// no staging entry, it is a no-op (the session made no writes). Otherwise,
// if the staging content differs from the current version (or there is no
// current version yet), the chain is rotated and the staging file is
// installed as the new name.1; if the content is unchanged, the staging
// file is simply discarded and no version slot is spent. An empty name.1
// with no older versions (what create leaves behind) holds no prior
// content, so it is replaced in place rather than rotated into name.2.
func (m *Manager) Commit(name string) error {
	entry, ok := m.entries[name]
	if !ok {
		return nil
	}

	current := m.store.VersionPath(name, 1)
	equal, err := m.store.BytesEqual(current, entry.Path)
	if err != nil {
		return err
	}

	if !equal {
		replace := false
		if info, err := os.Stat(current); err == nil && info.Size() == 0 {
			entries, err := m.store.Enumerate(name)
			if err != nil {
				return err
			}
			replace = len(entries) == 1
		}
		if !replace {
			if err := m.store.Rotate(name); err != nil {
				return err
			}
		}
		if err := os.Rename(entry.Path, current); err != nil {
			return errors.Wrap(err, "unable to commit new version")
		}
	} else {
		must.Remove(entry.Path, m.logger)
	}

	delete(m.entries, name)
	return nil
}

// Rekey moves the staging entry (if any) for oldName so that it is keyed
// under newName, following a rename of the logical file itself.
func (m *Manager) Rekey(oldName, newName string) error {
	entry, ok := m.entries[oldName]
	if !ok {
		return nil
	}

	destination := m.store.StagingPath(newName)
	if err := os.Rename(entry.Path, destination); err != nil {
		return errors.Wrap(err, "unable to rename staging file")
	}
	entry.Path = destination
	m.entries[newName] = entry
	delete(m.entries, oldName)
	return nil
}
