// Package fsops implements the file-system operations driver: it dispatches
// the upcall surface consumed by github.com/hanwen/go-fuse/v2's path-based
// kernel bridge to the staging manager and the layout module.
//
// pathfs (rather than the newer inode-based fs package) is used because
// the mount presents a single flat directory: there is no hierarchy or
// inode identity to track across renames, which is exactly the case pathfs
// targets.
package fsops

import (
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"

	"github.com/arcfile/versionfs/internal/staging"
	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

// Driver implements pathfs.FileSystem over a version store.
type Driver struct {
	pathfs.FileSystem

	store   *store.Store
	staging *staging.Manager
	logger  *logging.Logger
}

// New constructs a driver over the version store at root, ensuring the
// store directory exists.
func New(root string, logger *logging.Logger) (*Driver, error) {
	s := store.New(root, logger)
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return &Driver{
		FileSystem: pathfs.NewDefaultFileSystem(),
		store:      s,
		staging:    staging.NewManager(s, logger),
		logger:     logger,
	}, nil
}

// resolve normalizes a pathfs-relative name (the empty string for the
// mount root, otherwise a single flat path component) and reports whether
// it is a legal, visible logical name.
func (d *Driver) resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	name = store.NormalizeName(name)
	return name, store.IsVisible(name)
}

// GetAttr implements get-attr.
func (d *Driver) GetAttr(name string, context *fuse.Context) (*fuse.Attr, fuse.Status) {
	if err := d.store.Ensure(); err != nil {
		return nil, fuse.ToStatus(err)
	}

	if name == "" {
		now := time.Now()
		return &fuse.Attr{
			Mode:  fuse.S_IFDIR | uint32(store.DirPermissions),
			Nlink: 2,
			Atime: uint64(now.Unix()),
			Mtime: uint64(now.Unix()),
			Ctime: uint64(now.Unix()),
		}, fuse.OK
	}

	logical, ok := d.resolve(name)
	if !ok {
		return nil, fuse.ENOENT
	}

	info, status := statCurrent(d.store, logical)
	if status != fuse.OK {
		return nil, status
	}

	return &fuse.Attr{
		Mode:  fuse.S_IFREG | uint32(store.FilePermissions),
		Nlink: 1,
		Size:  uint64(info.Size()),
		Atime: uint64(info.ModTime().Unix()),
		Mtime: uint64(info.ModTime().Unix()),
		Ctime: uint64(info.ModTime().Unix()),
	}, fuse.OK
}

// OpenDir implements read-dir over the mount's single flat directory.
// go-fuse synthesizes "." and ".." itself; this returns only the visible
// logical names.
func (d *Driver) OpenDir(name string, context *fuse.Context) ([]fuse.DirEntry, fuse.Status) {
	if name != "" {
		return nil, fuse.ENOENT
	}

	names, err := d.store.VisibleNames()
	if err != nil {
		return nil, fuse.ToStatus(err)
	}

	entries := make([]fuse.DirEntry, 0, len(names))
	for _, logical := range names {
		entries = append(entries, fuse.DirEntry{
			Mode: fuse.S_IFREG | uint32(store.FilePermissions),
			Name: logical,
		})
	}
	return entries, fuse.OK
}

// Open implements open: no staging occurs at open time, and
// reads always serve the current version.
func (d *Driver) Open(name string, flags uint32, context *fuse.Context) (nodefs.File, fuse.Status) {
	logical, ok := d.resolve(name)
	if !ok {
		return nil, fuse.ENOENT
	}
	if !d.store.Present(logical) {
		return nil, fuse.ENOENT
	}

	handle, err := openCurrent(d.store, logical, int(flags))
	if err != nil {
		return nil, fuse.ToStatus(err)
	}
	return newVersionFile(handle, d, logical), fuse.OK
}

// Create implements create: the logical file becomes
// visible immediately at size 0 if it did not already exist, but an empty
// create by itself never spends a version slot.
func (d *Driver) Create(name string, flags uint32, mode uint32, context *fuse.Context) (nodefs.File, fuse.Status) {
	logical, ok := d.resolve(name)
	if !ok {
		return nil, fuse.EPERM
	}

	handle, err := createCurrent(d.store, logical)
	if err != nil {
		return nil, fuse.ToStatus(err)
	}
	return newVersionFile(handle, d, logical), fuse.OK
}

// Truncate implements the path-based truncate upcall:
// acquire staging and truncate the staging file, diverging from the
// current-version handle exactly as write does.
func (d *Driver) Truncate(name string, size uint64, context *fuse.Context) fuse.Status {
	logical, ok := d.resolve(name)
	if !ok {
		return fuse.ENOENT
	}
	return d.truncateStaged(logical, size)
}

// Unlink implements unlink: removes every version and any
// staging artifact for name.
func (d *Driver) Unlink(name string, context *fuse.Context) fuse.Status {
	logical, ok := d.resolve(name)
	if !ok {
		return fuse.ENOENT
	}

	entries, err := d.store.Enumerate(logical)
	if err != nil {
		return fuse.ToStatus(err)
	}
	if len(entries) == 0 {
		return fuse.ENOENT
	}

	for _, entry := range entries {
		removeVersion(d.store, entry.Path, d.logger)
	}
	d.staging.Discard(logical)
	return fuse.OK
}

// Rename implements rename: moves every version of old to
// new, preserving indices, and re-keys any open staging entry.
func (d *Driver) Rename(oldName, newName string, context *fuse.Context) fuse.Status {
	oldLogical, oldOK := d.resolve(oldName)
	newLogical, newOK := d.resolve(newName)
	if !oldOK || !newOK {
		return fuse.EPERM
	}

	entries, err := d.store.Enumerate(oldLogical)
	if err != nil {
		return fuse.ToStatus(err)
	}
	for _, entry := range entries {
		if err := renameVersion(entry.Path, d.store.VersionPath(newLogical, entry.N)); err != nil {
			return fuse.ToStatus(err)
		}
	}

	if err := d.staging.Rekey(oldLogical, newLogical); err != nil {
		return fuse.ToStatus(err)
	}
	return fuse.OK
}

// Utimens implements utimens: only the current version's
// timestamps are touched; historical versions are left alone.
func (d *Driver) Utimens(name string, atime *time.Time, mtime *time.Time, context *fuse.Context) fuse.Status {
	logical, ok := d.resolve(name)
	if !ok {
		return fuse.ENOENT
	}
	if !d.store.Present(logical) {
		return fuse.OK
	}
	return applyTimes(d.store.VersionPath(logical, 1), atime, mtime)
}

// String implements pathfs.FileSystem.
func (d *Driver) String() string {
	return "versionfs(" + d.store.Root() + ")"
}
