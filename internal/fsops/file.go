package fsops

import (
	"os"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"

	"github.com/arcfile/versionfs/pkg/must"
)

// versionFile is the per-handle nodefs.File for an open logical file. Reads
// (and attribute queries on the handle) are delegated to an embedded
// loopback file over the current version (name.1); writes and truncation
// are diverted to the staging manager so that name.1 stays byte-identical
// to the last committed content until a flush decides otherwise.
type versionFile struct {
	nodefs.File
	driver *Driver
	name   string
}

func newVersionFile(handle *os.File, driver *Driver, name string) nodefs.File {
	return &versionFile{
		File:   nodefs.NewLoopbackFile(handle),
		driver: driver,
		name:   name,
	}
}

// Write implements write: data is written to the staging file, never to the
// handle on name.1, followed by a best-effort sync of the staging handle so
// that a crash between this write and the eventual commit loses as little
// staged data as possible.
func (f *versionFile) Write(data []byte, off int64) (uint32, fuse.Status) {
	entry, err := f.driver.staging.Acquire(f.name)
	if err != nil {
		return 0, fuse.ToStatus(err)
	}

	staging, err := os.OpenFile(entry.Path, os.O_WRONLY, 0)
	if err != nil {
		return 0, fuse.ToStatus(err)
	}
	defer must.Close(staging, f.driver.logger)

	n, err := staging.WriteAt(data, off)
	if err != nil {
		return uint32(n), fuse.ToStatus(err)
	}
	must.Sync(staging, f.driver.logger)
	return uint32(n), fuse.OK
}

// Truncate implements ftruncate on an open handle, routed through the same
// staging logic as the path-based Truncate upcall.
func (f *versionFile) Truncate(size uint64) fuse.Status {
	return f.driver.truncateStaged(f.name, size)
}

// Flush implements flush: applies the staging commit-policy,
// then issues a best-effort sync of the current-version handle. Flush is
// idempotent — after the first successful commit in a session, the staging
// entry is gone and subsequent flushes are no-ops here.
func (f *versionFile) Flush() fuse.Status {
	if err := f.driver.staging.Commit(f.name); err != nil {
		return fuse.ToStatus(err)
	}

	// Best-effort: a failure to flush/sync the read handle must not be
	// reported to the client once the commit itself has succeeded.
	if status := f.File.Flush(); !status.Ok() {
		f.driver.logger.Warnf("best-effort flush of '%s' failed: %v", f.name, status)
	}
	return fuse.OK
}

// truncateStaged is the shared implementation backing both the path-based
// Truncate upcall and File.Truncate on an open handle.
func (d *Driver) truncateStaged(name string, size uint64) fuse.Status {
	entry, err := d.staging.Acquire(name)
	if err != nil {
		return fuse.ToStatus(err)
	}
	if err := os.Truncate(entry.Path, int64(size)); err != nil {
		return fuse.ToStatus(err)
	}
	return fuse.OK
}
