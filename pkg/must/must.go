package must

import (
	"io"
	"os"

	"github.com/arcfile/versionfs/pkg/logging"
)

// Close closes c, logging a warning rather than propagating any error. It is
// used for close-path errors that are safe to swallow: the
// caller has already done the durable work it cares about (a commit, a
// rename) and a failure to release a handle shouldn't make the file system
// unresponsive.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// Remove removes the file at path, logging a warning rather than propagating
// any error. Used for best-effort cleanup of staging and temporary files.
func Remove(path string, logger *logging.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("unable to remove '%s': %s", path, err.Error())
	}
}

// Sync issues a best-effort fsync on f, logging a warning rather than
// propagating any error.
func Sync(f *os.File, logger *logging.Logger) {
	if err := f.Sync(); err != nil {
		logger.Warnf("unable to sync '%s': %s", f.Name(), err.Error())
	}
}
