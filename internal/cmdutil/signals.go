//go:build !windows

package cmdutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// TerminationSignals are the signals the mount command treats as a request
// for an orderly unmount rather than an abrupt process kill.
var TerminationSignals = []os.Signal{
	unix.SIGINT,
	unix.SIGTERM,
}
