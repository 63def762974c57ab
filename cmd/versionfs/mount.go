package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"

	"github.com/arcfile/versionfs/internal/cmdutil"
	"github.com/arcfile/versionfs/internal/fsops"
	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

var mountConfiguration struct {
	debug bool
}

var mountCommand = &cobra.Command{
	Use:   "mount <mountpoint>",
	Short: "Mount the versioning file system in the foreground",
	Args:  cobra.ExactArgs(1),
	RunE:  mountMain,
}

func init() {
	flags := mountCommand.Flags()
	flags.BoolVar(&mountConfiguration.debug, "debug", false, "Enable verbose upcall logging")
}

// mountMain implements the mount entry point: it
// initializes the version store relative to the process's working
// directory, constructs the driver, and hands it to the go-fuse bridge
// configured for foreground, single-threaded operation.
func mountMain(command *cobra.Command, arguments []string) error {
	mountpoint := arguments[0]

	logging.DebugEnabled = mountConfiguration.debug
	logger := logging.RootLogger.Sublogger("mount")

	driver, err := fsops.New(store.DirName, logger)
	if err != nil {
		return err
	}

	nodeFileSystem := pathfs.NewPathNodeFs(driver, nil)
	connector := nodefs.NewFileSystemConnector(nodeFileSystem.Root(), nodefs.NewOptions())
	server, err := fuse.NewServer(connector.RawFS(), mountpoint, &fuse.MountOptions{
		Name:           "versionfs",
		FsName:         "versionfs",
		Debug:          mountConfiguration.debug,
		SingleThreaded: true,
	})
	if err != nil {
		return fmt.Errorf("unable to mount at %s: %w", mountpoint, err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, cmdutil.TerminationSignals...)
	go func() {
		<-signals
		logger.Print("received termination signal, unmounting")
		if err := server.Unmount(); err != nil {
			logger.Warn(err)
		}
	}()

	server.Serve()
	return nil
}
