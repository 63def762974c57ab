package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

var promoteCommand = &cobra.Command{
	Use:   "promote <name> <k>",
	Short: "Promote a historical version to be the current version",
	Args:  cobra.ExactArgs(2),
	RunE:  promoteMain,
}

// promoteMain installs name.k as the new current version. When standard
// output is a terminal, it follows with a human-readable size/age summary
// of the resulting name.1, cosmetic only and never emitted when output is
// redirected.
func promoteMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]
	k, err := strconv.Atoi(arguments[1])
	if err != nil {
		return err
	}

	s := store.New(store.DirName, logging.RootLogger.Sublogger("promote"))
	if err := s.Promote(name, k); err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}

	info, statErr := os.Stat(s.VersionPath(name, 1))
	if statErr != nil {
		return nil
	}
	fmt.Printf("%s.1\t%s\t%s\n",
		name,
		humanize.Bytes(uint64(info.Size())),
		humanize.Time(info.ModTime()),
	)
	return nil
}
