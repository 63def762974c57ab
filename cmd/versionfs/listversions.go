package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

var listVersionsCommand = &cobra.Command{
	Use:   "list-versions <name>",
	Short: "List the retained versions of a logical file",
	Args:  cobra.ExactArgs(1),
	RunE:  listVersionsMain,
}

// listVersionsMain prints one line per existing version, in ascending n,
// formatted "name.n". When standard output is a terminal,
// a human-readable size/age summary is appended — cosmetic only, and never
// emitted when output is redirected, so scripting against the exact
// "name.n" format is unaffected.
func listVersionsMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]
	s := store.New(store.DirName, logging.RootLogger.Sublogger("list-versions"))

	entries, err := s.Enumerate(name)
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	for _, entry := range entries {
		if !interactive {
			fmt.Printf("%s.%d\n", name, entry.N)
			continue
		}

		info, statErr := os.Stat(entry.Path)
		if statErr != nil {
			fmt.Printf("%s.%d\n", name, entry.N)
			continue
		}
		fmt.Printf("%s.%d\t%s\t%s\n",
			name, entry.N,
			humanize.Bytes(uint64(info.Size())),
			humanize.Time(info.ModTime()),
		)
	}
	return nil
}
