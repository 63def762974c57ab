package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

var catVersionCommand = &cobra.Command{
	Use:   "cat-version <name> <n>",
	Short: "Write the raw bytes of a specific version to standard output",
	Args:  cobra.ExactArgs(2),
	RunE:  catVersionMain,
}

func catVersionMain(command *cobra.Command, arguments []string) error {
	n, err := strconv.Atoi(arguments[1])
	if err != nil {
		return err
	}

	s := store.New(store.DirName, logging.RootLogger.Sublogger("cat-version"))
	return s.CatVersion(os.Stdout, arguments[0], n)
}
