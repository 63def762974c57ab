package main

import (
	"github.com/spf13/cobra"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

var purgeOldCommand = &cobra.Command{
	Use:   "purge-old <name>",
	Short: "Remove every non-current version of a logical file",
	Args:  cobra.ExactArgs(1),
	RunE:  purgeOldMain,
}

func purgeOldMain(command *cobra.Command, arguments []string) error {
	s := store.New(store.DirName, logging.RootLogger.Sublogger("purge-old"))
	s.PurgeOld(arguments[0])
	return nil
}
