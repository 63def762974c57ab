package main

import (
	"github.com/spf13/cobra"

	"github.com/arcfile/versionfs/internal/cmdutil"
)

func rootMain(command *cobra.Command, arguments []string) {
	// No flags were set and no subcommand was invoked; print help and bail.
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:           "versionfs",
	Short:         "versionfs mounts a flat, automatically-versioned directory",
	Run:           rootMain,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		mountCommand,
		catVersionCommand,
		listVersionsCommand,
		promoteCommand,
		purgeOldCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		cmdutil.Fatal(err)
	}
}
