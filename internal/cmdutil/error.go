// Package cmdutil holds the small pieces of CLI scaffolding shared by every
// versionfs subcommand: coloured error/warning printing and the
// termination signal list.
package cmdutil

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Warning prints a warning message to standard error.
func Warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// Error prints an error message to standard error.
func Error(err error) {
	fmt.Fprintln(color.Error, color.RedString("Error:"), err)
}

// Fatal prints an error message to standard error and terminates the
// process with exit code 1, matching how every subcommand reports a
// usage or operational failure.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}
