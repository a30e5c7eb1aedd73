// Package cli implements the formdemo-cli commands: filling in a form from
// the terminal against a running server, listing the site routes and linting
// form extensions in API documents.
package cli

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRoot().Execute()
}

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "formdemo-cli",
		Short:         "Terminal companion for the form demo server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		SubmitCmd(),
		RoutesCmd(),
		LintCmd(),
	)
	return root
}
