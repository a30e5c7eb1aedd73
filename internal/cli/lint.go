package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdemo/pkg/model"
)

func LintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [openapi-file...]",
		Short: "Check form extensions in OpenAPI documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			files := args
			if len(files) == 0 {
				files = []string{""}
			}

			total := 0
			for _, file := range files {
				doc, err := loadDocument(ctx, file)
				if err != nil {
					return fmt.Errorf("load %s: %w", displayName(file), err)
				}
				for _, op := range doc.Operations() {
					for _, violation := range model.LintOperation(op) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", displayName(file), violation)
						total++
					}
				}
			}
			if total > 0 {
				return fmt.Errorf("found %d form extension violation(s)", total)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "no violations")
			return nil
		},
	}
	return cmd
}

func displayName(file string) string {
	if file == "" {
		return "<embedded>"
	}
	return file
}
