package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdemo/pkg/nav"
)

func RoutesCmd() *cobra.Command {
	var siteFile string
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the page routes of a site definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := nav.LoadSite(siteFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tPAGE\tLAYOUT\tFORM\tSUBMISSION")
			for _, route := range site.Routes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					route.Path, route.Page, orDash(route.Layout), orDash(route.Form), orDash(route.Submission))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&siteFile, "site", "", "Site definition YAML (embedded definition when empty)")
	return cmd
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
