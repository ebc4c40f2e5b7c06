package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/lens"
)

func (a *app) newFiltersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "KEY\tHOTKEY\tNAME\tSTATEFUL")
			fmt.Fprintln(w, "---\t------\t----\t--------")
			for _, d := range lens.Filters() {
				fmt.Fprintf(w, "%s\t%d\t%s\t%t\n", d.Key, int(d.ID)+1, d.Name, d.Stateful)
			}
			return w.Flush()
		},
	}
}
