package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category>",
		Short: "List the records of a category from every available source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records := c.app.LoadFileList(cmd.Context(), args[0])

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, rec := range records {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", rec.ID, rec.Title, rec.Source)
			}
			return w.Flush()
		},
	}
}
