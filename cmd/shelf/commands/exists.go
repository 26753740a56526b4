package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>...",
		Short: "Check whether paths exist in the remote content store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := c.app.CheckMultiple(cmd.Context(), args)
			out := cmd.OutOrStdout()
			for _, p := range args {
				_, _ = fmt.Fprintf(out, "%s\t%t\n", p, results[p])
			}
			return nil
		},
	}
}
