package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Record existence results without probing, persisted across runs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "absent <path>...",
		Short: "Record paths as absent",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			c.app.MarkAbsent(args...)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "present <path>...",
		Short: "Record paths as present",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			c.app.MarkPresent(args...)
		},
	})

	return cmd
}
