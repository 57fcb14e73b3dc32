package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <document.svg>",
		Short: "Rebuild the slide deck whenever the document changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args[0], optionsFrom(cmd))
		},
	}
	buildFlags(cmd)
	return cmd
}
