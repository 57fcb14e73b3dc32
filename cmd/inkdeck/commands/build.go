package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <document.svg>",
		Short: "Build the slide deck for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), args[0], optionsFrom(cmd))
		},
	}
	buildFlags(cmd)
	return cmd
}
