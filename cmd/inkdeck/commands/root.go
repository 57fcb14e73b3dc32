// Package commands implements the CLI commands for inkdeck.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/inkdeck/internal/app"
	"go.trai.ch/inkdeck/internal/build"
)

// CLI represents the command line interface for inkdeck.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, input string, opts app.RunOptions) error
	Watch(ctx context.Context, input string, opts app.RunOptions) error
	Clean(ctx context.Context, input string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "inkdeck",
		Short:         "Compile layered SVG documents into PDF slide decks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// buildFlags declares the flags shared by build and watch and maps the ones
// the user actually set into RunOptions, leaving the rest to the
// configuration file.
func buildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("keep", "k", false, "Keep the work directory for caching across runs")
	cmd.Flags().BoolP("flat", "f", false, "Treat every top-level layer as one frame")
	cmd.Flags().IntP("workers", "j", 0, "Number of parallel render processes (default: number of CPUs)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: input with .pdf extension)")
}

func optionsFrom(cmd *cobra.Command) app.RunOptions {
	var opts app.RunOptions
	if cmd.Flags().Changed("keep") {
		keep, _ := cmd.Flags().GetBool("keep")
		opts.Keep = &keep
	}
	if cmd.Flags().Changed("flat") {
		flat, _ := cmd.Flags().GetBool("flat")
		opts.Flat = &flat
	}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		opts.Workers = &workers
	}
	opts.Output, _ = cmd.Flags().GetString("output")
	return opts
}
