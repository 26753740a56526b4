// Package commands implements the CLI commands for shelf.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/shelf/internal/adapters/token"
	"go.trai.ch/shelf/internal/app"
	"go.trai.ch/shelf/internal/build"
	"go.trai.ch/shelf/internal/core/domain"
)

// CLI represents the command line interface for shelf.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	CheckMultiple(ctx context.Context, paths []string) map[string]bool
	LoadFileList(ctx context.Context, category string) []domain.Record
	Delete(ctx context.Context, category, id string) error
	MarkAbsent(paths ...string)
	MarkPresent(paths ...string)
	SetToken(value string) error
	ClearToken() error
	TokenStatus() token.Source
	Stats() app.Stats
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Query and maintain a static site's content shelves",
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

	// Read by main before the components are built; declared here so cobra accepts it.
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default shelf.yaml)")
	rootCmd.PersistentFlags().Bool("stats", false, "Print cache diagnostics after the command")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, _ []string) {
		if show, _ := cmd.Flags().GetBool("stats"); show {
			c.printStats(cmd.OutOrStdout())
		}
	}

	rootCmd.AddCommand(c.newExistsCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newDeleteCmd())
	rootCmd.AddCommand(c.newMarkCmd())
	rootCmd.AddCommand(c.newTokenCmd())
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

func (c *CLI) printStats(w io.Writer) {
	s := c.app.Stats()
	_, _ = fmt.Fprintf(w, "environment: %s\n", s.Environment)
	_, _ = fmt.Fprintf(w, "token: %s\n", s.Token)
	_, _ = fmt.Fprintf(w,
		"existence: cached=%d absent=%d pending=%d hits=%d misses=%d probes=%d probe_errors=%d\n",
		s.Existence.CacheSize, s.Existence.KnownAbsent, s.Existence.Pending,
		s.Existence.Hits, s.Existence.Misses, s.Existence.Probes, s.Existence.ProbeErrors,
	)
	_, _ = fmt.Fprintf(w,
		"loader: cached=%d pending=%d hits=%d misses=%d source_errors=%d\n",
		s.Loader.CachedCategories, s.Loader.Pending, s.Loader.Hits, s.Loader.Misses, s.Loader.SourceErrors,
	)
}
