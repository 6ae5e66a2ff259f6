// Package cmd provides Cobra CLI commands for cardex.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/cardex/internal/cli"
	"github.com/bnema/cardex/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "cardex",
		Short: "Browse the Rick and Morty character catalog from your terminal",
		Long: `cardex - a terminal card browser for a paginated character catalog.

Search characters by name, flip through result pages and inspect cards.
Pages are kept in a small per-session cache and the next page is fetched
in the background, so paging forward is usually instant.

Run 'cardex' or 'cardex browse' for the interactive browser, or
'cardex page' for a one-shot fetch suitable for scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema", "gen-docs":
				return nil
			}

			var err error
			app, err = cli.NewApp(buildInfo, cli.Options{FileLog: ownsTerminal(cmd)})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
		RunE: runBrowse,
	}
)

// ownsTerminal reports whether cmd runs the full-screen TUI, in which
// case logs must not be written to stderr.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "browse"
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
	rootCmd.Version = info.Version
}
