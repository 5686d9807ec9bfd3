// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/gh-activity/internal/render"
)

var rootCmd = &cobra.Command{
	Use:   "gh-activity",
	Short: "A CLI tool to report activity on GitHub repositories.",
	Long: `gh-activity reports activity on a set of GitHub repositories: contributor
totals, per-collaborator statistics, issue and pull request time series and
release downloads. Without a subcommand it prints summary statistics for
every selected repository.

Repositories are selected with --repos, --orgs or --catalog. Credentials are
read from the GITHUB_USER and GITHUB_ACCESS_TOKEN environment variables.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, nil)
		summaries, err := a.aggregator.RepoSummaries(cmd.Context(), a.repos)
		exitOnError("Failed to summarize repositories", err)
		exitOnError("Failed to write output", render.JSON(os.Stdout, summaries))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default .gh-activity.yaml in the current or home directory)")
	rootCmd.PersistentFlags().String("env-file", "", "Dotenv file with credentials (default .env when present)")
	addSelectionFlags(rootCmd.PersistentFlags())
}

// addSelectionFlags defines the repository and date range flags.
func addSelectionFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("repos", "r", nil, "Repositories as owner/name, comma separated")
	flags.StringSliceP("orgs", "o", nil, "Organizations whose repositories are all selected")
	flags.StringP("catalog", "p", "", "Package catalog file listing the repositories to select")
	flags.String("since", "", "Start date (YYYY-MM-DD)")
	flags.String("until", "", "End date (YYYY-MM-DD)")
}
