package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-activity/internal/render"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "Prints a table of contributors across the selected repositories",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, nil)

		summary, err := a.aggregator.ContributorSummary(cmd.Context(), a.repos)
		exitOnError("Failed to aggregate contributors", err)
		exitOnError("Failed to write output", render.ContributorTable(os.Stdout, summary))
	},
}

func init() {
	rootCmd.AddCommand(contributorsCmd)
}
