package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-activity/internal/render"
)

var collaboratorsCmd = &cobra.Command{
	Use:   "collaborators",
	Short: "Outputs per-collaborator activity statistics as JSON",
	Long: `Computes commits, lines of work, closed issues and issue and pull request
comments for every collaborator in the date range. With more than one
repository the statistics are also folded under "all".

When --users is not given, the collaborators of each repository are listed
from the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, nil)
		users, _ := cmd.Flags().GetStringSlice("users")

		report, err := a.aggregator.CollaboratorStats(cmd.Context(), a.repos, users, a.rng)
		exitOnError("Failed to aggregate collaborator stats", err)
		exitOnError("Failed to write output", render.JSON(os.Stdout, report))
	},
}

var involvementCmd = &cobra.Command{
	Use:   "involvement",
	Short: "Lists the issues and pull requests each collaborator is involved in",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, nil)
		users, _ := cmd.Flags().GetStringSlice("users")

		result, err := a.aggregator.Involvement(cmd.Context(), a.repos, users, a.rng)
		exitOnError("Failed to list involvement", err)
		exitOnError("Failed to write output", render.JSON(os.Stdout, result))
	},
}

func init() {
	rootCmd.AddCommand(collaboratorsCmd)
	rootCmd.AddCommand(involvementCmd)
	for _, c := range []*cobra.Command{collaboratorsCmd, involvementCmd} {
		c.Flags().StringSliceP("users", "u", nil, "Collaborator logins, comma separated (default: all collaborators)")
	}
}
