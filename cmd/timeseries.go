package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/gh-activity/internal/domain"
	"github.com/naka-gawa/gh-activity/internal/render"
	"github.com/naka-gawa/gh-activity/internal/usecase"
)

var issuesByDayCmd = &cobra.Command{
	Use:   "issues-by-day",
	Short: "Counts issues created and updated per day since --since",
	Long: `Counts, for every day from --since up to today, the issues of a single
repository that were created and that were updated on that day, and prints
them with the daily averages as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, checkIssuesSince)

		result, err := a.aggregator.IssuesByDay(cmd.Context(), a.repos, a.rng.Since)
		exitOnError("Failed to count issues", err)
		exitOnError("Failed to write output", render.JSON(os.Stdout, result))
	},
}

var pullsCmd = &cobra.Command{
	Use:   "pulls",
	Short: "Prints merged pull requests per day or per week",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, checkPullsBy)
		by, _ := cmd.Flags().GetString("by")

		series, err := a.aggregator.PullsOverTime(cmd.Context(), a.repos, a.rng.Since, by)
		exitOnError("Failed to count pull requests", err)
		exitOnError("Failed to write output", render.Series(os.Stdout, series))
	},
}

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Sums release asset downloads of releases published in the date range",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd, nil)

		count, err := a.aggregator.Downloads(cmd.Context(), a.repos, a.rng)
		exitOnError("Failed to count downloads", err)
		exitOnError("Failed to write output", render.Downloads(os.Stdout, count))
	},
}

func init() {
	rootCmd.AddCommand(issuesByDayCmd)
	rootCmd.AddCommand(pullsCmd)
	rootCmd.AddCommand(downloadsCmd)
	pullsCmd.Flags().String("by", usecase.ByWeek, "Granularity of the series: day or week")
}

func checkIssuesSince(_ *pflag.FlagSet, rng domain.DateRange) error {
	return usecase.ValidateIssuesSince(rng.Since)
}

func checkPullsBy(flags *pflag.FlagSet, _ domain.DateRange) error {
	by, _ := flags.GetString("by")
	return usecase.ValidatePullsBy(by)
}
