// Package render writes aggregation results to the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

const lastSeenLayout = "2006-01-02"

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ContributorTable writes one row per contributor and a footer with the totals.
func ContributorTable(w io.Writer, summary *domain.ContributorSummary) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"User", "Commits", "Active Weeks", "Last Seen", "Commits Most To"})
	for _, c := range summary.Contributors {
		lastSeen := ""
		if !c.LastSeenAt.IsZero() {
			lastSeen = c.LastSeenAt.UTC().Format(lastSeenLayout)
		}
		tbl.AppendRow(table.Row{
			"@" + c.Login,
			humanize.Comma(int64(c.Commits)),
			c.ActiveWeeks,
			lastSeen,
			c.MostActiveRepo,
		})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%s contributors", humanize.Comma(int64(summary.NumContributors))),
		fmt.Sprintf("%s commits", humanize.Comma(int64(summary.NumCommits))),
	})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// Series writes a time series as tab-separated "day<TAB>count" lines.
func Series(w io.Writer, series []domain.DayCount) error {
	for _, p := range series {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", p.Day, p.Count); err != nil {
			return err
		}
	}
	return nil
}

// Downloads writes the total release download count.
func Downloads(w io.Writer, count int) error {
	_, err := fmt.Fprintf(w, "%s downloads\n", humanize.Comma(int64(count)))
	return err
}
