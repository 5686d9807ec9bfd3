package usecase

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/gh-activity/internal/domain"
	"github.com/naka-gawa/gh-activity/internal/gateway"
)

// IssuesByDay counts, for each day from since up to now, the issues of the
// single repo that were created and that were updated on that day.
func (a *Aggregator) IssuesByDay(ctx context.Context, repos []domain.RepoID, since time.Time) (map[string]*domain.IssueActivity, error) {
	if err := ValidateIssuesSince(since); err != nil {
		return nil, err
	}
	if len(repos) > 1 {
		return nil, domain.Validationf("issues by day", "issue stats can only be computed for one repo, got %d", len(repos))
	}

	result := make(map[string]*domain.IssueActivity, len(repos))
	now := a.now()
	for _, repo := range repos {
		a.logger.Printf("Usecase: counting issues of %s from %s", repo, since.Format(dayLayout))
		activity := &domain.IssueActivity{Days: make(map[string]domain.IssueDay)}
		var created, updated stats.Float64Data
		for day := startOfDay(since); day.Before(now); day = day.AddDate(0, 0, 1) {
			newIssues, err := a.fetcher.CountIssues(ctx, gateway.NewSearchQuery().Type("issue").Repo(repo).Day("created", day).String())
			if err != nil {
				return nil, err
			}
			updatedIssues, err := a.fetcher.CountIssues(ctx, gateway.NewSearchQuery().Type("issue").Repo(repo).Day("updated", day).String())
			if err != nil {
				return nil, err
			}
			activity.Days[day.Format(dayLayout)] = domain.IssueDay{NewIssues: newIssues, UpdatedIssues: updatedIssues}
			created = append(created, float64(newIssues))
			updated = append(updated, float64(updatedIssues))
		}
		activity.AvgNew = mean(created)
		activity.AvgUpdated = mean(updated)
		result[repo.String()] = activity
	}
	return result, nil
}

// ValidateIssuesSince rejects a missing start date for IssuesByDay.
func ValidateIssuesSince(since time.Time) error {
	if since.IsZero() {
		return domain.Validationf("issues by day", "a since date is required")
	}
	return nil
}

func mean(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}
