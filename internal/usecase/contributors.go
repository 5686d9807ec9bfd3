package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

type contributorAccumulator struct {
	total      int
	bestRepo   string
	bestCount  int
	weeks      map[int64]struct{}
	lastSeenAt time.Time
}

// ContributorSummary merges weekly contributor stats of every repo into one
// row per login. A repo whose stats cannot be fetched is logged and skipped.
func (a *Aggregator) ContributorSummary(ctx context.Context, repos []domain.RepoID) (*domain.ContributorSummary, error) {
	a.logger.Println("Usecase: Starting contributor aggregation...")
	acc := make(map[string]*contributorAccumulator)
	for _, repo := range repos {
		repoStats, err := a.fetcher.FetchContributorStats(ctx, repo)
		if err != nil {
			a.logger.Printf("Got error for repo %s: %v; continuing", repo, err)
			continue
		}
		for _, s := range repoStats {
			login := s.GetAuthor().GetLogin()
			if login == "" {
				continue
			}
			count := s.GetTotal()
			lastSeen := lastActiveWeek(s.Weeks)

			entry, ok := acc[login]
			if !ok {
				entry = &contributorAccumulator{weeks: make(map[int64]struct{}), bestRepo: repo.String(), bestCount: count}
				acc[login] = entry
			} else if count > entry.bestCount {
				entry.bestRepo, entry.bestCount = repo.String(), count
			}
			entry.total += count
			if !lastSeen.IsZero() {
				entry.weeks[lastSeen.Unix()] = struct{}{}
				if lastSeen.After(entry.lastSeenAt) {
					entry.lastSeenAt = lastSeen
				}
			}
		}
	}

	summary := &domain.ContributorSummary{Contributors: make([]domain.ContributorTotal, 0, len(acc))}
	for login, entry := range acc {
		summary.Contributors = append(summary.Contributors, domain.ContributorTotal{
			Login:          login,
			Commits:        entry.total,
			MostActiveRepo: entry.bestRepo,
			ActiveWeeks:    len(entry.weeks),
			LastSeenAt:     entry.lastSeenAt,
		})
		summary.NumCommits += entry.total
	}
	summary.NumContributors = len(summary.Contributors)
	sort.Slice(summary.Contributors, func(i, j int) bool {
		ci, cj := summary.Contributors[i], summary.Contributors[j]
		if ci.Commits != cj.Commits {
			return ci.Commits > cj.Commits
		}
		return ci.Login < cj.Login
	})
	a.logger.Println("Usecase: Contributor aggregation complete.")
	return summary, nil
}

// lastActiveWeek returns the start of the latest week with any additions,
// deletions or commits, or the zero time when there is none.
func lastActiveWeek(weeks []*github.WeeklyStats) time.Time {
	var latest time.Time
	for _, w := range weeks {
		if w.GetAdditions() == 0 && w.GetDeletions() == 0 && w.GetCommits() == 0 {
			continue
		}
		if t := w.GetWeek().Time; t.After(latest) {
			latest = t
		}
	}
	return latest
}
