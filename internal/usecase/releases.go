package usecase

import (
	"context"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Downloads sums the asset download counts of releases published inside rng,
// compared by calendar day. Unpublished drafts are skipped.
func (a *Aggregator) Downloads(ctx context.Context, repos []domain.RepoID, rng domain.DateRange) (int, error) {
	count := 0
	for _, repo := range repos {
		releases, err := a.fetcher.FetchReleases(ctx, repo)
		if err != nil {
			return 0, err
		}
		for _, r := range releases {
			if r.PublishedAt == nil || !rng.ContainsDay(r.GetPublishedAt().Time) {
				continue
			}
			for _, asset := range r.Assets {
				count += asset.GetDownloadCount()
			}
		}
	}
	return count, nil
}
