package usecase

import (
	"context"
	"unicode/utf8"

	"github.com/google/go-github/v62/github"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// partitionBuckets deals numbers round-robin into len(numbers)/divisor buckets,
// never fewer than one.
func partitionBuckets(numbers []int, divisor int) [][]int {
	if len(numbers) == 0 {
		return nil
	}
	count := len(numbers) / divisor
	if count < 1 {
		count = 1
	}
	buckets := make([][]int, count)
	for i, n := range numbers {
		buckets[i%count] = append(buckets[i%count], n)
	}
	return buckets
}

// distinctNumbers flattens the per-login summaries in login order, dropping repeated numbers.
func distinctNumbers(byLogin map[string][]domain.IssueSummary, logins []string) []int {
	seen := make(map[int]struct{})
	var numbers []int
	for _, login := range logins {
		for _, s := range byLogin[login] {
			if _, ok := seen[s.Number]; ok {
				continue
			}
			seen[s.Number] = struct{}{}
			numbers = append(numbers, s.Number)
		}
	}
	return numbers
}

// fetchComments fetches the comments of every issue number. Buckets run one
// after another; the requests inside a bucket run together. Results keep
// bucket order, then order within the bucket.
func (a *Aggregator) fetchComments(ctx context.Context, repo domain.RepoID, numbers []int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	for _, bucket := range partitionBuckets(numbers, a.settings.CommentBucketDivisor) {
		results := make([][]*github.IssueComment, len(bucket))
		eg, egCtx := errgroup.WithContext(ctx)
		for i, number := range bucket {
			eg.Go(func() error {
				comments, err := a.fetcher.FetchIssueComments(egCtx, repo, number)
				if err != nil {
					return err
				}
				results[i] = comments
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for _, r := range results {
			all = append(all, r...)
		}
	}
	return all, nil
}

// commentStats computes, for every login, how many comments it wrote inside
// rng on the given issues and their average body length. Logins without
// comments get a zero record.
func (a *Aggregator) commentStats(ctx context.Context, repo domain.RepoID, byLogin map[string][]domain.IssueSummary, logins []string, rng domain.DateRange) (map[string]domain.CommentStats, error) {
	comments, err := a.fetchComments(ctx, repo, distinctNumbers(byLogin, logins))
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(logins))
	for _, l := range logins {
		wanted[l] = struct{}{}
	}
	lengths := make(map[string]stats.Float64Data)
	for _, c := range comments {
		login := c.GetUser().GetLogin()
		if _, ok := wanted[login]; !ok {
			continue
		}
		if c.CreatedAt == nil || !rng.Contains(c.GetCreatedAt().Time) {
			continue
		}
		lengths[login] = append(lengths[login], float64(utf8.RuneCountInString(c.GetBody())))
	}

	result := make(map[string]domain.CommentStats, len(logins))
	for _, l := range logins {
		data := lengths[l]
		if len(data) == 0 {
			result[l] = domain.CommentStats{}
			continue
		}
		result[l] = domain.CommentStats{Comments: len(data), AvgBody: mean(data)}
	}
	return result, nil
}
