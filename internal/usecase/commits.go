package usecase

import (
	"context"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// LinesOfWork is |additions-deletions|, or 0 when that exceeds threshold:
// such commits are assumed to import third-party code.
func LinesOfWork(additions, deletions, threshold int) int {
	net := additions - deletions
	if net < 0 {
		net = -net
	}
	if net > threshold {
		return 0
	}
	return net
}

func isMergeCommit(c *github.RepositoryCommit) bool {
	return strings.HasPrefix(c.GetCommit().GetMessage(), "Merge")
}

// dedupCommits drops repeated SHAs, keeping the first occurrence.
func dedupCommits(commits []*github.RepositoryCommit) []*github.RepositoryCommit {
	seen := make(map[string]struct{}, len(commits))
	out := make([]*github.RepositoryCommit, 0, len(commits))
	for _, c := range commits {
		if _, ok := seen[c.GetSHA()]; ok {
			continue
		}
		seen[c.GetSHA()] = struct{}{}
		out = append(out, c)
	}
	return out
}

// touchesWork reports whether any file falls outside the ignore list.
func (a *Aggregator) touchesWork(files []*github.CommitFile) bool {
	for _, f := range files {
		name := strings.ToLower(f.GetFilename())
		ignored := false
		for _, stop := range a.settings.IgnoreFiles {
			if name == strings.ToLower(stop) {
				ignored = true
				break
			}
		}
		if !ignored {
			return true
		}
	}
	return false
}

// summarizeCommit reduces a commit detail, rejecting commits whose author and
// committer differ and commits that only touch ignored files.
func (a *Aggregator) summarizeCommit(c *github.RepositoryCommit) (domain.CommitSummary, bool) {
	if c.Author == nil || c.Committer == nil || c.GetAuthor().GetLogin() != c.GetCommitter().GetLogin() {
		return domain.CommitSummary{}, false
	}
	if !a.touchesWork(c.Files) {
		return domain.CommitSummary{}, false
	}
	additions := c.GetStats().GetAdditions()
	deletions := c.GetStats().GetDeletions()
	return domain.CommitSummary{
		SHA:          c.GetSHA(),
		LinesOfWork:  LinesOfWork(additions, deletions, a.settings.MaxLinesOfWork),
		Additions:    additions,
		Deletions:    deletions,
		FilesChanged: len(c.Files),
		Message:      c.GetCommit().GetMessage(),
	}, true
}

// commitsFor returns the work commits login authored in repo inside rng.
func (a *Aggregator) commitsFor(ctx context.Context, repo domain.RepoID, login string, rng domain.DateRange) ([]domain.CommitSummary, error) {
	listed, err := a.fetcher.FetchCommits(ctx, repo, login, rng)
	if err != nil {
		return nil, err
	}
	candidates := make([]*github.RepositoryCommit, 0, len(listed))
	for _, c := range listed {
		if !isMergeCommit(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return a.fullCommitSet(ctx, repo, candidates)
}

// fullCommitSet fetches the detail of every distinct commit and keeps those
// that represent work, in list order.
func (a *Aggregator) fullCommitSet(ctx context.Context, repo domain.RepoID, commits []*github.RepositoryCommit) ([]domain.CommitSummary, error) {
	commits = dedupCommits(commits)
	details := make([]*github.RepositoryCommit, len(commits))

	eg, egCtx := errgroup.WithContext(ctx)
	if a.settings.CommitDetailConcurrency > 0 {
		eg.SetLimit(a.settings.CommitDetailConcurrency)
	}
	for i, c := range commits {
		eg.Go(func() error {
			detail, err := a.fetcher.FetchCommit(egCtx, repo, c.GetSHA())
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]domain.CommitSummary, 0, len(details))
	for _, d := range dedupCommits(details) {
		if d == nil {
			continue
		}
		if s, ok := a.summarizeCommit(d); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}
