package usecase

import (
	"context"
	"fmt"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// CollaboratorStats computes per-login activity for every repo, folding the
// repos under domain.AllKey when there is more than one. When logins is
// empty, the collaborators of each repo are listed from the API.
func (a *Aggregator) CollaboratorStats(ctx context.Context, repos []domain.RepoID, logins []string, rng domain.DateRange) (*domain.CollaboratorReport, error) {
	if len(repos) == 0 {
		return nil, domain.Validationf("collaborator stats", "no repositories specified")
	}
	a.logger.Println("Usecase: Starting collaborator aggregation...")

	report := &domain.CollaboratorReport{ByRepo: make(map[string]map[string]*domain.CollaboratorStats, len(repos))}
	var all [][]string
	for _, repo := range repos {
		repoLogins := logins
		if len(repoLogins) == 0 {
			var err error
			repoLogins, err = a.fetcher.FetchCollaborators(ctx, repo)
			if err != nil {
				return nil, err
			}
		}
		stats, err := a.statsForRepo(ctx, repo, repoLogins, rng)
		if err != nil {
			return nil, err
		}
		report.Repos = append(report.Repos, repo.String())
		report.ByRepo[repo.String()] = stats
		all = append(all, repoLogins)
	}

	if len(report.Repos) > 1 {
		perRepo := make([]map[string]*domain.CollaboratorStats, 0, len(report.Repos))
		for _, r := range report.Repos {
			perRepo = append(perRepo, report.ByRepo[r])
		}
		report.All = FoldCollaborators(perRepo, unionLogins(all), rng)
	}
	a.logger.Println("Usecase: Collaborator aggregation complete.")
	return report, nil
}

func (a *Aggregator) statsForRepo(ctx context.Context, repo domain.RepoID, logins []string, rng domain.DateRange) (map[string]*domain.CollaboratorStats, error) {
	a.logger.Printf("GETTING STATS FOR: %s", repo)

	commits := make(map[string][]domain.CommitSummary, len(logins))
	for _, login := range logins {
		c, err := a.commitsFor(ctx, repo, login, rng)
		if err != nil {
			return nil, err
		}
		commits[login] = c
	}

	closed := make(map[string][]domain.IssueSummary, len(logins))
	for _, login := range logins {
		c, err := a.issuesClosed(ctx, repo, login, rng)
		if err != nil {
			return nil, err
		}
		closed[login] = c
	}

	issuesCommented := make(map[string][]domain.IssueSummary, len(logins))
	pullsCommented := make(map[string][]domain.IssueSummary, len(logins))
	for _, login := range logins {
		found, err := a.fetcher.FetchIssuesCommented(ctx, repo, login, rng)
		if err != nil {
			return nil, err
		}
		issuesCommented[login], pullsCommented[login] = splitIssuesAndPulls(found, login)
	}

	issueComments, err := a.commentStats(ctx, repo, issuesCommented, logins, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to compute issue comment stats for %s: %w", repo, err)
	}
	pullComments, err := a.commentStats(ctx, repo, pullsCommented, logins, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pull comment stats for %s: %w", repo, err)
	}

	stats := make(map[string]*domain.CollaboratorStats, len(logins))
	for _, login := range logins {
		lines := 0
		for _, c := range commits[login] {
			lines += c.LinesOfWork
		}
		ic, pc := issueComments[login], pullComments[login]
		stats[login] = &domain.CollaboratorStats{
			Commits:                 len(commits[login]),
			CommitsPerDay:           rng.PerDay(len(commits[login])),
			CommitsTotalLinesOfWork: lines,
			IssuesClosed:            len(closed[login]),
			IssuesClosedPerDay:      rng.PerDay(len(closed[login])),
			IssuesCommented:         len(issuesCommented[login]),
			IssueComments:           ic.Comments,
			IssueCommentsPerDay:     rng.PerDay(ic.Comments),
			IssueCommentAvgLen:      ic.AvgBody,
			PullsCommented:          len(pullsCommented[login]),
			PullComments:            pc.Comments,
			PullCommentsPerDay:      rng.PerDay(pc.Comments),
			PullCommentAvgLen:       pc.AvgBody,
		}
	}
	return stats, nil
}

// issuesClosed returns the issues assigned to login that were closed inside rng.
func (a *Aggregator) issuesClosed(ctx context.Context, repo domain.RepoID, login string, rng domain.DateRange) ([]domain.IssueSummary, error) {
	found, err := a.fetcher.FetchIssuesClosed(ctx, repo, login, rng)
	if err != nil {
		return nil, err
	}
	closed := []domain.IssueSummary{}
	for _, i := range found {
		s := Summarize(i, login)
		if s.ClosedAt != nil && rng.Contains(*s.ClosedAt) {
			closed = append(closed, s)
		}
	}
	return closed, nil
}

// Involvement lists, per repo and login, the issues and the relevant pull
// requests found by an involves: search.
func (a *Aggregator) Involvement(ctx context.Context, repos []domain.RepoID, logins []string, rng domain.DateRange) (map[string]map[string]*domain.Involvement, error) {
	if len(repos) == 0 {
		return nil, domain.Validationf("involvement", "no repositories specified")
	}
	result := make(map[string]map[string]*domain.Involvement, len(repos))
	for _, repo := range repos {
		repoLogins := logins
		if len(repoLogins) == 0 {
			var err error
			repoLogins, err = a.fetcher.FetchCollaborators(ctx, repo)
			if err != nil {
				return nil, err
			}
		}
		perLogin := make(map[string]*domain.Involvement, len(repoLogins))
		for _, login := range repoLogins {
			found, err := a.fetcher.FetchIssuesInvolving(ctx, repo, login, rng)
			if err != nil {
				return nil, err
			}
			issues, pulls := splitIssuesAndPulls(found, login)
			relevant := []domain.IssueSummary{}
			for _, p := range pulls {
				if IsRelevantPull(p) {
					relevant = append(relevant, p)
				}
			}
			perLogin[login] = &domain.Involvement{Issues: issues, Pulls: relevant}
		}
		result[repo.String()] = perLogin
	}
	return result, nil
}

// unionLogins merges login lists, keeping first-seen order.
func unionLogins(lists [][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, l := range list {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}
