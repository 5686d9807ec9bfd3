package usecase

import (
	"context"
	"fmt"

	"github.com/naka-gawa/gh-activity/internal/domain"
	"github.com/naka-gawa/gh-activity/internal/gateway"
)

// ReposFromOrgs expands organizations into their repositories.
func (a *Aggregator) ReposFromOrgs(ctx context.Context, orgs []string) ([]string, error) {
	var repos []string
	for _, org := range orgs {
		names, err := a.fetcher.FetchOrgRepos(ctx, org)
		if err != nil {
			return nil, err
		}
		repos = append(repos, names...)
	}
	return repos, nil
}

// RepoSummaries computes the default statistics of every repo plus their
// totals under domain.AllKey, with contributors de-duplicated.
func (a *Aggregator) RepoSummaries(ctx context.Context, repos []domain.RepoID) (map[string]*domain.RepoSummary, error) {
	a.logger.Println("Usecase: Starting repository aggregation...")
	result := make(map[string]*domain.RepoSummary, len(repos)+1)
	totals := &domain.RepoSummary{Contributors: []string{}}
	var allContributors [][]string
	for _, repo := range repos {
		s, err := a.repoSummary(ctx, repo)
		if err != nil {
			return nil, err
		}
		result[repo.String()] = s
		totals.NumCommits += s.NumCommits
		totals.NumIssuesClosed += s.NumIssuesClosed
		totals.NumPRsMerged += s.NumPRsMerged
		totals.NumStargazers += s.NumStargazers
		totals.NumWatchers += s.NumWatchers
		totals.NumForks += s.NumForks
		allContributors = append(allContributors, s.Contributors)
	}
	if union := unionLogins(allContributors); union != nil {
		totals.Contributors = union
	}
	totals.NumContributors = len(totals.Contributors)
	result[domain.AllKey] = totals
	a.logger.Println("Usecase: Repository aggregation complete.")
	return result, nil
}

func (a *Aggregator) repoSummary(ctx context.Context, repo domain.RepoID) (*domain.RepoSummary, error) {
	contributors, err := a.fetcher.FetchContributors(ctx, repo)
	if err != nil {
		return nil, err
	}
	logins := []string{}
	for _, c := range contributors {
		if login := c.GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}

	commits, err := a.fetcher.FetchCommits(ctx, repo, "", domain.DateRange{})
	if err != nil {
		return nil, err
	}
	issuesClosed, err := a.fetcher.CountIssues(ctx, gateway.NewSearchQuery().Is("issue").Is("closed").Repo(repo).String())
	if err != nil {
		return nil, err
	}
	prsMerged, err := a.fetcher.CountIssues(ctx, gateway.NewSearchQuery().Is("pr").Is("merged").Repo(repo).String())
	if err != nil {
		return nil, err
	}
	info, err := a.fetcher.FetchRepoInfo(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get info of %s: %w", repo, err)
	}

	return &domain.RepoSummary{
		Contributors:    logins,
		NumContributors: len(logins),
		NumCommits:      len(commits),
		NumIssuesClosed: issuesClosed,
		NumPRsMerged:    prsMerged,
		NumStargazers:   info.Stargazers,
		NumWatchers:     info.Watchers,
		NumForks:        info.Forks,
	}, nil
}
