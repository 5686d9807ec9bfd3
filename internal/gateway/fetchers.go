package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

const searchIssuesPath = "search/issues"

func repoPath(repo domain.RepoID, suffix string) string {
	return fmt.Sprintf("repos/%s/%s/%s", url.PathEscape(repo.Owner), url.PathEscape(repo.Name), suffix)
}

func searchEndpoint(query *SearchQuery) Endpoint {
	return Endpoint{
		Kind:     "search.issues",
		Path:     searchIssuesPath,
		Query:    url.Values{"q": {query.String()}},
		Envelope: "items",
	}
}

// FetchCollaborators lists the logins with access to repo.
func (g *GitHubGateway) FetchCollaborators(ctx context.Context, repo domain.RepoID) ([]string, error) {
	ep := Endpoint{Kind: "repos.getCollaborators", Path: repoPath(repo, "collaborators")}
	users, err := FetchAll[*github.User](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators of %s: %w", repo, err)
	}
	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.GetLogin())
	}
	return logins, nil
}

// FetchCommits lists the commits of repo authored by author inside rng.
// An empty author lists every commit.
func (g *GitHubGateway) FetchCommits(ctx context.Context, repo domain.RepoID, author string, rng domain.DateRange) ([]*github.RepositoryCommit, error) {
	query := url.Values{}
	if author != "" {
		query.Set("author", author)
	}
	if !rng.Since.IsZero() {
		query.Set("since", rng.Since.UTC().Format(searchTimeLayout))
	}
	if !rng.Until.IsZero() {
		query.Set("until", rng.Until.UTC().Format(searchTimeLayout))
	}
	ep := Endpoint{Kind: "repos.getCommits", Path: repoPath(repo, "commits"), Query: query}
	commits, err := FetchAll[*github.RepositoryCommit](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of %s: %w", repo, err)
	}
	return commits, nil
}

// FetchCommit returns one commit with its stats and files.
func (g *GitHubGateway) FetchCommit(ctx context.Context, repo domain.RepoID, sha string) (*github.RepositoryCommit, error) {
	ep := Endpoint{Kind: "repos.getCommit", Path: repoPath(repo, "commits/"+url.PathEscape(sha))}
	raw, err := g.Execute(ctx, ep, Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	var commit github.RepositoryCommit
	if err := json.Unmarshal(raw.Body, &commit); err != nil {
		return nil, domain.NewError(domain.KindTransport, ep.Kind, fmt.Errorf("failed to decode commit %s: %w", sha, err))
	}
	return &commit, nil
}

// FetchIssuesClosed returns closed issues assigned to assignee and updated inside rng.
func (g *GitHubGateway) FetchIssuesClosed(ctx context.Context, repo domain.RepoID, assignee string, rng domain.DateRange) ([]*github.Issue, error) {
	q := NewSearchQuery().Actor(RoleAssignee, assignee).Is("issue").Is("closed").Repo(repo).Window("updated", rng)
	return g.searchIssues(ctx, q)
}

// FetchIssuesCommented returns issues and pull requests commenter commented on.
func (g *GitHubGateway) FetchIssuesCommented(ctx context.Context, repo domain.RepoID, commenter string, rng domain.DateRange) ([]*github.Issue, error) {
	q := NewSearchQuery().Actor(RoleCommenter, commenter).Repo(repo).Window("updated", rng)
	return g.searchIssues(ctx, q)
}

// FetchIssuesInvolving returns issues and pull requests that involve login in any way.
func (g *GitHubGateway) FetchIssuesInvolving(ctx context.Context, repo domain.RepoID, login string, rng domain.DateRange) ([]*github.Issue, error) {
	q := NewSearchQuery().Actor(RoleInvolves, login).Repo(repo).Window("updated", rng)
	return g.searchIssues(ctx, q)
}

// FetchMergedPulls returns the pull requests of repo merged on or after since.
func (g *GitHubGateway) FetchMergedPulls(ctx context.Context, repo domain.RepoID, since time.Time) ([]*github.Issue, error) {
	q := NewSearchQuery().Repo(repo).Is("pr").Is("merged").OnOrAfter("merged", since)
	return g.searchIssues(ctx, q)
}

func (g *GitHubGateway) searchIssues(ctx context.Context, q *SearchQuery) ([]*github.Issue, error) {
	issues, err := FetchAll[*github.Issue](ctx, g, searchEndpoint(q), g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues with %q: %w", q, err)
	}
	return issues, nil
}

// CountIssues returns the total_count of an issue search.
func (g *GitHubGateway) CountIssues(ctx context.Context, query string) (int, error) {
	ep := Endpoint{
		Kind:     "search.issues",
		Path:     searchIssuesPath,
		Query:    url.Values{"q": {query}},
		Envelope: "items",
	}
	n, err := FetchCount(ctx, g, ep)
	if err != nil {
		return 0, fmt.Errorf("failed to count issues with %q: %w", query, err)
	}
	return n, nil
}

// FetchIssueComments returns every comment of one issue or pull request.
func (g *GitHubGateway) FetchIssueComments(ctx context.Context, repo domain.RepoID, number int) ([]*github.IssueComment, error) {
	ep := Endpoint{Kind: "issues.getComments", Path: repoPath(repo, fmt.Sprintf("issues/%d/comments", number))}
	comments, err := FetchAll[*github.IssueComment](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of %s#%d: %w", repo, number, err)
	}
	return comments, nil
}

// FetchContributors lists the contributors of repo.
func (g *GitHubGateway) FetchContributors(ctx context.Context, repo domain.RepoID) ([]*github.Contributor, error) {
	ep := Endpoint{Kind: "repos.getContributors", Path: repoPath(repo, "contributors")}
	contributors, err := FetchAll[*github.Contributor](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors of %s: %w", repo, err)
	}
	return contributors, nil
}

// FetchContributorStats returns weekly contributor activity. GitHub answers 202
// while it computes the statistics; the request is retried StatsRetries times.
func (g *GitHubGateway) FetchContributorStats(ctx context.Context, repo domain.RepoID) ([]*github.ContributorStats, error) {
	ep := Endpoint{Kind: "repos.getStatsContributors", Path: repoPath(repo, "stats/contributors")}
	for attempt := 0; ; attempt++ {
		raw, err := g.Execute(ctx, ep, Page{})
		if err != nil {
			var accepted *github.AcceptedError
			if errors.As(err, &accepted) && attempt < g.settings.StatsRetries {
				g.logger.Printf("  Statistics for %s are being computed, retrying in %s...", repo, g.settings.StatsRetryDelay)
				if err := g.sleep(ctx, g.settings.StatsRetryDelay); err != nil {
					return nil, domain.NewError(domain.KindTransport, ep.Kind, err)
				}
				continue
			}
			return nil, fmt.Errorf("failed to get contributor stats of %s: %w", repo, err)
		}
		var stats []*github.ContributorStats
		if len(raw.Body) != 0 {
			if err := json.Unmarshal(raw.Body, &stats); err != nil {
				return nil, domain.NewError(domain.KindTransport, ep.Kind, fmt.Errorf("failed to decode contributor stats: %w", err))
			}
		}
		return stats, nil
	}
}

// FetchReleases lists the releases of repo.
func (g *GitHubGateway) FetchReleases(ctx context.Context, repo domain.RepoID) ([]*github.RepositoryRelease, error) {
	ep := Endpoint{Kind: "repos.getReleases", Path: repoPath(repo, "releases")}
	releases, err := FetchAll[*github.RepositoryRelease](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases of %s: %w", repo, err)
	}
	return releases, nil
}

// FetchOrgRepos lists the full names of the repositories of org.
func (g *GitHubGateway) FetchOrgRepos(ctx context.Context, org string) ([]string, error) {
	ep := Endpoint{Kind: "repos.getForOrg", Path: fmt.Sprintf("orgs/%s/repos", url.PathEscape(org))}
	repos, err := FetchAll[*github.Repository](ctx, g, ep, g.settings.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of %s: %w", org, err)
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.GetFullName())
	}
	return names, nil
}
