package usecase

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchCollaborators(ctx context.Context, repo domain.RepoID) ([]string, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) FetchCommits(ctx context.Context, repo domain.RepoID, author string, rng domain.DateRange) ([]*github.RepositoryCommit, error) {
	args := m.Called(ctx, repo, author, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.RepositoryCommit), args.Error(1)
}

func (m *mockFetcher) FetchCommit(ctx context.Context, repo domain.RepoID, sha string) (*github.RepositoryCommit, error) {
	args := m.Called(ctx, repo, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepositoryCommit), args.Error(1)
}

func (m *mockFetcher) FetchIssuesClosed(ctx context.Context, repo domain.RepoID, assignee string, rng domain.DateRange) ([]*github.Issue, error) {
	args := m.Called(ctx, repo, assignee, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *mockFetcher) FetchIssuesCommented(ctx context.Context, repo domain.RepoID, commenter string, rng domain.DateRange) ([]*github.Issue, error) {
	args := m.Called(ctx, repo, commenter, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *mockFetcher) FetchIssuesInvolving(ctx context.Context, repo domain.RepoID, login string, rng domain.DateRange) ([]*github.Issue, error) {
	args := m.Called(ctx, repo, login, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *mockFetcher) FetchIssueComments(ctx context.Context, repo domain.RepoID, number int) ([]*github.IssueComment, error) {
	args := m.Called(ctx, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.IssueComment), args.Error(1)
}

func (m *mockFetcher) FetchMergedPulls(ctx context.Context, repo domain.RepoID, since time.Time) ([]*github.Issue, error) {
	args := m.Called(ctx, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *mockFetcher) FetchContributors(ctx context.Context, repo domain.RepoID) ([]*github.Contributor, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Contributor), args.Error(1)
}

func (m *mockFetcher) FetchContributorStats(ctx context.Context, repo domain.RepoID) ([]*github.ContributorStats, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.ContributorStats), args.Error(1)
}

func (m *mockFetcher) FetchReleases(ctx context.Context, repo domain.RepoID) ([]*github.RepositoryRelease, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.RepositoryRelease), args.Error(1)
}

func (m *mockFetcher) FetchOrgRepos(ctx context.Context, org string) ([]string, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) FetchRepoInfo(ctx context.Context, repo domain.RepoID) (*domain.RepoInfo, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoInfo), args.Error(1)
}

func (m *mockFetcher) CountIssues(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

var (
	repoA = domain.RepoID{Owner: "org", Name: "a"}
	repoB = domain.RepoID{Owner: "org", Name: "b"}
)

func newTestAggregator(fetcher *mockFetcher) *Aggregator {
	return NewAggregator(fetcher, log.New(io.Discard, "", 0), DefaultSettings())
}

func listedCommit(sha, message string) *github.RepositoryCommit {
	return &github.RepositoryCommit{SHA: github.String(sha), Commit: &github.Commit{Message: github.String(message)}}
}

func detailCommit(sha, message, author, committer string, additions, deletions int, files ...string) *github.RepositoryCommit {
	c := listedCommit(sha, message)
	if author != "" {
		c.Author = &github.User{Login: github.String(author)}
	}
	if committer != "" {
		c.Committer = &github.User{Login: github.String(committer)}
	}
	c.Stats = &github.CommitStats{Additions: github.Int(additions), Deletions: github.Int(deletions)}
	for _, f := range files {
		c.Files = append(c.Files, &github.CommitFile{Filename: github.String(f)})
	}
	return c
}

func issue(number int, author, assignee, state, body string, closedAt *time.Time, pull bool) *github.Issue {
	i := &github.Issue{
		Number: github.Int(number),
		Title:  github.String("issue"),
		State:  github.String(state),
		Body:   github.String(body),
	}
	if author != "" {
		i.User = &github.User{Login: github.String(author)}
	}
	if assignee != "" {
		i.Assignee = &github.User{Login: github.String(assignee)}
	}
	if closedAt != nil {
		i.ClosedAt = &github.Timestamp{Time: *closedAt}
	}
	if pull {
		i.PullRequestLinks = &github.PullRequestLinks{}
	}
	return i
}

func comment(login, body string, createdAt time.Time) *github.IssueComment {
	return &github.IssueComment{
		User:      &github.User{Login: github.String(login)},
		Body:      github.String(body),
		CreatedAt: &github.Timestamp{Time: createdAt},
	}
}
