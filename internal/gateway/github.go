// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Environment variables holding the credentials.
const (
	EnvUser  = "GITHUB_USER"
	EnvToken = "GITHUB_ACCESS_TOKEN"
)

// Auth modes.
const (
	AuthBasic  = "basic"
	AuthBearer = "bearer"
)

// Credentials are the two inputs a client is built from.
type Credentials struct {
	Username string
	Token    string
}

// CredentialsFromEnv reads GITHUB_USER and GITHUB_ACCESS_TOKEN.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Username: os.Getenv(EnvUser),
		Token:    os.Getenv(EnvToken),
	}
}

// Settings tunes the gateway. Zero values fall back to the defaults below.
type Settings struct {
	BaseURL             string
	GraphQLURL          string
	AuthMode            string
	PerPage             int
	RateLimitFloor      int
	RateLimitRetries    int
	SecondarySleepLimit time.Duration
	StatsRetries        int
	StatsRetryDelay     time.Duration
}

const (
	defaultPerPage             = 100
	defaultRateLimitFloor      = 2
	defaultRateLimitRetries    = 3
	defaultSecondarySleepLimit = time.Hour
	defaultStatsRetryDelay     = 2 * time.Second
)

func (s Settings) withDefaults() Settings {
	if s.AuthMode == "" {
		s.AuthMode = AuthBasic
	}
	if s.PerPage <= 0 {
		s.PerPage = defaultPerPage
	}
	if s.RateLimitFloor <= 0 {
		s.RateLimitFloor = defaultRateLimitFloor
	}
	if s.RateLimitRetries <= 0 {
		s.RateLimitRetries = defaultRateLimitRetries
	}
	if s.SecondarySleepLimit <= 0 {
		s.SecondarySleepLimit = defaultSecondarySleepLimit
	}
	if s.StatsRetryDelay <= 0 {
		s.StatsRetryDelay = defaultStatsRetryDelay
	}
	return s
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchCollaborators(ctx context.Context, repo domain.RepoID) ([]string, error)
	FetchCommits(ctx context.Context, repo domain.RepoID, author string, rng domain.DateRange) ([]*github.RepositoryCommit, error)
	FetchCommit(ctx context.Context, repo domain.RepoID, sha string) (*github.RepositoryCommit, error)
	FetchIssuesClosed(ctx context.Context, repo domain.RepoID, assignee string, rng domain.DateRange) ([]*github.Issue, error)
	FetchIssuesCommented(ctx context.Context, repo domain.RepoID, commenter string, rng domain.DateRange) ([]*github.Issue, error)
	FetchIssuesInvolving(ctx context.Context, repo domain.RepoID, login string, rng domain.DateRange) ([]*github.Issue, error)
	FetchIssueComments(ctx context.Context, repo domain.RepoID, number int) ([]*github.IssueComment, error)
	FetchMergedPulls(ctx context.Context, repo domain.RepoID, since time.Time) ([]*github.Issue, error)
	FetchContributors(ctx context.Context, repo domain.RepoID) ([]*github.Contributor, error)
	FetchContributorStats(ctx context.Context, repo domain.RepoID) ([]*github.ContributorStats, error)
	FetchReleases(ctx context.Context, repo domain.RepoID) ([]*github.RepositoryRelease, error)
	FetchOrgRepos(ctx context.Context, org string) ([]string, error)
	FetchRepoInfo(ctx context.Context, repo domain.RepoID) (*domain.RepoInfo, error)
	CountIssues(ctx context.Context, query string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// It is built once per invocation and passed explicitly to whoever needs it.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
	settings      Settings

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	mu       sync.Mutex
	lastRate github.Rate
}

var _ Fetcher = (*GitHubGateway)(nil)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// It fails with an auth error when the credentials needed by the auth mode are missing.
func NewGitHubGateway(creds Credentials, settings Settings, logger *log.Logger) (*GitHubGateway, error) {
	settings = settings.withDefaults()

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(settings.SecondarySleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper
	switch settings.AuthMode {
	case AuthBasic:
		if creds.Username == "" || creds.Token == "" {
			return nil, domain.NewError(domain.KindAuth, "new client",
				fmt.Errorf("%s and %s environment variables must both be set", EnvUser, EnvToken))
		}
		transport = &github.BasicAuthTransport{
			Username:  creds.Username,
			Password:  creds.Token,
			Transport: rateLimitWaiter,
		}
	case AuthBearer:
		if creds.Token == "" {
			return nil, domain.NewError(domain.KindAuth, "new client",
				fmt.Errorf("%s environment variable is not set", EnvToken))
		}
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}),
		}
	default:
		return nil, domain.Validationf("new client", "unknown auth mode %q", settings.AuthMode)
	}
	httpClient := refuseRedirects(&http.Client{Transport: transport})

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if settings.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(settings.BaseURL, settings.BaseURL)
		if err != nil {
			return nil, domain.Validationf("new client", "invalid base url %q: %v", settings.BaseURL, err)
		}
		graphqlURL := settings.GraphQLURL
		if graphqlURL == "" {
			host := strings.TrimSuffix(strings.TrimSuffix(settings.BaseURL, "/"), "/api/v3")
			graphqlURL = host + "/api/graphql"
		}
		graphqlClient = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	return newGateway(restClient, graphqlClient, settings, logger), nil
}

func newGateway(restClient *github.Client, graphqlClient *githubv4.Client, settings Settings, logger *log.Logger) *GitHubGateway {
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
		settings:      settings.withDefaults(),
		sleep:         sleepContext,
		now:           time.Now,
	}
}

// refuseRedirects stops client from following redirects, so a moved resource
// comes back as a 3xx response and is reported as a redirect error.
func refuseRedirects(client *http.Client) *http.Client {
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
