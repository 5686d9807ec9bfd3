package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gh-activity/internal/config"
	"github.com/naka-gawa/gh-activity/internal/domain"
	"github.com/naka-gawa/gh-activity/internal/usecase"
)

type fakeOrgLister struct {
	repos []string
	err   error
	calls int
}

func (f *fakeOrgLister) ReposFromOrgs(ctx context.Context, orgs []string) ([]string, error) {
	f.calls++
	return f.repos, f.err
}

func TestResolveRepos(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("packages:\n  - name: pkg\n    repo: cat/pkg\n  - name: dup\n    repo: org/a\n"), 0o600))

	testCases := []struct {
		name        string
		repoArgs       []string
		orgs        []string
		catalogPath string
		lister      *fakeOrgLister
		expected    []domain.RepoID
		expectedErr bool
	}{
		{
			name:     "explicit repositories",
			repoArgs:    []string{"org/a", "org/b"},
			lister:   &fakeOrgLister{},
			expected: []domain.RepoID{{Owner: "org", Name: "a"}, {Owner: "org", Name: "b"}},
		},
		{
			name:        "all sources merged without duplicates",
			repoArgs:       []string{"org/a"},
			orgs:        []string{"other"},
			catalogPath: catalogPath,
			lister:      &fakeOrgLister{repos: []string{"other/x", "org/a"}},
			expected: []domain.RepoID{
				{Owner: "org", Name: "a"},
				{Owner: "other", Name: "x"},
				{Owner: "cat", Name: "pkg"},
			},
		},
		{
			name:        "nothing selected",
			lister:      &fakeOrgLister{},
			expectedErr: true,
		},
		{
			name:        "malformed repository",
			repoArgs:       []string{"just-a-name"},
			lister:      &fakeOrgLister{},
			expectedErr: true,
		},
		{
			name:        "organization listing fails",
			orgs:        []string{"org"},
			lister:      &fakeOrgLister{err: errors.New("github api error")},
			expectedErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repos, err := resolveRepos(context.Background(), tc.lister, tc.repoArgs, tc.orgs, tc.catalogPath)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, repos)
		})
	}
}

func TestResolveReposSkipsListerWithoutOrgs(t *testing.T) {
	lister := &fakeOrgLister{}
	_, err := resolveRepos(context.Background(), lister, []string{"org/a"}, nil, "")
	require.NoError(t, err)
	assert.Zero(t, lister.calls)
}

func TestResolveReposNoneIsValidationError(t *testing.T) {
	_, err := resolveRepos(context.Background(), &fakeOrgLister{}, nil, nil, "")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.ErrorContains(t, err, "no repositories specified")
}

func TestParseRange(t *testing.T) {
	rng, err := parseRange("2024-01-01", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rng.Since)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rng.Until)

	open, err := parseRange("", "")
	require.NoError(t, err)
	assert.True(t, open.IsZero())

	_, err = parseRange("2024/01/01", "")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{
		API: config.APIConfig{
			AuthMode:            "bearer",
			PerPage:             50,
			RateLimitFloor:      5,
			RateLimitRetries:    4,
			SecondarySleepLimit: time.Minute,
		},
		Commits:      config.CommitsConfig{MaxLinesOfWork: 800, IgnoreFiles: []string{"go.sum"}, DetailConcurrency: 3},
		Comments:     config.CommentsConfig{BucketDivisor: 2},
		Contributors: config.ContributorsConfig{StatsRetries: 1, StatsRetryDelay: time.Second},
	}

	gs := gatewaySettings(cfg)
	assert.Equal(t, "bearer", gs.AuthMode)
	assert.Equal(t, 50, gs.PerPage)
	assert.Equal(t, 5, gs.RateLimitFloor)
	assert.Equal(t, 4, gs.RateLimitRetries)
	assert.Equal(t, 1, gs.StatsRetries)

	us := usecaseSettings(cfg)
	assert.Equal(t, 800, us.MaxLinesOfWork)
	assert.Equal(t, []string{"go.sum"}, us.IgnoreFiles)
	assert.Equal(t, 3, us.CommitDetailConcurrency)
	assert.Equal(t, 2, us.CommentBucketDivisor)
}

// unreachableOrgLister fails the test when repositories are resolved.
type unreachableOrgLister struct {
	t *testing.T
}

func (u unreachableOrgLister) ReposFromOrgs(ctx context.Context, orgs []string) ([]string, error) {
	u.t.Errorf("organizations %v were listed before input validation", orgs)
	return nil, errors.New("unexpected call")
}

func newTestFlags(t *testing.T, values map[string]string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addSelectionFlags(flags)
	flags.String("by", usecase.ByWeek, "")
	for name, value := range values {
		require.NoError(t, flags.Set(name, value))
	}
	return flags
}

func TestResolveInputsValidatesBeforeListingOrgs(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]string
		check  inputCheck
	}{
		{
			name:   "issues by day without since",
			values: map[string]string{"orgs": "org"},
			check:  checkIssuesSince,
		},
		{
			name:   "pulls with an unknown granularity",
			values: map[string]string{"orgs": "org", "by": "month"},
			check:  checkPullsBy,
		},
		{
			name:   "malformed since date",
			values: map[string]string{"orgs": "org", "since": "01/02/2024"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flags := newTestFlags(t, tc.values)
			_, _, err := resolveInputs(context.Background(), flags, unreachableOrgLister{t: t}, tc.check)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindValidation), "got %v", err)
		})
	}
}

func TestResolveInputs(t *testing.T) {
	flags := newTestFlags(t, map[string]string{"orgs": "org", "since": "2024-05-01"})
	lister := &fakeOrgLister{repos: []string{"org/a"}}

	rng, repos, err := resolveInputs(context.Background(), flags, lister, checkIssuesSince)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), rng.Since)
	assert.Equal(t, []domain.RepoID{{Owner: "org", Name: "a"}}, repos)
	assert.Equal(t, 1, lister.calls)
}

func TestPullsDefaultsToWeeklySeries(t *testing.T) {
	flag := pullsCmd.Flags().Lookup("by")
	require.NotNil(t, flag)
	assert.Equal(t, usecase.ByWeek, flag.DefValue)
}
