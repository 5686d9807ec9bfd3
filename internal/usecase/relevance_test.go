package usecase

import (
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

func TestSummarize(t *testing.T) {
	closedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Summarize(issue(42, "bob", "alice", "closed", "ping @alice please", &closedAt, true), "alice")

	assert.Equal(t, 42, s.Number)
	assert.Equal(t, "closed", s.State)
	assert.True(t, s.Assigned)
	assert.False(t, s.Created)
	assert.True(t, s.Mentioned)
	if assert.NotNil(t, s.ClosedAt) {
		assert.Equal(t, closedAt, *s.ClosedAt)
	}

	open := Summarize(issue(7, "alice", "", "open", "mentions @Alice only", nil, false), "alice")
	assert.Equal(t, "open", open.State)
	assert.True(t, open.Created)
	assert.False(t, open.Assigned)
	assert.False(t, open.Mentioned, "mention matching is case-sensitive")
	assert.Nil(t, open.ClosedAt)
}

func TestIsRelevantPull(t *testing.T) {
	testCases := []struct {
		name     string
		summary  domain.IssueSummary
		expected bool
	}{
		{
			name:     "assigned and closed",
			summary:  domain.IssueSummary{Assigned: true, State: "closed"},
			expected: true,
		},
		{
			name:     "created by the collaborator is never relevant",
			summary:  domain.IssueSummary{Created: true, Assigned: true, Mentioned: true, State: "closed"},
			expected: false,
		},
		{
			name:     "assigned but still open",
			summary:  domain.IssueSummary{Assigned: true, State: "open"},
			expected: false,
		},
		{
			name:     "mentioned in an open pull",
			summary:  domain.IssueSummary{Mentioned: true, State: "open"},
			expected: true,
		},
		{
			name:     "unrelated",
			summary:  domain.IssueSummary{State: "closed"},
			expected: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsRelevantPull(tc.summary))
		})
	}
}

func TestSplitIssuesAndPulls(t *testing.T) {
	issues, pulls := splitIssuesAndPulls(nil, "alice")
	assert.NotNil(t, issues)
	assert.NotNil(t, pulls)
	assert.Empty(t, issues)

	issues, pulls = splitIssuesAndPulls([]*github.Issue{
		issue(1, "bob", "", "open", "", nil, false),
		issue(2, "bob", "", "open", "", nil, true),
		issue(3, "bob", "", "open", "", nil, false),
	}, "alice")
	assert.Len(t, issues, 2)
	assert.Len(t, pulls, 1)
	assert.Equal(t, 2, pulls[0].Number)
}
