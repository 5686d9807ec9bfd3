package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

func TestPartitionBuckets(t *testing.T) {
	testCases := []struct {
		name     string
		numbers  []int
		expected [][]int
	}{
		{name: "no issues", numbers: nil, expected: nil},
		{name: "fewer than four issues use one bucket", numbers: []int{7, 8, 9}, expected: [][]int{{7, 8, 9}}},
		{name: "four issues", numbers: []int{1, 2, 3, 4}, expected: [][]int{{1, 2, 3, 4}}},
		{name: "round robin across two buckets", numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, expected: [][]int{{1, 3, 5, 7, 9}, {2, 4, 6, 8}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, partitionBuckets(tc.numbers, 4))
		})
	}
}

func TestDistinctNumbers(t *testing.T) {
	byLogin := map[string][]domain.IssueSummary{
		"alice": {{Number: 1}, {Number: 2}},
		"bob":   {{Number: 2}, {Number: 3}},
	}
	assert.Equal(t, []int{1, 2, 3}, distinctNumbers(byLogin, []string{"alice", "bob"}))
	assert.Equal(t, []int{2, 3, 1}, distinctNumbers(byLogin, []string{"bob", "alice"}))
}

func TestAggregator_CommentStats(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	inside := since.Add(48 * time.Hour)
	rng := domain.DateRange{Since: since, Until: until}

	fetcher := new(mockFetcher)
	fetcher.On("FetchIssueComments", mock.Anything, repoA, 1).Return([]*github.IssueComment{
		comment("alice", "0123456789", inside),
		comment("alice", "01234567890123456789", inside),
		comment("outsider", "ignored because not a collaborator", inside),
	}, nil).Once()
	fetcher.On("FetchIssueComments", mock.Anything, repoA, 2).Return([]*github.IssueComment{
		comment("alice", "01234567890123456789012345678901234567890123456789", until.Add(time.Hour)),
		comment("bob", "héllo", inside),
	}, nil).Once()

	byLogin := map[string][]domain.IssueSummary{
		"alice": {{Number: 1}, {Number: 2}},
		"bob":   {{Number: 2}},
	}
	result, err := newTestAggregator(fetcher).commentStats(context.Background(), repoA, byLogin, []string{"alice", "bob", "carol"}, rng)
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.CommentStats{
		"alice": {Comments: 2, AvgBody: 15},
		"bob":   {Comments: 1, AvgBody: 5},
		"carol": {},
	}, result)
	fetcher.AssertExpectations(t)
}

func TestAggregator_FetchCommentsKeepsBucketOrder(t *testing.T) {
	fetcher := new(mockFetcher)
	for n := 1; n <= 8; n++ {
		fetcher.On("FetchIssueComments", mock.Anything, repoA, n).
			Return([]*github.IssueComment{{ID: github.Int64(int64(n))}}, nil).Once()
	}

	comments, err := newTestAggregator(fetcher).fetchComments(context.Background(), repoA, []int{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.GetID())
	}
	assert.Equal(t, []int64{1, 3, 5, 7, 2, 4, 6, 8}, ids)
}
