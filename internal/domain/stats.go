// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"time"
)

// CommitSummary is the reduced form of a commit detail that survived filtering.
type CommitSummary struct {
	SHA          string `json:"sha"`
	LinesOfWork  int    `json:"linesOfWork"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	FilesChanged int    `json:"filesChanged"`
	Message      string `json:"message"`
}

// IssueSummary describes an issue or pull request relative to one collaborator login.
type IssueSummary struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state,omitempty"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	Assigned  bool       `json:"assigned"`
	Created   bool       `json:"created"`
	Mentioned bool       `json:"mentioned"`
}

// CommentStats is the count and average body length of a collaborator's comments.
type CommentStats struct {
	Comments int     `json:"comments"`
	AvgBody  float64 `json:"avgBody"`
}

// CollaboratorStats holds the activity of one login, either in one repository
// or folded across several.
type CollaboratorStats struct {
	Commits                 int     `json:"commits"`
	CommitsPerDay           float64 `json:"commitsPerDay"`
	CommitsTotalLinesOfWork int     `json:"commitsTotalLinesOfWork"`
	IssuesClosed            int     `json:"issuesClosed"`
	IssuesClosedPerDay      float64 `json:"issuesClosedPerDay"`
	IssuesCommented         int     `json:"issuesCommented"`
	IssueComments           int     `json:"issueComments"`
	IssueCommentsPerDay     float64 `json:"issueCommentsPerDay"`
	IssueCommentAvgLen      float64 `json:"issueCommentAvgLen"`
	PullsCommented          int     `json:"pullsCommented"`
	PullComments            int     `json:"pullComments"`
	PullCommentsPerDay      float64 `json:"pullCommentsPerDay"`
	PullCommentAvgLen       float64 `json:"pullCommentAvgLen"`
}

// ContributorTotal is one row of the contributor summary.
type ContributorTotal struct {
	Login          string    `json:"login"`
	Commits        int       `json:"commits"`
	MostActiveRepo string    `json:"mostActiveRepo"`
	ActiveWeeks    int       `json:"activeWeeks"`
	LastSeenAt     time.Time `json:"lastSeenAt"`
}

// ContributorSummary is the result of the contributor mode.
type ContributorSummary struct {
	Contributors    []ContributorTotal `json:"contributors"`
	NumContributors int                `json:"numContributors"`
	NumCommits      int                `json:"numCommits"`
}

// RepoInfo holds the repository counters that come from the GraphQL API.
type RepoInfo struct {
	Stargazers int `json:"stargazers"`
	Watchers   int `json:"watchers"`
	Forks      int `json:"forks"`
}

// RepoSummary holds the default per-repository statistics.
type RepoSummary struct {
	Contributors    []string `json:"contributors"`
	NumContributors int      `json:"numContributors"`
	NumCommits      int      `json:"numCommits"`
	NumIssuesClosed int      `json:"numIssuesClosed"`
	NumPRsMerged    int      `json:"numPRsMerged"`
	NumStargazers   int      `json:"numStargazers"`
	NumWatchers     int      `json:"numWatchers"`
	NumForks        int      `json:"numForks"`
}

// DayCount is one point of a time series, keyed by a YYYY-MM-DD day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// IssueDay holds how many issues were opened and updated on one day.
type IssueDay struct {
	NewIssues     int `json:"newIssues"`
	UpdatedIssues int `json:"updatedIssues"`
}

// IssueActivity is the issues-by-day result for one repository.
type IssueActivity struct {
	Days       map[string]IssueDay `json:"days"`
	AvgNew     float64             `json:"avgNew"`
	AvgUpdated float64             `json:"avgUpdated"`
}

// Involvement lists the issues and pull requests that concern one collaborator.
type Involvement struct {
	Issues []IssueSummary `json:"issues"`
	Pulls  []IssueSummary `json:"pulls"`
}

// AllKey is the key of the cross-repository totals.
const AllKey = "all"

// CollaboratorReport holds per-repository collaborator stats and, when more
// than one repository was requested, their fold under AllKey.
type CollaboratorReport struct {
	Repos  []string
	ByRepo map[string]map[string]*CollaboratorStats
	All    map[string]*CollaboratorStats
}

// Output returns the bare login->stats map for a single repository, and a
// repo->login->stats map including AllKey otherwise.
func (r *CollaboratorReport) Output() any {
	if len(r.Repos) == 1 {
		return r.ByRepo[r.Repos[0]]
	}
	out := make(map[string]map[string]*CollaboratorStats, len(r.ByRepo)+1)
	for repo, stats := range r.ByRepo {
		out[repo] = stats
	}
	out[AllKey] = r.All
	return out
}

// MarshalJSON encodes the report in the shape returned by Output.
func (r *CollaboratorReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Output())
}
