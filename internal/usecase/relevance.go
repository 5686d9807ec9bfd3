package usecase

import (
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Summarize describes issue relative to login.
func Summarize(issue *github.Issue, login string) domain.IssueSummary {
	s := domain.IssueSummary{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		State:     issue.GetState(),
		Assigned:  issue.Assignee != nil && issue.GetAssignee().GetLogin() == login,
		Created:   issue.User != nil && issue.GetUser().GetLogin() == login,
		Mentioned: strings.Contains(issue.GetBody(), "@"+login),
	}
	if issue.ClosedAt != nil {
		closedAt := issue.GetClosedAt().Time
		s.ClosedAt = &closedAt
	}
	return s
}

// IsRelevantPull reports whether a pull request found by a broad involves:
// search counts for the collaborator: not opened by them, and either closed
// while assigned to them or mentioning them.
func IsRelevantPull(s domain.IssueSummary) bool {
	return !s.Created && ((s.Assigned && s.State == "closed") || s.Mentioned)
}

// splitIssuesAndPulls separates search results into issue and pull request summaries.
func splitIssuesAndPulls(found []*github.Issue, login string) (issues, pulls []domain.IssueSummary) {
	issues = []domain.IssueSummary{}
	pulls = []domain.IssueSummary{}
	for _, i := range found {
		if i.IsPullRequest() {
			pulls = append(pulls, Summarize(i, login))
		} else {
			issues = append(issues, Summarize(i, login))
		}
	}
	return issues, pulls
}
