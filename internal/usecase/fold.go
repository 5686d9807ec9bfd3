package usecase

import "github.com/naka-gawa/gh-activity/internal/domain"

// WeightedAverage merges two averages by their counts:
// n1*avg1/(n1+n2) + n2*avg2/(n1+n2). It is 0 when both counts are 0.
func WeightedAverage(n1 int, avg1 float64, n2 int, avg2 float64) float64 {
	total := n1 + n2
	if total == 0 {
		return 0
	}
	return float64(n1)*avg1/float64(total) + float64(n2)*avg2/float64(total)
}

// FoldCollaborators merges per-repo stats into one record per login. Counts
// add up, per-day rates are recomputed over rng, and average comment lengths
// are merged incrementally, weighted by comment counts. A login absent from a
// repo contributes zeros.
func FoldCollaborators(perRepo []map[string]*domain.CollaboratorStats, logins []string, rng domain.DateRange) map[string]*domain.CollaboratorStats {
	folded := make(map[string]*domain.CollaboratorStats, len(logins))
	for _, login := range logins {
		total := &domain.CollaboratorStats{}
		for _, repoStats := range perRepo {
			s, ok := repoStats[login]
			if !ok || s == nil {
				continue
			}
			total.Commits += s.Commits
			total.CommitsTotalLinesOfWork += s.CommitsTotalLinesOfWork
			total.IssuesClosed += s.IssuesClosed
			total.IssuesCommented += s.IssuesCommented
			total.IssueCommentAvgLen = WeightedAverage(total.IssueComments, total.IssueCommentAvgLen, s.IssueComments, s.IssueCommentAvgLen)
			total.IssueComments += s.IssueComments
			total.PullsCommented += s.PullsCommented
			total.PullCommentAvgLen = WeightedAverage(total.PullComments, total.PullCommentAvgLen, s.PullComments, s.PullCommentAvgLen)
			total.PullComments += s.PullComments
		}
		total.CommitsPerDay = rng.PerDay(total.Commits)
		total.IssuesClosedPerDay = rng.PerDay(total.IssuesClosed)
		total.IssueCommentsPerDay = rng.PerDay(total.IssueComments)
		total.PullCommentsPerDay = rng.PerDay(total.PullComments)
		folded[login] = total
	}
	return folded
}
