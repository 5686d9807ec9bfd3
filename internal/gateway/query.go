package gateway

import (
	"strings"
	"time"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Role is the search qualifier that ties an issue to a user.
type Role string

const (
	RoleAssignee  Role = "assignee"
	RoleCommenter Role = "commenter"
	RoleInvolves  Role = "involves"
	RoleAuthor    Role = "author"
)

const (
	searchTimeLayout = "2006-01-02T15:04:05Z07:00"
	searchDayLayout  = "2006-01-02"
)

// SearchQuery composes a GitHub search string from typed qualifiers.
type SearchQuery struct {
	terms []string
}

// NewSearchQuery returns an empty query.
func NewSearchQuery() *SearchQuery {
	return &SearchQuery{}
}

// Qualifier adds key:value. Empty values are skipped.
func (q *SearchQuery) Qualifier(key, value string) *SearchQuery {
	if value != "" {
		q.terms = append(q.terms, key+":"+value)
	}
	return q
}

// Repo restricts the search to one repository.
func (q *SearchQuery) Repo(repo domain.RepoID) *SearchQuery {
	return q.Qualifier("repo", repo.String())
}

// Actor ties results to login in the given role.
func (q *SearchQuery) Actor(role Role, login string) *SearchQuery {
	return q.Qualifier(string(role), login)
}

// Is adds an is: qualifier, e.g. is:closed or is:pr.
func (q *SearchQuery) Is(value string) *SearchQuery {
	return q.Qualifier("is", value)
}

// Type adds a type: qualifier.
func (q *SearchQuery) Type(value string) *SearchQuery {
	return q.Qualifier("type", value)
}

// Window adds field:since..until with * standing for an open end.
// Nothing is added when the range is entirely unset.
func (q *SearchQuery) Window(field string, rng domain.DateRange) *SearchQuery {
	if rng.IsZero() {
		return q
	}
	return q.Qualifier(field, formatBound(rng.Since)+".."+formatBound(rng.Until))
}

// Day adds field:YYYY-MM-DD.
func (q *SearchQuery) Day(field string, day time.Time) *SearchQuery {
	return q.Qualifier(field, day.UTC().Format(searchDayLayout))
}

// OnOrAfter adds field:>=YYYY-MM-DD.
func (q *SearchQuery) OnOrAfter(field string, day time.Time) *SearchQuery {
	return q.Qualifier(field, ">="+day.UTC().Format(searchDayLayout))
}

func (q *SearchQuery) String() string {
	return strings.Join(q.terms, " ")
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.UTC().Format(searchTimeLayout)
}
