package domain

import (
	"fmt"
	"strings"
	"time"
)

// RepoID identifies a repository by owner and name.
type RepoID struct {
	Owner string
	Name  string
}

// ParseRepoID parses an "owner/name" string.
func ParseRepoID(s string) (RepoID, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoID{}, NewError(KindValidation, "parse repo", fmt.Errorf("invalid repository %q, want owner/name", s))
	}
	return RepoID{Owner: owner, Name: name}, nil
}

// ParseRepoIDs parses a list of "owner/name" strings, keeping their order.
func ParseRepoIDs(values []string) ([]RepoID, error) {
	repos := make([]RepoID, 0, len(values))
	for _, s := range values {
		r, err := ParseRepoID(s)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// String returns "owner/name".
func (r RepoID) String() string {
	return r.Owner + "/" + r.Name
}

// DateRange is an inclusive time window. A zero bound is unbounded.
type DateRange struct {
	Since time.Time
	Until time.Time
}

// Bounded reports whether both ends of the range are set.
func (d DateRange) Bounded() bool {
	return !d.Since.IsZero() && !d.Until.IsZero()
}

// IsZero reports whether neither end of the range is set.
func (d DateRange) IsZero() bool {
	return d.Since.IsZero() && d.Until.IsZero()
}

// Contains reports whether t lies inside the range, bounds included.
func (d DateRange) Contains(t time.Time) bool {
	if !d.Since.IsZero() && t.Before(d.Since) {
		return false
	}
	if !d.Until.IsZero() && t.After(d.Until) {
		return false
	}
	return true
}

// ContainsDay is like Contains but compares calendar days in UTC.
func (d DateRange) ContainsDay(t time.Time) bool {
	day := truncateDay(t)
	if !d.Since.IsZero() && day.Before(truncateDay(d.Since)) {
		return false
	}
	if !d.Until.IsZero() && day.After(truncateDay(d.Until)) {
		return false
	}
	return true
}

// Workdays approximates the business days in the range as calendar days * 5/7.
// It returns 0 for an unbounded or inverted range.
func (d DateRange) Workdays() float64 {
	if !d.Bounded() {
		return 0
	}
	days := d.Until.Sub(d.Since).Hours() / 24
	if days <= 0 {
		return 0
	}
	return days * 5 / 7
}

// PerDay divides count by the workdays of the range, yielding 0 when there are none.
func (d DateRange) PerDay(count int) float64 {
	w := d.Workdays()
	if w == 0 {
		return 0
	}
	return float64(count) / w
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
