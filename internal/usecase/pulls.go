package usecase

import (
	"context"
	"time"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Pull series granularities.
const (
	ByDay  = "day"
	ByWeek = "week"
)

const dayLayout = "2006-01-02"

// defaultPullsSince is used when no start date is given.
var defaultPullsSince = time.Date(1982, 9, 26, 0, 0, 0, 0, time.UTC)

// PullsOverTime counts merged pull requests by close day across repos. The
// daily series runs from the earliest to the latest close day with zero fill;
// the weekly series groups it into 7-day buckets starting on the earliest day.
func (a *Aggregator) PullsOverTime(ctx context.Context, repos []domain.RepoID, since time.Time, by string) ([]domain.DayCount, error) {
	if err := ValidatePullsBy(by); err != nil {
		return nil, err
	}
	if since.IsZero() {
		since = defaultPullsSince
	}

	counts := make(map[time.Time]int)
	var earliest, latest time.Time
	for _, repo := range repos {
		pulls, err := a.fetcher.FetchMergedPulls(ctx, repo, since)
		if err != nil {
			return nil, err
		}
		for _, p := range pulls {
			if p.ClosedAt == nil {
				continue
			}
			day := startOfDay(p.GetClosedAt().Time)
			if earliest.IsZero() || day.Before(earliest) {
				earliest = day
			}
			if day.After(latest) {
				latest = day
			}
			counts[day]++
		}
	}
	if earliest.IsZero() {
		return []domain.DayCount{}, nil
	}

	var daily []domain.DayCount
	for day := earliest; !day.After(latest); day = day.AddDate(0, 0, 1) {
		daily = append(daily, domain.DayCount{Day: day.Format(dayLayout), Count: counts[day]})
	}
	if by == ByDay {
		return daily, nil
	}
	return bucketWeeks(daily), nil
}

// ValidatePullsBy rejects a series granularity other than ByDay or ByWeek.
func ValidatePullsBy(by string) error {
	if by != ByDay && by != ByWeek {
		return domain.Validationf("pulls over time", "by can only be %q or %q, got %q", ByWeek, ByDay, by)
	}
	return nil
}

// bucketWeeks folds a contiguous daily series into weeks keyed by their first day.
func bucketWeeks(daily []domain.DayCount) []domain.DayCount {
	weekly := make([]domain.DayCount, 0, len(daily)/7+1)
	for i, d := range daily {
		if i%7 == 0 {
			weekly = append(weekly, domain.DayCount{Day: d.Day})
		}
		weekly[len(weekly)-1].Count += d.Count
	}
	return weekly
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
