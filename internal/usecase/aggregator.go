// Package usecase contains the business logic of the application.
package usecase

import (
	"log"
	"time"

	"github.com/naka-gawa/gh-activity/internal/gateway"
)

// Settings tunes the aggregation pipeline.
type Settings struct {
	// MaxLinesOfWork is the net line change above which a commit counts as zero work.
	MaxLinesOfWork int
	// IgnoreFiles lists file names (compared case-insensitively) that alone do not make a commit.
	IgnoreFiles []string
	// CommitDetailConcurrency bounds concurrent commit detail fetches. Zero means unbounded.
	CommitDetailConcurrency int
	// CommentBucketDivisor sets the comment bucket count to N/CommentBucketDivisor.
	CommentBucketDivisor int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxLinesOfWork:          500,
		IgnoreFiles:             []string{"changelog.txt", "package.json"},
		CommitDetailConcurrency: 10,
		CommentBucketDivisor:    4,
	}
}

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher  gateway.Fetcher
	logger   *log.Logger
	settings Settings
	now      func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, settings Settings) *Aggregator {
	if settings.MaxLinesOfWork <= 0 {
		settings.MaxLinesOfWork = DefaultSettings().MaxLinesOfWork
	}
	if settings.CommentBucketDivisor <= 0 {
		settings.CommentBucketDivisor = DefaultSettings().CommentBucketDivisor
	}
	return &Aggregator{
		fetcher:  fetcher,
		logger:   logger,
		settings: settings,
		now:      time.Now,
	}
}
