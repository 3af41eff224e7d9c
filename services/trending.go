package services

import (
	"sort"
	"time"

	"civicpulse-be/models"
)

// Trending ranking constants: each upvote is worth two points, and issues
// earn a recency bonus that decays linearly to zero over seven days.
const (
	TrendingWeightUpvotes = 2
	TrendingRecencyDays   = 7
)

// Sort modes for the issue feed.
const (
	SortTrending = "trending"
	SortNewest   = "newest"
	SortUpvoted  = "upvoted"
)

// TrendingScore computes the relative ranking value for an issue. The score
// is only used for ordering; it is never displayed or persisted.
// Fractional days count, and the recency bonus is clamped to [0, window] so
// a future-dated createdAt (clock skew) cannot exceed the full bonus.
func TrendingScore(upvoteCount int64, createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	recency := TrendingRecencyDays - ageDays
	if recency < 0 {
		recency = 0
	}
	if recency > TrendingRecencyDays {
		recency = TrendingRecencyDays
	}
	return float64(upvoteCount)*TrendingWeightUpvotes + recency
}

// SortIssues orders issues in place according to the requested mode.
// Filtering (category, status, hidden) is the caller's job and happens
// before sorting. The sort is stable: equal keys keep their input order,
// which is the store's natural return order. Unknown modes leave the input
// order untouched.
func SortIssues(issues []models.Issue, mode string, now time.Time) {
	switch mode {
	case SortTrending:
		sort.SliceStable(issues, func(i, j int) bool {
			return TrendingScore(issues[i].UpvoteCount, issues[i].CreatedAt, now) >
				TrendingScore(issues[j].UpvoteCount, issues[j].CreatedAt, now)
		})
	case SortNewest:
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].CreatedAt.After(issues[j].CreatedAt)
		})
	case SortUpvoted:
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].UpvoteCount > issues[j].UpvoteCount
		})
	}
}
