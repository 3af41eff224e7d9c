package services

import (
	"testing"
	"time"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueWith(title string, upvotes int64, age time.Duration, now time.Time) models.Issue {
	return models.Issue{
		Title:       title,
		UpvoteCount: upvotes,
		CreatedAt:   now.Add(-age),
	}
}

func TestTrendingScoreFreshIssueGetsFullBonus(t *testing.T) {
	now := time.Now()

	// Zero age: full recency bonus on top of the upvote weight
	score := TrendingScore(4, now, now)
	assert.InDelta(t, 4*TrendingWeightUpvotes+TrendingRecencyDays, score, 1e-9)

	// Future-dated createdAt (clock skew) must not exceed the full bonus
	future := TrendingScore(4, now.Add(48*time.Hour), now)
	assert.InDelta(t, 4*TrendingWeightUpvotes+TrendingRecencyDays, future, 1e-9)
}

func TestTrendingScoreOldIssueGetsNoBonus(t *testing.T) {
	now := time.Now()

	for _, days := range []int{7, 8, 30, 365} {
		score := TrendingScore(3, now.Add(-time.Duration(days)*24*time.Hour), now)
		assert.InDelta(t, float64(3*TrendingWeightUpvotes), score, 1e-9, "age %d days", days)
	}
}

func TestTrendingScoreFractionalDays(t *testing.T) {
	// 4 upvotes, 3.5 days old: 4*2 + (7 - 3.5) = 11.5
	now := time.Now()
	createdAt := now.Add(-84 * time.Hour)
	assert.InDelta(t, 11.5, TrendingScore(4, createdAt, now), 1e-9)
}

func TestTrendingScoreZeroUpvotes(t *testing.T) {
	now := time.Now()
	score := TrendingScore(0, now.Add(-24*time.Hour), now)
	assert.InDelta(t, 6.0, score, 1e-9)
}

func TestSortIssuesTrending(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		issueWith("old popular", 10, 30*24*time.Hour, now), // 20
		issueWith("fresh quiet", 0, time.Hour, now),        // ~7
		issueWith("fresh popular", 8, time.Hour, now),      // ~23
	}

	SortIssues(issues, SortTrending, now)

	require.Len(t, issues, 3)
	assert.Equal(t, "fresh popular", issues[0].Title)
	assert.Equal(t, "old popular", issues[1].Title)
	assert.Equal(t, "fresh quiet", issues[2].Title)
}

func TestSortIssuesNewest(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		issueWith("b", 5, 48*time.Hour, now),
		issueWith("c", 9, 72*time.Hour, now),
		issueWith("a", 1, time.Hour, now),
	}

	SortIssues(issues, SortNewest, now)

	assert.Equal(t, "a", issues[0].Title)
	assert.Equal(t, "b", issues[1].Title)
	assert.Equal(t, "c", issues[2].Title)
}

func TestSortIssuesUpvotedIgnoresTimestamps(t *testing.T) {
	now := time.Now()
	a := issueWith("a", 9, 100*24*time.Hour, now)
	b := issueWith("b", 5, time.Minute, now)
	c := issueWith("c", 1, 24*time.Hour, now)

	first := []models.Issue{c, a, b}
	second := []models.Issue{b, c, a}
	SortIssues(first, SortUpvoted, now)
	SortIssues(second, SortUpvoted, now)

	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
		assert.Equal(t, first[i].UpvoteCount, second[i].UpvoteCount)
	}
	assert.Equal(t, "a", first[0].Title)
}

func TestSortIssuesStableOnTies(t *testing.T) {
	now := time.Now()
	// Identical scores: input order must survive the sort
	issues := []models.Issue{
		issueWith("first", 3, time.Hour, now),
		issueWith("second", 3, time.Hour, now),
		issueWith("third", 3, time.Hour, now),
	}

	SortIssues(issues, SortUpvoted, now)

	assert.Equal(t, "first", issues[0].Title)
	assert.Equal(t, "second", issues[1].Title)
	assert.Equal(t, "third", issues[2].Title)
}

func TestSortIssuesUnknownModeLeavesOrder(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		issueWith("x", 1, time.Hour, now),
		issueWith("y", 9, time.Hour, now),
	}

	SortIssues(issues, "oldest", now)

	assert.Equal(t, "x", issues[0].Title)
	assert.Equal(t, "y", issues[1].Title)
}
