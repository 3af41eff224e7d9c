package services

import (
	"fmt"
	"strings"
	"testing"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildWeeklyBriefingEmpty(t *testing.T) {
	assert.Equal(t, "No significant issues reported this week.", BuildWeeklyBriefing(nil))
	assert.Equal(t, "No significant issues reported this week.", BuildWeeklyBriefing([]models.Issue{}))
}

func TestBuildWeeklyBriefingRanksByUpvotes(t *testing.T) {
	issues := []models.Issue{
		{Title: "Cracked sidewalk", Description: "Near the library", UpvoteCount: 2, Status: models.StatusOpen},
		{Title: "Broken streetlight", Description: "Elm and 3rd", UpvoteCount: 9, Status: models.StatusAcknowledged},
	}

	body := BuildWeeklyBriefing(issues)

	assert.True(t, strings.HasPrefix(body, "Weekly CivicPulse Infrastructure Briefing"))
	assert.Contains(t, body, "This week, 2 high-priority issues were reported by residents:")
	assert.Contains(t, body, "1. Broken streetlight - Elm and 3rd (9 upvotes, Status: acknowledged)")
	assert.Contains(t, body, "2. Cracked sidewalk - Near the library (2 upvotes, Status: open)")
	assert.True(t, strings.HasSuffix(body, "These issues require attention from city maintenance crews."))
}

func TestBuildWeeklyBriefingCapsAtTopN(t *testing.T) {
	var issues []models.Issue
	for i := 0; i < 25; i++ {
		issues = append(issues, models.Issue{
			Title:       fmt.Sprintf("issue %d", i),
			UpvoteCount: int64(i),
			Status:      models.StatusOpen,
		})
	}

	body := BuildWeeklyBriefing(issues)

	assert.Contains(t, body, fmt.Sprintf("This week, %d high-priority issues", DigestTopN))
	assert.Contains(t, body, "1. issue 24")
	assert.NotContains(t, body, "issue 3 ")
	assert.NotContains(t, body, fmt.Sprintf("%d.", DigestTopN+1))
}

func TestBuildWeeklyBriefingLeavesInputOrderIntact(t *testing.T) {
	issues := []models.Issue{
		{Title: "low", UpvoteCount: 1, Status: models.StatusOpen},
		{Title: "high", UpvoteCount: 5, Status: models.StatusOpen},
	}

	BuildWeeklyBriefing(issues)

	assert.Equal(t, "low", issues[0].Title)
	assert.Equal(t, "high", issues[1].Title)
}
