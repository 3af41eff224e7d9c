package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"

	"go.mongodb.org/mongo-driver/bson"
)

// DigestLookbackDays is the reporting window for the weekly briefing.
const DigestLookbackDays = 7

// DigestTopN caps how many issues appear in the briefing body.
const DigestTopN = 10

// BuildWeeklyBriefing renders the weekly city summary from the top issues
// of the reporting window. The caller passes issues already limited to the
// window; this function picks the top entries by upvotes.
func BuildWeeklyBriefing(issues []models.Issue) string {
	if len(issues) == 0 {
		return "No significant issues reported this week."
	}

	ranked := make([]models.Issue, len(issues))
	copy(ranked, issues)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UpvoteCount > ranked[j].UpvoteCount
	})
	if len(ranked) > DigestTopN {
		ranked = ranked[:DigestTopN]
	}

	var b strings.Builder
	b.WriteString("Weekly CivicPulse Infrastructure Briefing\n\n")
	fmt.Fprintf(&b, "This week, %d high-priority issues were reported by residents:\n\n", len(ranked))

	lines := make([]string, 0, len(ranked))
	for i, issue := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s - %s (%d upvotes, Status: %s)",
			i+1, issue.Title, issue.Description, issue.UpvoteCount, issue.Status))
	}
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString("\n\nThese issues require attention from city maintenance crews.")
	return b.String()
}

// GenerateWeeklyDigest collects the visible issues from the lookback
// window, renders the briefing and stores it in the digests collection.
// Invoked by the cron schedule in main.
func GenerateWeeklyDigest(ctx context.Context) error {
	now := time.Now()
	since := now.AddDate(0, 0, -DigestLookbackDays)

	issueCollection := config.GetCollection("issues")
	cursor, err := issueCollection.Find(ctx, bson.M{
		"hidden":    false,
		"createdAt": bson.M{"$gte": since},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return err
	}

	digest := models.Digest{
		GeneratedAt: now,
		PeriodStart: since,
		PeriodEnd:   now,
		Body:        BuildWeeklyBriefing(issues),
		IssueCount:  len(issues),
	}

	_, err = config.GetCollection("digests").InsertOne(ctx, digest)
	return err
}
