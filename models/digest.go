package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Digest is a stored weekly briefing generated from the top issues of the
// lookback window.
type Digest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GeneratedAt time.Time          `bson:"generatedAt" json:"generatedAt"`
	PeriodStart time.Time          `bson:"periodStart" json:"periodStart"`
	PeriodEnd   time.Time          `bson:"periodEnd" json:"periodEnd"`
	Body        string             `bson:"body" json:"body"`
	IssueCount  int                `bson:"issueCount" json:"issueCount"`
}
