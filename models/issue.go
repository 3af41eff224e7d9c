package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen         IssueStatus = "open"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusResolved     IssueStatus = "resolved"
)

// statusRank orders the lifecycle; transitions only move forward.
var statusRank = map[IssueStatus]int{
	StatusOpen:         0,
	StatusAcknowledged: 1,
	StatusResolved:     2,
}

func ValidStatus(s string) bool {
	_, ok := statusRank[IssueStatus(s)]
	return ok
}

// CanTransitionTo reports whether moving from the current status to next is
// allowed. open → acknowledged → resolved, never backwards.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	from, ok1 := statusRank[s]
	to, ok2 := statusRank[next]
	return ok1 && ok2 && to >= from
}

// IssuePhoto is one uploaded photo attached to an issue.
type IssuePhoto struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url"`
}

// Issue represents a civic issue reported by a resident. Issues are never
// hard-deleted; moderation hides them and records who did it and when.
// UpvoteCount mirrors the number of upvote records referencing the issue.
type Issue struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedBy       primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatorName     string             `bson:"creatorName" json:"creatorName"`
	CreatorPhotoURL string             `bson:"creatorPhotoUrl,omitempty" json:"creatorPhotoUrl,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	CategoryID      string             `bson:"categoryId" json:"categoryId"`
	Status          IssueStatus        `bson:"status" json:"status"`
	StatusNote      string             `bson:"statusNote,omitempty" json:"statusNote,omitempty"`
	Latitude        float64            `bson:"latitude" json:"latitude"`
	Longitude       float64            `bson:"longitude" json:"longitude"`
	Address         string             `bson:"address" json:"address"`
	Hidden          bool               `bson:"hidden" json:"hidden"`
	DeletedAt       *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy       string             `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	UpvoteCount     int64              `bson:"upvoteCount" json:"upvoteCount"`
	Photos          []IssuePhoto       `bson:"photos" json:"photos"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
