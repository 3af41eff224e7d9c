package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a resident's reply on an issue. Comments share the issue's
// soft-delete behavior but have their own independent lifecycle.
type Comment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue        primitive.ObjectID `bson:"issue" json:"issueId"`
	User         primitive.ObjectID `bson:"user" json:"userId"`
	UserName     string             `bson:"userName" json:"userName"`
	UserPhotoURL string             `bson:"userPhotoUrl,omitempty" json:"userPhotoUrl,omitempty"`
	Body         string             `bson:"body" json:"body"`
	Hidden       bool               `bson:"hidden" json:"hidden"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy    string             `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
