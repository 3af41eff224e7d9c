package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord is an append-only audit entry written on every sign-in.
// Records are never mutated or deleted by normal flow.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"userId"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	PhotoURL  string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	LoginAt   time.Time          `bson:"loginAt" json:"loginAt"`
	UserAgent string             `bson:"userAgent" json:"userAgent"`
}
