package services

import (
	"context"
	"errors"
	"time"

	"civicpulse-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmptyBanReason  = errors.New("ban reason must not be empty")
	ErrInvalidDuration = errors.New("temporary ban requires a positive duration")
	ErrInvalidBanType  = errors.New("ban type must be temporary or permanent")
	ErrInvalidUnit     = errors.New("duration unit must be hours or days")
)

// BanStatus is the result of evaluating a user's posting eligibility.
// When Banned is false the other fields are zero.
type BanStatus struct {
	Banned    bool           `json:"banned"`
	Type      models.BanType `json:"type,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

// EvaluateBan decides whether the user may create content at the given
// instant. Pure; the second return value reports that a temporary ban has
// lapsed (or is missing its expiry) and the stored record should be reset.
func EvaluateBan(u *models.User, now time.Time) (BanStatus, bool) {
	if u == nil {
		return BanStatus{}, false
	}

	switch u.BanType {
	case models.BanPermanent:
		// Permanent bans ignore bannedUntil entirely.
		return BanStatus{
			Banned: true,
			Type:   models.BanPermanent,
			Reason: u.BanReason,
		}, false
	case models.BanTemporary:
		if u.BannedUntil != nil && u.BannedUntil.After(now) {
			return BanStatus{
				Banned:    true,
				Type:      models.BanTemporary,
				Reason:    u.BanReason,
				ExpiresAt: u.BannedUntil,
			}, false
		}
		// Expired (or malformed with no expiry set): treat as unbanned and
		// ask the caller to heal the record.
		return BanStatus{}, true
	default:
		return BanStatus{}, false
	}
}

// UserStore is the slice of user persistence the ban evaluator needs.
type UserStore interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ClearBan(ctx context.Context, id primitive.ObjectID) error
}

// CheckBanStatus evaluates the stored ban state for a user and lazily
// resets temporary bans that have expired. There is no background sweep;
// records self-heal on read. Storage errors are returned unchanged and are
// never reported as "not banned".
func CheckBanStatus(ctx context.Context, store UserStore, userID primitive.ObjectID, now time.Time) (BanStatus, error) {
	user, err := store.FindUserByID(ctx, userID)
	if err != nil {
		return BanStatus{}, err
	}

	status, expired := EvaluateBan(user, now)
	if expired {
		if err := store.ClearBan(ctx, userID); err != nil {
			return BanStatus{}, err
		}
	}
	return status, nil
}

// BanDurationHours converts an admin-chosen duration to hours.
func BanDurationHours(value int, unit string) (int, error) {
	if value <= 0 {
		return 0, ErrInvalidDuration
	}
	switch unit {
	case "hours":
		return value, nil
	case "days":
		return value * 24, nil
	default:
		return 0, ErrInvalidUnit
	}
}

// ApplyBan sets the ban fields on a user record. A reason is always
// required; temporary bans additionally require a positive duration in
// hours and get bannedUntil = now + duration, while permanent bans clear
// bannedUntil.
func ApplyBan(u *models.User, banType models.BanType, reason string, durationHours int, now time.Time) error {
	if reason == "" {
		return ErrEmptyBanReason
	}

	switch banType {
	case models.BanTemporary:
		if durationHours <= 0 {
			return ErrInvalidDuration
		}
		until := now.Add(time.Duration(durationHours) * time.Hour)
		u.BannedUntil = &until
	case models.BanPermanent:
		u.BannedUntil = nil
	default:
		return ErrInvalidBanType
	}

	u.BanType = banType
	u.BannedAt = &now
	u.BanReason = reason
	return nil
}

// ApplyUnban unconditionally resets the record to the unbanned state,
// clearing all ban metadata. Idempotent.
func ApplyUnban(u *models.User) {
	u.BanType = models.BanNone
	u.BannedAt = nil
	u.BannedUntil = nil
	u.BanReason = ""
}

// SoftDeleteUpdate builds the update that hides a record. Only the hidden
// flag and deletion metadata are touched; counts and content fields on the
// record stay as they are.
func SoftDeleteUpdate(actor string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"hidden":    true,
			"deletedAt": now,
			"deletedBy": actor,
			"updatedAt": now,
		},
	}
}

// RestoreUpdate builds the update that un-hides a record. Restore is a
// pure flag flip: it clears the hidden flag and deletion metadata, nothing
// else.
func RestoreUpdate(now time.Time) bson.M {
	return bson.M{
		"$set":   bson.M{"hidden": false, "updatedAt": now},
		"$unset": bson.M{"deletedAt": "", "deletedBy": ""},
	}
}

// MongoUserStore adapts the users collection to the UserStore interface.
type MongoUserStore struct {
	Col *mongo.Collection
}

func (s *MongoUserStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) ClearBan(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"banType": models.BanNone, "updatedAt": time.Now()},
		"$unset": bson.M{"bannedAt": "", "bannedUntil": "", "banReason": ""},
	})
	return err
}
