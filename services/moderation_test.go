package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserStore records ClearBan calls so the lazy-heal write is visible.
type fakeUserStore struct {
	user       *models.User
	findErr    error
	clearErr   error
	clearCalls int
}

func (s *fakeUserStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *fakeUserStore) ClearBan(ctx context.Context, id primitive.ObjectID) error {
	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.user.BanType = models.BanNone
	s.user.BannedAt = nil
	s.user.BannedUntil = nil
	s.user.BanReason = ""
	return nil
}

func TestEvaluateBanNone(t *testing.T) {
	now := time.Now()

	status, expired := EvaluateBan(&models.User{BanType: models.BanNone}, now)
	assert.False(t, status.Banned)
	assert.False(t, expired)

	// Missing record means no restriction
	status, expired = EvaluateBan(nil, now)
	assert.False(t, status.Banned)
	assert.False(t, expired)
}

func TestEvaluateBanPermanentIgnoresExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	for _, until := range []*time.Time{nil, &past} {
		status, expired := EvaluateBan(&models.User{
			BanType:     models.BanPermanent,
			BannedUntil: until,
			BanReason:   "spam",
		}, now)

		assert.True(t, status.Banned)
		assert.Equal(t, models.BanPermanent, status.Type)
		assert.Equal(t, "spam", status.Reason)
		assert.False(t, expired)
	}
}

func TestEvaluateBanTemporaryActive(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)

	status, expired := EvaluateBan(&models.User{
		BanType:     models.BanTemporary,
		BannedUntil: &until,
		BanReason:   "abuse",
	}, now)

	assert.True(t, status.Banned)
	assert.Equal(t, models.BanTemporary, status.Type)
	require.NotNil(t, status.ExpiresAt)
	assert.Equal(t, until, *status.ExpiresAt)
	assert.False(t, expired)
}

func TestEvaluateBanTemporaryExpired(t *testing.T) {
	now := time.Now()
	until := now.Add(-time.Second)

	status, expired := EvaluateBan(&models.User{
		BanType:     models.BanTemporary,
		BannedUntil: &until,
	}, now)

	assert.False(t, status.Banned)
	assert.True(t, expired)
	assert.Empty(t, status.Reason)
	assert.Nil(t, status.ExpiresAt)
}

func TestEvaluateBanTemporaryMissingExpiry(t *testing.T) {
	// Malformed record: temporary without bannedUntil heals to unbanned
	status, expired := EvaluateBan(&models.User{BanType: models.BanTemporary}, time.Now())
	assert.False(t, status.Banned)
	assert.True(t, expired)
}

func TestCheckBanStatusHealsExpiredBan(t *testing.T) {
	now := time.Now()
	until := now.Add(-time.Second)
	bannedAt := now.Add(-48 * time.Hour)
	store := &fakeUserStore{user: &models.User{
		ID:          primitive.NewObjectID(),
		BanType:     models.BanTemporary,
		BannedAt:    &bannedAt,
		BannedUntil: &until,
		BanReason:   "cooldown",
	}}

	status, err := CheckBanStatus(context.Background(), store, store.user.ID, now)

	require.NoError(t, err)
	assert.False(t, status.Banned)
	assert.Equal(t, 1, store.clearCalls, "expired ban must trigger a reset write")
	assert.Equal(t, models.BanNone, store.user.BanType)
}

func TestCheckBanStatusActiveBanWritesNothing(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)
	store := &fakeUserStore{user: &models.User{
		ID:          primitive.NewObjectID(),
		BanType:     models.BanTemporary,
		BannedUntil: &until,
	}}

	status, err := CheckBanStatus(context.Background(), store, store.user.ID, now)

	require.NoError(t, err)
	assert.True(t, status.Banned)
	assert.Zero(t, store.clearCalls)
}

func TestCheckBanStatusPropagatesStorageErrors(t *testing.T) {
	findErr := errors.New("connection reset")
	store := &fakeUserStore{findErr: findErr}

	_, err := CheckBanStatus(context.Background(), store, primitive.NewObjectID(), time.Now())
	assert.ErrorIs(t, err, findErr)

	// A failed heal write is an error too, never silently "not banned"
	now := time.Now()
	until := now.Add(-time.Minute)
	clearErr := errors.New("write failed")
	store = &fakeUserStore{
		user:     &models.User{BanType: models.BanTemporary, BannedUntil: &until},
		clearErr: clearErr,
	}
	_, err = CheckBanStatus(context.Background(), store, primitive.NewObjectID(), now)
	assert.ErrorIs(t, err, clearErr)
}

func TestBanDurationHours(t *testing.T) {
	hours, err := BanDurationHours(2, "days")
	require.NoError(t, err)
	assert.Equal(t, 48, hours)

	hours, err = BanDurationHours(6, "hours")
	require.NoError(t, err)
	assert.Equal(t, 6, hours)

	_, err = BanDurationHours(0, "hours")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = BanDurationHours(-3, "days")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = BanDurationHours(2, "weeks")
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestApplyBanTemporaryComputesExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &models.User{}

	// "2 days" of ban starting at 2024-01-01T00:00:00Z
	hours, err := BanDurationHours(2, "days")
	require.NoError(t, err)
	require.NoError(t, ApplyBan(user, models.BanTemporary, "repeated spam", hours, now))

	assert.Equal(t, models.BanTemporary, user.BanType)
	assert.Equal(t, "repeated spam", user.BanReason)
	require.NotNil(t, user.BannedAt)
	assert.Equal(t, now, *user.BannedAt)
	require.NotNil(t, user.BannedUntil)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), *user.BannedUntil)
}

func TestApplyBanPermanentClearsExpiry(t *testing.T) {
	now := time.Now()
	stale := now.Add(time.Hour)
	user := &models.User{BannedUntil: &stale}

	require.NoError(t, ApplyBan(user, models.BanPermanent, "doxxing", 0, now))

	assert.Equal(t, models.BanPermanent, user.BanType)
	assert.Nil(t, user.BannedUntil)
}

func TestApplyBanValidation(t *testing.T) {
	now := time.Now()

	err := ApplyBan(&models.User{}, models.BanTemporary, "", 24, now)
	assert.ErrorIs(t, err, ErrEmptyBanReason)

	err = ApplyBan(&models.User{}, models.BanTemporary, "spam", 0, now)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	err = ApplyBan(&models.User{}, models.BanNone, "spam", 0, now)
	assert.ErrorIs(t, err, ErrInvalidBanType)
}

func TestApplyUnbanIsIdempotent(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)
	user := &models.User{
		BanType:     models.BanTemporary,
		BannedAt:    &now,
		BannedUntil: &until,
		BanReason:   "spam",
	}

	ApplyUnban(user)
	afterFirst := *user

	ApplyUnban(user)
	assert.Equal(t, afterFirst, *user)
	assert.Equal(t, models.BanNone, user.BanType)
	assert.Nil(t, user.BannedAt)
	assert.Nil(t, user.BannedUntil)
	assert.Empty(t, user.BanReason)
}

func TestSoftDeleteUpdateTouchesOnlyModerationFields(t *testing.T) {
	now := time.Now()
	update := SoftDeleteUpdate("City Admin", now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, set["hidden"])
	assert.Equal(t, now, set["deletedAt"])
	assert.Equal(t, "City Admin", set["deletedBy"])

	// Content and counter fields never appear in the update
	assert.Len(t, update, 1)
	assert.Len(t, set, 4)
	assert.NotContains(t, set, "upvoteCount")
	assert.NotContains(t, set, "title")
	assert.NotContains(t, set, "categoryId")
}

func TestRestoreUpdateIsPureFlagFlip(t *testing.T) {
	now := time.Now()
	update := RestoreUpdate(now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, false, set["hidden"])
	assert.Len(t, set, 2)

	unset, ok := update["$unset"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, unset, "deletedAt")
	assert.Contains(t, unset, "deletedBy")
	assert.Len(t, unset, 2)

	assert.NotContains(t, set, "upvoteCount")
	assert.NotContains(t, set, "title")
}
