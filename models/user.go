package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleResident   UserRole = "resident"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// BanType enum
type BanType string

const (
	BanNone      BanType = "none"
	BanTemporary BanType = "temporary"
	BanPermanent BanType = "permanent"
)

// User represents a resident or administrator account. Ban state lives on
// the user record itself; BannedUntil is only meaningful for temporary bans.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	PhotoURL    string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Role        UserRole           `bson:"role" json:"role"`
	BanType     BanType            `bson:"banType" json:"banType"`
	BannedAt    *time.Time         `bson:"bannedAt,omitempty" json:"bannedAt,omitempty"`
	BannedUntil *time.Time         `bson:"bannedUntil,omitempty" json:"bannedUntil,omitempty"`
	BanReason   string             `bson:"banReason,omitempty" json:"banReason,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	LastLoginAt time.Time          `bson:"lastLoginAt" json:"lastLoginAt"`
}

func ValidRole(r string) bool {
	switch UserRole(r) {
	case RoleResident, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the user may use the moderation endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}
