package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListUsers returns every user record for the admin dashboard.
func ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "lastLoginAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cursor, err := config.GetCollection("users").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// BanUser applies a temporary or permanent ban to a user. A reason is
// mandatory; temporary bans take a positive duration in hours or days.
func BanUser(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		BanType  string `json:"banType" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
		Duration *struct {
			Value int    `json:"value"`
			Unit  string `json:"unit"`
		} `json:"duration,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banType := models.BanType(input.BanType)
	durationHours := 0
	if banType == models.BanTemporary {
		if input.Duration == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidDuration.Error()})
			return
		}
		durationHours, err = services.BanDurationHours(input.Duration.Value, input.Duration.Unit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCollection := config.GetCollection("users")

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	now := time.Now()
	if err := services.ApplyBan(&user, banType, input.Reason, durationHours, now); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{
		"banType":   user.BanType,
		"bannedAt":  user.BannedAt,
		"banReason": user.BanReason,
		"updatedAt": now,
	}
	update := bson.M{"$set": set}
	if user.BannedUntil != nil {
		set["bannedUntil"] = user.BannedUntil
	} else {
		update["$unset"] = bson.M{"bannedUntil": ""}
	}

	if _, err := userCollection.UpdateOne(ctx, bson.M{"_id": targetID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ban user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "User banned",
		"banType":     user.BanType,
		"bannedUntil": user.BannedUntil,
	})
}

// UnbanUser resets a user's ban state to none, clearing all ban metadata.
// Unbanning an already-unbanned user is a no-op success.
func UnbanUser(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := &services.MongoUserStore{Col: config.GetCollection("users")}
	if err := store.ClearBan(ctx, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unban user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
}

// ChangeRole sets a user's role. There is no safeguard against demoting
// the last administrator.
func ChangeRole(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection("users").UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$set": bson.M{"role": input.Role, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change role"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// softDelete hides a record and stamps who hid it and when. Counts on
// related records are left untouched.
func softDelete(c *gin.Context, collection string) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	actorName := c.GetString("actor_name")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(collection).UpdateOne(ctx, bson.M{"_id": targetID},
		services.SoftDeleteUpdate(actorName, time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record hidden"})
}

// restore is a pure flag flip: it clears the hidden flag and the deletion
// metadata and nothing else.
func restore(c *gin.Context, collection string) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(collection).UpdateOne(ctx, bson.M{"_id": targetID},
		services.RestoreUpdate(time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore record"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record restored"})
}

// SoftDeleteIssue hides an issue from the feed without removing it
func SoftDeleteIssue(c *gin.Context) {
	softDelete(c, "issues")
	IssueHub.Notify()
}

// RestoreIssue makes a hidden issue visible again
func RestoreIssue(c *gin.Context) {
	restore(c, "issues")
	IssueHub.Notify()
}

// SoftDeleteComment hides a comment
func SoftDeleteComment(c *gin.Context) {
	softDelete(c, "comments")
}

// RestoreComment makes a hidden comment visible again
func RestoreComment(c *gin.Context) {
	restore(c, "comments")
}

// GetLoginHistory returns the most recent login audit records.
func GetLoginHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if limit < 1 || limit > 1000 {
		limit = 200
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "loginAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := config.GetCollection("logins").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve login history"})
		return
	}
	defer cursor.Close(ctx)

	var logins []models.LoginRecord
	if err := cursor.All(ctx, &logins); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode login history"})
		return
	}

	c.JSON(http.StatusOK, logins)
}

// ListDigests returns stored weekly briefings, newest first.
func ListDigests(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "generatedAt", Value: -1}}).
		SetLimit(20)

	cursor, err := config.GetCollection("digests").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve digests"})
		return
	}
	defer cursor.Close(ctx)

	var digests []models.Digest
	if err := cursor.All(ctx, &digests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode digests"})
		return
	}

	c.JSON(http.StatusOK, digests)
}
