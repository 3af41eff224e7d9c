package middlewares

import (
	"context"
	"net/http"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BanGuard blocks content creation for banned users. Temporary bans whose
// expiry has passed are reset in place (lazy expiry, no background sweep)
// and the request proceeds. Storage failures abort the request; they are
// never treated as "not banned".
func BanGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		objectID, err := primitive.ObjectIDFromHex(userID.(string))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store := &services.MongoUserStore{Col: config.GetCollection("users")}
		status, err := services.CheckBanStatus(ctx, store, objectID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check ban status"})
			c.Abort()
			return
		}

		if status.Banned {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "You are banned from posting",
				"banType":   status.Type,
				"reason":    status.Reason,
				"expiresAt": status.ExpiresAt,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
