package middlewares

import (
	"context"
	"net/http"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireRole loads the authenticated user's record and aborts unless the
// user holds one of the given roles. Runs after AuthMiddleware. The loaded
// name and role are stashed on the context for handlers that record the
// acting moderator.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
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

		var user models.User
		err = config.GetCollection("users").FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		allowed := false
		for _, role := range roles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Set("actor_name", user.Name)
		c.Set("actor_role", string(user.Role))
		c.Next()
	}
}

// AdminMiddleware admits admins and super admins.
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
}

// SuperAdminMiddleware admits super admins only. Role changes go through
// this gate.
func SuperAdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleSuperAdmin)
}
