package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the moderation routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.GET("/users", controllers.ListUsers)
		admin.POST("/users/:id/ban", controllers.BanUser)
		admin.POST("/users/:id/unban", controllers.UnbanUser)
		admin.DELETE("/issues/:id", controllers.SoftDeleteIssue)
		admin.POST("/issues/:id/restore", controllers.RestoreIssue)
		admin.DELETE("/comments/:id", controllers.SoftDeleteComment)
		admin.POST("/comments/:id/restore", controllers.RestoreComment)
		admin.GET("/logins", controllers.GetLoginHistory)
		admin.GET("/digests", controllers.ListDigests)
	}

	// Role changes are reserved for super admins
	r.PATCH("/api/admin/users/:id/role",
		middlewares.AuthMiddleware(),
		middlewares.SuperAdminMiddleware(),
		controllers.ChangeRole)
}
