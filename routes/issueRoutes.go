package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue, comment and feed routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issue")
	{
		issue.POST("/create",
			middlewares.AuthMiddleware(),
			middlewares.BanGuard(),
			middlewares.ContentRateLimiter("issue", 10),
			controllers.CreateIssue)
		issue.GET("/list", middlewares.OptionalAuth(), controllers.ListIssues)
		issue.GET("/recent", controllers.RecentIssues)
		issue.GET("/categories", controllers.ListCategories)
		issue.GET("/subscribe", controllers.SubscribeIssues)
		issue.GET("/mine", middlewares.AuthMiddleware(), controllers.GetMyIssues)
		issue.GET("/analytics", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(), controllers.GetIssueAnalytics)
		issue.GET("/:id", middlewares.OptionalAuth(), controllers.GetIssue)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(), controllers.UpdateIssueStatus)
		issue.POST("/:id/upvote", middlewares.AuthMiddleware(), controllers.ToggleUpvote)
		issue.GET("/:id/comments", controllers.GetComments)
		issue.POST("/:id/comments",
			middlewares.AuthMiddleware(),
			middlewares.BanGuard(),
			middlewares.ContentRateLimiter("comment", 50),
			controllers.AddComment)
	}

	users := r.Group("/api/users")
	{
		users.GET("/me/stats", middlewares.AuthMiddleware(), controllers.GetUserStats)
	}

	r.POST("/api/upload", middlewares.AuthMiddleware(), controllers.UploadPhoto)
}
