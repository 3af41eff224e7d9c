package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/routes"
	"civicpulse-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	defer config.DisconnectDB()

	log.Println("MongoDB connection established successfully!")

	if err := models.EnsureUpvoteIndex(config.GetCollection("upvotes")); err != nil {
		log.Fatalf("Failed to create upvote index: %v", err)
	}

	config.ConnectRedis()
	config.ConnectGCS()
	defer config.CloseGCS()

	// Weekly digest: Monday 08:00 by default
	schedule := os.Getenv("DIGEST_SCHEDULE")
	if schedule == "" {
		schedule = "0 8 * * 1"
	}
	scheduler := cron.New()
	_, err := scheduler.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := services.GenerateWeeklyDigest(ctx); err != nil {
			log.Println("Weekly digest generation failed:", err)
		} else {
			log.Println("Weekly digest generated")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule weekly digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.AuthRoutes(r)
	routes.IssueRoutes(r)
	routes.AdminRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
