package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"civicpulse-be/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uploadToGCS streams a file into the photo bucket and returns its public
// URL. Object names combine a UUID and a nanosecond timestamp so uploads
// never collide.
func uploadToGCS(reader io.Reader, contentType, folder string) (string, error) {
	ctx := context.Background()
	bucket := config.PhotoBucket()

	extension := "jpg"
	switch strings.ToLower(contentType) {
	case "image/png":
		extension = "png"
	case "image/jpeg", "image/jpg":
		extension = "jpeg"
	case "image/gif":
		extension = "gif"
	default:
		log.Printf("Unsupported content type: %s, defaulting to .jpg", contentType)
	}

	objectName := fmt.Sprintf("%s/%s_%d.%s", folder, uuid.NewString(), time.Now().UnixNano(), extension)

	writer := config.GCSClient.Bucket(bucket).Object(objectName).NewWriter(ctx)
	if contentType == "" {
		contentType = "image/jpeg"
	}
	writer.ContentType = contentType

	if _, err := io.Copy(writer, reader); err != nil {
		log.Printf("Failed to copy file to GCS: %v", err)
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := writer.Close(); err != nil {
		log.Printf("Failed to close writer: %v", err)
		return "", fmt.Errorf("failed to close GCS writer: %v", err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
	return publicURL, nil
}

// UploadPhoto accepts a multipart photo and stores it in the photo bucket
func UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := uploadToGCS(file, contentType, "issues")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":  uuid.NewString(),
		"url": url,
	})
}

