package config

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/storage"
)

var GCSClient *storage.Client

// PhotoBucket returns the bucket name used for issue photo uploads.
func PhotoBucket() string {
	bucket := os.Getenv("GCS_PHOTO_BUCKET")
	if bucket == "" {
		bucket = "civicpulse-issue-photos"
	}
	return bucket
}

// ConnectGCS initializes the Google Cloud Storage client and verifies the
// photo bucket is reachable.
func ConnectGCS() {
	ctx := context.Background()
	var err error
	GCSClient, err = storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to Google Cloud Storage: %v", err)
	}
	log.Println("Connected to Google Cloud Storage")

	bucketName := PhotoBucket()
	_, err = GCSClient.Bucket(bucketName).Attrs(ctx)
	if err != nil {
		log.Fatalf("Failed to access bucket %s: %v", bucketName, err)
	}
	log.Printf("Bucket %s is ready", bucketName)
}

// CloseGCS releases the storage client.
func CloseGCS() {
	if GCSClient != nil {
		GCSClient.Close()
	}
}
