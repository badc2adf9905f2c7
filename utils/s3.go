package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	appconfig "github.com/Pranavpatre/Delivery-Food-Summarizer/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

// InitS3 sets up the client for raw-email archiving. Archiving is
// optional; when S3_BUCKET is unset every upload is a no-op.
func InitS3() {
	if appconfig.Settings.S3Bucket == "" {
		log.Println("S3_BUCKET not set, raw email archiving disabled")
		return
	}

	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// ArchiveRawEmail stores the original email body so failed parses can be
// replayed after parser fixes. Keyed by user and Gmail message id.
func ArchiveRawEmail(userID uint, emailID, body string) error {
	if s3Client == nil {
		return nil
	}

	key := fmt.Sprintf("raw-emails/user-%d/%s.html", userID, emailID)
	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(appconfig.Settings.S3Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(body),
		ContentType: aws.String("text/html"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive email %s: %w", emailID, err)
	}
	return nil
}
