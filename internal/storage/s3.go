// Package storage provides S3-compatible object storage for campaign
// media (bait images attached to posts).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaConfig holds S3/MinIO connection settings
type MediaConfig struct {
	Endpoint        string // e.g., "http://localhost:9000" for MinIO
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicURL       string // Base URL media is served from (e.g., "http://localhost:9000/media")
}

// MediaStore stores campaign images in an S3-compatible bucket
type MediaStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewMediaStore creates a new media storage client
func NewMediaStore(cfg MediaConfig) (*MediaStore, error) {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // required for MinIO
	})

	return &MediaStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

// UploadInput represents input for uploading an image
type UploadInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string // optional, used for extension extraction
}

// UploadOutput represents output from uploading an image
type UploadOutput struct {
	Key        string // object key in the bucket
	URL        string // public URL the campaign can reference
	Size       int64
	UploadedAt time.Time
}

// Upload stores an image under a date-partitioned unique key and
// returns the public URL to reference from campaigns.
func (m *MediaStore) Upload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	ext := path.Ext(in.Filename)
	if ext == "" {
		ext = extensionFor(in.ContentType)
	}
	key := fmt.Sprintf("campaigns/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String(), ext)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          in.Reader,
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(in.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to s3: %w", err)
	}

	return &UploadOutput{
		Key:        key,
		URL:        fmt.Sprintf("%s/%s", m.publicURL, key),
		Size:       in.Size,
		UploadedAt: time.Now(),
	}, nil
}

// Delete removes an image from the bucket
func (m *MediaStore) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting from s3: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
