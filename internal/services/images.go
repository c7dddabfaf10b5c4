package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

// ImageService issues pre-signed S3 PUT URLs for resource images. The
// client uploads directly to S3 and stores the resulting public URL on the
// resource.
type ImageService struct {
	s3Client *s3.Client
	bucket   string
	region   string
}

// NewImageService creates a new image service
func NewImageService(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string) (*ImageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		s3Client: client,
		bucket:   bucket,
		region:   region,
	}, nil
}

// UploadTarget is a pre-signed upload slot for one image
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PrepareUpload generates a pre-signed PUT URL for an image owned by userID
func (s *ImageService) PrepareUpload(ctx context.Context, userID, filename, contentType string) (*UploadTarget, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, fmt.Errorf("unsupported image extension: %q", ext)
	}

	key := fmt.Sprintf("resources/%s/%s%s", userID, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadTarget{
		UploadURL: request.URL,
		ImageURL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}
