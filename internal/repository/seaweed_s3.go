package repository

import (
	"bytes"
	"context"
	"fmt"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/mansoorceksport/picdrop/internal/config"
	"github.com/mansoorceksport/picdrop/internal/domain"
)

// SeaweedS3Repository implements domain.FileRepository using AWS SDK v2
// against an S3-compatible store (SeaweedFS, MinIO).
type SeaweedS3Repository struct {
	client *s3.Client
	bucket string
}

// NewSeaweedS3Repository creates a new S3 repository
func NewSeaweedS3Repository(ctx context.Context, cfg appConfig.S3Config) (*SeaweedS3Repository, error) {
	// For SeaweedFS (or generic S3), we need to override the endpoint resolution.
	// We use static credentials "any"/"any" because SeaweedFS/MinIO often require signatures.
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("any", "any", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Required for many S3-compatible stores including SeaweedFS
	})

	repo := &SeaweedS3Repository{
		client: client,
		bucket: cfg.Bucket,
	}

	// Ensure bucket exists
	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Store uploads payload under a generated unique key and returns that key.
// Name generation follows the same rules as the disk backend.
func (r *SeaweedS3Repository) Store(ctx context.Context, payload []byte, declaredName string) (string, error) {
	ext, err := validateExtension(declaredName)
	if err != nil {
		return "", err
	}

	key := generateFileName(ext)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(mime.TypeByExtension(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: uploading %s: %v", domain.ErrStorage, key, err)
	}

	return key, nil
}

// ensureBucket checks if bucket exists, creating it if necessary
func (r *SeaweedS3Repository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})

	if err != nil {
		// HeadBucket fails on missing bucket and on access errors alike;
		// try to create and surface the create error if that also fails.
		_, err = r.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(r.bucket),
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
		}
	}
	return nil
}
