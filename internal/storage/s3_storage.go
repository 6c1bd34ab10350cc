package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jedrzejbor/osiedlsie/internal/config"
)

const s3KeyPrefix = "listings"

// S3Storage stores files in an S3 bucket under the "listings/" prefix.
type S3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates an S3-backed storage driver.
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *S3Storage) objectKey(filename string) string {
	return path.Join(s3KeyPrefix, path.Base(filename))
}

func (s *S3Storage) Save(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	key := s.objectKey(filename)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return strings.TrimSuffix(s.cfg.ImageBaseS3URL, "/") + "/" + key, nil
}

func (s *S3Storage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	key := s.objectKey(filename)
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, filename string) error {
	key := s.objectKey(filename)
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// NewFromConfig selects the storage driver named by STORAGE_DRIVER.
func NewFromConfig(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.UploadDir, cfg.PublicUploadPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
