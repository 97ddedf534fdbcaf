package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// S3Storage stores profile photos in an S3-compatible bucket and hands
// out short-lived presigned links for reads.
type S3Storage struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewS3Storage(client *minio.Client, bucket string, linkTTL time.Duration) *S3Storage {
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &S3Storage{client: client, bucket: bucket, ttl: linkTTL}
}

func (s *S3Storage) Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return nil
}

func (s *S3Storage) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", objectKey, err)
	}
	return u.String(), nil
}

func (s *S3Storage) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", objectKey, err)
	}
	return nil
}
