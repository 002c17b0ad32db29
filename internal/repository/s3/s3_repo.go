package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"allgecare/pkg/client/s3"
)

type S3Repo struct {
	storage *s3.StorageS3
}

func NewS3Repo(storage *s3.StorageS3) *S3Repo {
	return &S3Repo{storage: storage}
}

func (s *S3Repo) Upload(ctx context.Context, key, contentType string, body []byte) error {
	if s.storage == nil || s.storage.Client == nil {
		return fmt.Errorf("s3 client not initialized")
	}

	_, err := s.storage.Client.PutObject(
		ctx,
		s.storage.Bucket,
		key,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "public, max-age=300",
		},
	)
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return nil
}

func (s *S3Repo) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if s.storage == nil || s.storage.Client == nil {
		return "", fmt.Errorf("s3 client not initialized")
	}

	params := url.Values{}
	params.Set("response-content-type", "image/png")

	u, err := s.storage.Client.PresignedGetObject(ctx, s.storage.Bucket, key, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presigned get object: %w", err)
	}
	return u.String(), nil
}
