// Package blob stores uploaded binaries in S3-compatible object storage and
// resolves the public URLs persisted alongside content rows.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store struct {
	client     *minio.Client
	publicBase string
}

// New connects to the object store. publicBase is the externally reachable
// URL prefix under which bucket contents are served; it may differ from the
// API endpoint when a CDN or reverse proxy fronts the buckets.
func New(endpoint, accessKey, secretKey string, useSSL bool, publicBase string) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	return &Store{
		client:     client,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// EnsureBuckets creates any missing buckets and opens them for anonymous
// reads, since persisted asset URLs are served directly to browsers.
func (s *Store) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		if err := s.client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
			return fmt.Errorf("set bucket policy %s: %w", bucket, err)
		}
	}
	return nil
}

// Ping verifies the object store endpoint is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("ping object store: %w", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return s.PublicURL(bucket, key), nil
}

func (s *Store) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *Store) PublicURL(bucket, key string) string {
	return s.publicBase + "/" + bucket + "/" + key
}

// KeyFromURL recovers bucket and storage key from a previously resolved
// public URL. Data URLs and foreign hosts report no match.
func (s *Store) KeyFromURL(rawURL string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(rawURL, s.publicBase+"/")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, bucket)
}
