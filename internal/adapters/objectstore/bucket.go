// Package objectstore implements the optional S3-compatible record backend.
package objectstore

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/zerr"
)

// Bucket is the subset of object storage the source needs.
type Bucket interface {
	// List returns the keys below prefix in sorted order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the content of key. A missing key fails with domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// MinioBucket implements Bucket with the minio client.
type MinioBucket struct {
	client *minio.Client
	bucket string
}

// NewMinioBucket creates a Bucket for the configured endpoint. No request is made.
func NewMinioBucket(cfg domain.ObjectConfig) (*MinioBucket, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	bucket := strings.TrimSpace(cfg.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, zerr.Wrap(domain.ErrSourceUnavailable, "object storage endpoint and bucket are required")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	opts := &minio.Options{
		Secure: cfg.UseSSL,
		Region: region,
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to init object storage client"), "endpoint", endpoint)
	}
	return &MinioBucket{client: client, bucket: bucket}, nil
}

// List returns all keys below prefix.
func (b *MinioBucket) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0, 32)
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, zerr.With(zerr.Wrap(obj.Err, "failed to list objects"), "prefix", prefix)
		}
		if obj.Key == "" {
			continue
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get reads the object stored under key.
func (b *MinioBucket) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.mapErr(err, key)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.mapErr(err, key)
	}
	return data, nil
}

func (b *MinioBucket) mapErr(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "object read"), "key", key)
	default:
		return zerr.With(zerr.Wrap(err, "failed to read object"), "key", key)
	}
}
