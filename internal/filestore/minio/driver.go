// Package minio provides a MinIO implementation of filestore.Store for
// FTS documents staged in S3-compatible buckets.
//
// Usage:
//
//	cfg := &filestore.Config{
//	    Provider:  filestore.ProviderMinIO,
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "cms-staging",
//	}
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	files, err := store.List(ctx, "medicare/2015/")
package minio

import (
	"context"
	"io"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/filestore"
)

// Driver serves files from one bucket of a MinIO / S3-compatible
// server. It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

// New connects to the server using the provided Config and returns a
// Driver rooted at Config.Bucket. It calls Ping to validate the bucket
// before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "minio store bucket is empty")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client, bucket: cfg.Bucket}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// --- filestore.Store implementation ---

// Ping verifies the bucket exists and is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return mapError(err, "ping failed")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket does not exist: "+d.bucket)
	}
	return nil
}

// Close is a no-op — the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// List returns every object under prefix, recursively.
func (d *Driver) List(ctx context.Context, prefix string) ([]filestore.FileInfo, error) {
	opts := miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	var files []filestore.FileInfo
	for obj := range d.client.ListObjects(ctx, d.bucket, opts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}
		files = append(files, filestore.FileInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return files, nil
}

// Open returns a streaming handle to the object at key.
// The caller MUST call Close() after reading.
func (d *Driver) Open(ctx context.Context, key string) (filestore.File, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, mapError(err, "failed to stat object after get")
	}

	return &file{
		ReadCloser: obj,
		info: &filestore.FileInfo{
			Key:          key,
			Size:         stat.Size,
			LastModified: stat.LastModified,
		},
	}, nil
}

// Stat returns metadata for the object at key without downloading it.
func (d *Driver) Stat(ctx context.Context, key string) (*filestore.FileInfo, error) {
	stat, err := d.client.StatObject(ctx, d.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to stat object")
	}

	return &filestore.FileInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		LastModified: stat.LastModified,
	}, nil
}

// --- internal types ---

// file wraps a MinIO GetObject response and exposes filestore.File.
type file struct {
	io.ReadCloser
	info *filestore.FileInfo
}

func (f *file) Info() *filestore.FileInfo {
	return f.info
}
