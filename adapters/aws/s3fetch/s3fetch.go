// Package s3fetch downloads documents from S3 to local temp files so
// the PDF and image loaders, which need paths for the external
// tooling, can ingest remote objects.
package s3fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type Fetcher struct {
	client *s3.Client
	bucket string
}

// New creates a fetcher bound to one bucket.
func New(client *s3.Client, bucket string) *Fetcher {
	return &Fetcher{client: client, bucket: bucket}
}

// Bucket returns the bucket this fetcher reads from.
func (f *Fetcher) Bucket() string {
	return f.bucket
}

// Fetch downloads the object to a temp file that keeps the key's
// extension, so downstream format dispatch still works. The caller
// owns the returned path and removes it via the cleanup func.
func (f *Fetcher) Fetch(ctx context.Context, key string) (string, func(), error) {
	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, errors.Wrapf(err, "failed to get s3://%s/%s", f.bucket, key)
	}
	defer result.Body.Close()

	tmp, err := os.CreateTemp("", "s3fetch_*"+filepath.Ext(key))
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temp file")
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, result.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, errors.Wrapf(err, "failed to download s3://%s/%s", f.bucket, key)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "failed to flush temp file")
	}

	return tmp.Name(), cleanup, nil
}

// List returns the object keys under prefix.
func (f *Fetcher) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(f.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list s3://%s/%s", f.bucket, prefix)
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}
