// Package gcs implements the blob-resolver contract against Google Cloud
// Storage. Objects are addressed by key only; no directory-marker objects
// are created.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"warbler/internal/apperrors"
	"warbler/internal/application"
)

type Resolver struct {
	client *storage.Client
	bucket string
}

func NewResolver(client *storage.Client, bucket string) *Resolver {
	return &Resolver{client: client, bucket: bucket}
}

// Store writes the object at path, replacing any existing content.
func (r *Resolver) Store(ctx context.Context, path, contentType string, src io.Reader) error {
	wc := r.client.Bucket(r.bucket).Object(path).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, src); err != nil {
		_ = wc.Close()
		return apperrors.External("gcs", err)
	}
	if err := wc.Close(); err != nil {
		return apperrors.External("gcs", err)
	}
	return nil
}

// Delete removes the object at path. A missing object is not an error.
func (r *Resolver) Delete(ctx context.Context, path string) error {
	err := r.client.Bucket(r.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return apperrors.External("gcs", err)
	}
	return nil
}

// DeletePrefix removes every object under prefix.
func (r *Resolver) DeletePrefix(ctx context.Context, prefix string) error {
	bkt := r.client.Bucket(r.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return apperrors.External("gcs", err)
		}
		if err := bkt.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return apperrors.External("gcs", err)
		}
	}
}

// ResolvePublicURL returns the public URL for path, or "" when no blob
// exists there.
func (r *Resolver) ResolvePublicURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	_, err := r.client.Bucket(r.bucket).Object(path).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.External("gcs", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", r.bucket, path), nil
}

var _ application.BlobResolver = (*Resolver)(nil)
