package application

import (
	"context"
	"io"
)

// Blob path conventions, shared with the external object store.
const (
	ProfileImagePrefix = "profileImages"
	PostImagePrefix    = "tweetImages"
)

// BlobResolver is the external blob-store collaborator. Store overwrites any
// existing object at path; ResolvePublicURL returns "" when no blob exists.
type BlobResolver interface {
	Store(ctx context.Context, path, contentType string, r io.Reader) error
	Delete(ctx context.Context, path string) error
	DeletePrefix(ctx context.Context, prefix string) error
	ResolvePublicURL(ctx context.Context, path string) (string, error)
}
