package repository

import (
	"context"

	"warbler/internal/domain/entity"
)

// PostRepository defines per-user post collection operations.
// Posts are owned exclusively by one profile; every lookup is owner-scoped.
type PostRepository interface {
	Insert(ctx context.Context, p *entity.Post) error
	Get(ctx context.Context, ownerID, postID string) (*entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, ownerID, postID string) error

	// ListRecent returns up to limit posts, descending by creation time.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*entity.Post, error)

	// SearchTextPrefix returns the owner's posts whose text starts with
	// prefix.
	SearchTextPrefix(ctx context.Context, ownerID, prefix string) ([]*entity.Post, error)
}
