package repository

import (
	"context"
	"errors"

	"warbler/internal/domain/entity"
)

// ErrDuplicateUsername is returned by Create when another profile already
// holds the username (unique-index violation).
var ErrDuplicateUsername = errors.New("username already taken")

// UserRepository defines profile-directory and social-graph operations
// against the document store.
type UserRepository interface {
	Create(ctx context.Context, u *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	GetByUsername(ctx context.Context, username string) (*entity.UserProfile, error)
	SetProfileImagePath(ctx context.Context, id, path string) error

	// SearchByUsernamePrefix returns profiles whose username starts with
	// prefix, ascending by username. An empty prefix lists the whole
	// directory.
	SearchByUsernamePrefix(ctx context.Context, prefix string) ([]*entity.UserProfile, error)

	// AddFollow and RemoveFollow update both sides of the edge atomically.
	// Set semantics make both idempotent.
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
}
