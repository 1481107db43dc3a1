package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
)

// DefaultListLimit bounds per-user post listings on profile pages; timeline
// sources use the configured window instead.
const DefaultListLimit = 10

// PostService is the post store: create, edit, delete, list, and per-user
// text search.
type PostService struct {
	Posts  repository.PostRepository
	Users  repository.UserRepository
	Blobs  BlobResolver
	Logger *logrus.Logger

	// Now stamps CreatedAt; the server clock, never client input.
	Now func() time.Time
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, blobs BlobResolver, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Blobs: blobs, Logger: logger, Now: time.Now}
}

func postImagePath(ownerID, postID, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s", PostImagePrefix, ownerID, postID, filepath.Base(filename))
}

func postImageDir(ownerID, postID string) string {
	return fmt.Sprintf("%s/%s/%s/", PostImagePrefix, ownerID, postID)
}

// Create persists a new post owned by ownerID. The author's current
// username and email are denormalized onto the record; the image, when
// present, is stored under tweetImages/{owner}/{post}/{filename}.
func (s *PostService) Create(ctx context.Context, ownerID, text string, img *ImageUpload) (*entity.Post, error) {
	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p := &entity.Post{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		Text:           text,
		AuthorUsername: owner.Username,
		AuthorEmail:    owner.Email,
		CreatedAt:      s.Now().UTC(),
	}

	if img != nil {
		path := postImagePath(ownerID, p.ID.Hex(), img.Filename)
		if err := s.Blobs.Store(ctx, path, img.ContentType, img.Reader); err != nil {
			return nil, err
		}
		p.ImagePath = path
	}

	if err := s.Posts.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"owner": ownerID, "post": p.ID.Hex()}).Debug("post created")
	return p, nil
}

// Edit replaces the post's text and, when a new image is supplied, replaces
// the stored image at the same namespaced path. CreatedAt and ownership are
// untouched. Returns ErrNotFound when no such post exists under ownerID.
func (s *PostService) Edit(ctx context.Context, ownerID, postID, newText string, img *ImageUpload) (*entity.Post, error) {
	p, err := s.Posts.Get(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}

	p.Text = newText
	if img != nil {
		path := postImagePath(ownerID, postID, img.Filename)
		if err := s.Blobs.Store(ctx, path, img.ContentType, img.Reader); err != nil {
			return nil, err
		}
		if p.ImagePath != "" && p.ImagePath != path {
			// Renamed upload; drop the superseded blob.
			if err := s.Blobs.Delete(ctx, p.ImagePath); err != nil {
				s.Logger.WithError(err).WithField("path", p.ImagePath).Warn("stale post image not deleted")
			}
		}
		p.ImagePath = path
	}

	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the post record and every blob under its image prefix.
// Returns ErrNotFound when the post is already gone, so a second delete of
// the same id fails.
func (s *PostService) Delete(ctx context.Context, ownerID, postID string) error {
	if _, err := s.Posts.Get(ctx, ownerID, postID); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, ownerID, postID); err != nil {
		return err
	}
	// The record is gone; blob cleanup failure is logged, not surfaced.
	if err := s.Blobs.DeletePrefix(ctx, postImageDir(ownerID, postID)); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"owner": ownerID, "post": postID}).Warn("post image cleanup failed")
	}
	return nil
}

// ListRecent returns up to limit posts by ownerID, newest first.
func (s *PostService) ListRecent(ctx context.Context, ownerID string, limit int) ([]*entity.Post, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.Posts.ListRecent(ctx, ownerID, limit)
}

// SearchText returns ownerID's posts whose text matches the lowercased
// query as a prefix.
func (s *PostService) SearchText(ctx context.Context, ownerID, query string) ([]*entity.Post, error) {
	return s.Posts.SearchTextPrefix(ctx, ownerID, strings.ToLower(strings.TrimSpace(query)))
}
