package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"warbler/internal/apperrors"
	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
	"warbler/pkg/identity"
)

// UserService covers the user directory and the social graph.
type UserService struct {
	Repo   repository.UserRepository
	Blobs  BlobResolver
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, blobs BlobResolver, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Blobs: blobs, Logger: logger}
}

// DeriveUsername maps an identity email to the directory username: the
// local part, lowercased. Derived once at profile creation; immutable after.
func DeriveUsername(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	return strings.ToLower(local)
}

// ResolveOrCreate returns the profile for an authenticated identity,
// creating it on first sight. Idempotent: repeated calls with the same
// identity return the same profile and never overwrite set fields. The
// unique username index makes the lookup-then-insert race safe; the loser
// re-reads the winning document.
func (s *UserService) ResolveOrCreate(ctx context.Context, claims *identity.Claims) (*entity.UserProfile, error) {
	username := DeriveUsername(claims.Email)

	u, err := s.Repo.GetByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	u = &entity.UserProfile{
		ID:         claims.UserID,
		Username:   username,
		Email:      claims.Email,
		Followers:  []string{},
		Followings: []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return s.Repo.GetByUsername(ctx, username)
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("profile created")
	return u, nil
}

// Get returns the profile with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*entity.UserProfile, error) {
	return s.Repo.GetByID(ctx, id)
}

// Search returns profiles matching the lowercased query as a username
// prefix, ascending by username. An empty query lists the directory.
func (s *UserService) Search(ctx context.Context, query string) ([]*entity.UserProfile, error) {
	return s.Repo.SearchByUsernamePrefix(ctx, strings.ToLower(strings.TrimSpace(query)))
}

// Follow adds the edge follower -> followee on both profiles. Both ids must
// reference existing profiles or ErrNotFound is returned. Following twice
// is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := s.Repo.AddFollow(ctx, followerID, followeeID); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"follower": followerID, "followee": followeeID}).Debug("follow edge added")
	return nil
}

// Unfollow removes the edge on both profiles. Unfollowing a non-followed
// user is a no-op.
func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := s.Repo.RemoveFollow(ctx, followerID, followeeID); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"follower": followerID, "followee": followeeID}).Debug("follow edge removed")
	return nil
}

// IsFollowing tests membership in the viewer's followings set.
func (s *UserService) IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error) {
	u, err := s.Repo.GetByID(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return u.IsFollowing(targetID), nil
}

// ProfileView is the /profile page model: the profile plus resolved
// usernames for both edge sets and the public profile-image URL.
type ProfileView struct {
	Profile        *entity.UserProfile
	FollowerNames  []string
	FollowingNames []string
	ImageURL       string
}

func (s *UserService) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: u}
	view.FollowerNames, err = s.usernames(ctx, u.Followers)
	if err != nil {
		return nil, err
	}
	view.FollowingNames, err = s.usernames(ctx, u.Followings)
	if err != nil {
		return nil, err
	}

	view.ImageURL, err = s.Blobs.ResolvePublicURL(ctx, u.ProfileImagePath)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *UserService) usernames(ctx context.Context, ids []string) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		u, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		names = append(names, u.Username)
	}
	return names, nil
}

// SetProfileImage stores the image under profileImages/{userID}/{filename}
// and records the path on the profile.
func (s *UserService) SetProfileImage(ctx context.Context, userID string, img *ImageUpload) (string, error) {
	path := fmt.Sprintf("%s/%s/%s", ProfileImagePrefix, userID, filepath.Base(img.Filename))
	if err := s.Blobs.Store(ctx, path, img.ContentType, img.Reader); err != nil {
		return "", err
	}
	if err := s.Repo.SetProfileImagePath(ctx, userID, path); err != nil {
		return "", err
	}
	return path, nil
}

// ImageUpload carries a multipart image file into the services.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}
