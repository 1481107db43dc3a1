package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/apperrors"
	"warbler/internal/application/apptest"
	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
	"warbler/pkg/identity"
)

func newUserService() (*UserService, *apptest.MemUserRepo, *apptest.MemBlobs) {
	users := newMemUserRepo()
	blobs := newMemBlobs()
	return NewUserService(users, blobs, testLogger()), users, blobs
}

func seedUser(t *testing.T, repo *apptest.MemUserRepo, id, username string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.UserProfile{
		ID:         id,
		Username:   username,
		Email:      username + "@example.com",
		Followers:  []string{},
		Followings: []string{},
	}))
}

func TestDeriveUsername(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice"},
		{"Alice.Smith@example.com", "alice.smith"},
		{"BOB@corp.example", "bob"},
		{"noatsign", "noatsign"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveUsername(tc.email), tc.email)
	}
}

func TestResolveOrCreateFirstSight(t *testing.T) {
	svc, _, _ := newUserService()

	u, err := svc.ResolveOrCreate(context.Background(), &identity.Claims{UserID: "uid-1", Email: "Alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice@example.com", u.Email)
	assert.Empty(t, u.Followers)
	assert.Empty(t, u.Followings)
}

func TestResolveOrCreateIdempotent(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	claims := &identity.Claims{UserID: "uid-1", Email: "alice@example.com"}

	first, err := svc.ResolveOrCreate(ctx, claims)
	require.NoError(t, err)

	// Follow state accrued between visits must survive re-resolution.
	seedUser(t, users, "uid-2", "bob")
	require.NoError(t, users.AddFollow(ctx, "uid-1", "uid-2"))

	second, err := svc.ResolveOrCreate(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"uid-2"}, second.Followings)
}

// raceUserRepo simulates two concurrent first-sight resolutions: the first
// GetByUsername misses, then the insert collides with the winner's document.
type raceUserRepo struct {
	*apptest.MemUserRepo
	missed bool
}

func (r *raceUserRepo) GetByUsername(ctx context.Context, username string) (*entity.UserProfile, error) {
	if !r.missed {
		r.missed = true
		return nil, apperrors.ErrNotFound
	}
	return r.MemUserRepo.GetByUsername(ctx, username)
}

func TestResolveOrCreateLosesCreationRace(t *testing.T) {
	inner := newMemUserRepo()
	seedUser(t, inner, "uid-winner", "alice")

	svc := NewUserService(&raceUserRepo{MemUserRepo: inner}, newMemBlobs(), testLogger())
	u, err := svc.ResolveOrCreate(context.Background(), &identity.Claims{UserID: "uid-loser", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "uid-winner", u.ID, "loser must adopt the winning profile")

	_, err = inner.GetByID(context.Background(), "uid-loser")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "no second profile may exist")
}

func TestFollowAndUnfollow(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	seedUser(t, users, "a", "alice")
	seedUser(t, users, "b", "bob")

	require.NoError(t, svc.Follow(ctx, "a", "b"))
	// Idempotent.
	require.NoError(t, svc.Follow(ctx, "a", "b"))

	a, err := users.GetByID(ctx, "a")
	require.NoError(t, err)
	b, err := users.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, a.Followings)
	assert.Equal(t, []string{"a"}, b.Followers)

	following, err := svc.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, svc.Unfollow(ctx, "a", "b"))
	// Unfollowing again is a no-op.
	require.NoError(t, svc.Unfollow(ctx, "a", "b"))

	a, err = users.GetByID(ctx, "a")
	require.NoError(t, err)
	b, err = users.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, a.Followings)
	assert.Empty(t, b.Followers)
}

func TestFollowUnknownUser(t *testing.T) {
	svc, users, _ := newUserService()
	seedUser(t, users, "a", "alice")

	err := svc.Follow(context.Background(), "a", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.Follow(context.Background(), "ghost", "a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchUsernamePrefix(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	seedUser(t, users, "1", "albert")
	seedUser(t, users, "2", "alice")
	seedUser(t, users, "3", "bob")

	got, err := svc.Search(ctx, "al")
	require.NoError(t, err)
	names := usernamesOf(got)
	assert.Equal(t, []string{"albert", "alice"}, names)

	// Query normalization: case and surrounding whitespace are ignored.
	got, err = svc.Search(ctx, "  AL ")
	require.NoError(t, err)
	assert.Equal(t, []string{"albert", "alice"}, usernamesOf(got))

	// Empty query lists the directory.
	got, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"albert", "alice", "bob"}, usernamesOf(got))

	got, err = svc.Search(ctx, "zz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func usernamesOf(users []*entity.UserProfile) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func TestProfileViewResolvesNamesAndImage(t *testing.T) {
	svc, users, blobs := newUserService()
	ctx := context.Background()
	seedUser(t, users, "a", "alice")
	seedUser(t, users, "b", "bob")
	seedUser(t, users, "c", "carol")
	require.NoError(t, users.AddFollow(ctx, "a", "b"))
	require.NoError(t, users.AddFollow(ctx, "c", "a"))

	path := ProfileImagePrefix + "/a/me.png"
	require.NoError(t, blobs.Store(ctx, path, "image/png", strings.NewReader("png")))
	require.NoError(t, users.SetProfileImagePath(ctx, "a", path))

	view, err := svc.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Profile.Username)
	assert.Equal(t, []string{"carol"}, view.FollowerNames)
	assert.Equal(t, []string{"bob"}, view.FollowingNames)
	assert.Equal(t, "https://blobs.test/"+path, view.ImageURL)
}

func TestProfileViewSkipsDanglingEdges(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &entity.UserProfile{
		ID:         "a",
		Username:   "alice",
		Email:      "alice@example.com",
		Followers:  []string{"gone"},
		Followings: []string{},
	}))

	view, err := svc.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, view.FollowerNames)
	assert.Empty(t, view.ImageURL)
}

func TestSetProfileImage(t *testing.T) {
	svc, users, blobs := newUserService()
	ctx := context.Background()
	seedUser(t, users, "a", "alice")

	path, err := svc.SetProfileImage(ctx, "a", &ImageUpload{
		Filename:    "../sneaky/../me.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, ProfileImagePrefix+"/a/me.png", path, "path traversal in the filename must be stripped")
	assert.True(t, blobs.Has(path))

	u, err := users.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, path, u.ProfileImagePath)
}

func TestCreateDuplicateUsernameSurfaces(t *testing.T) {
	users := newMemUserRepo()
	seedUser(t, users, "a", "alice")

	err := users.Create(context.Background(), &entity.UserProfile{ID: "b", Username: "alice"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}
