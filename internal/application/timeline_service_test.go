package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"warbler/internal/apperrors"
	"warbler/internal/application/apptest"
	"warbler/internal/domain/entity"
)

type timelineFixture struct {
	users    *apptest.MemUserRepo
	posts    *apptest.MemPostRepo
	blobs    *apptest.MemBlobs
	timeline *TimelineService
}

func newTimelineFixture(t *testing.T) *timelineFixture {
	t.Helper()
	f := &timelineFixture{
		users: newMemUserRepo(),
		posts: newMemPostRepo(),
		blobs: newMemBlobs(),
	}
	f.timeline = NewTimelineService(f.users, f.posts, f.blobs, testLogger(), 0, 0)
	return f
}

func (f *timelineFixture) addUser(t *testing.T, id, username string, followings ...string) {
	t.Helper()
	err := f.users.Create(context.Background(), &entity.UserProfile{
		ID:         id,
		Username:   username,
		Email:      username + "@example.com",
		Followers:  []string{},
		Followings: append([]string{}, followings...),
	})
	require.NoError(t, err)
}

func (f *timelineFixture) addPost(t *testing.T, ownerID, text string, at time.Time) *entity.Post {
	t.Helper()
	p := &entity.Post{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		Text:           text,
		AuthorUsername: ownerID,
		CreatedAt:      at,
	}
	require.NoError(t, f.posts.Insert(context.Background(), p))
	return p
}

func TestTimelineMergesOwnAndFollowedNewestFirst(t *testing.T) {
	f := newTimelineFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")
	f.addPost(t, "alice", "hello", base.Add(100*time.Second))
	f.addPost(t, "bob", "hi", base.Add(200*time.Second))

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hi", entries[0].Post.Text)
	assert.Equal(t, "hello", entries[1].Post.Text)
}

func TestTimelineExcludesNonFollowed(t *testing.T) {
	f := newTimelineFixture(t)
	now := time.Now().UTC()

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")
	f.addUser(t, "carol", "carol")
	f.addPost(t, "bob", "from bob", now)
	f.addPost(t, "carol", "from carol", now.Add(time.Minute))

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "from bob", entries[0].Post.Text)
}

func TestTimelineCappedAtWindow(t *testing.T) {
	f := newTimelineFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")
	for i := 0; i < 15; i++ {
		f.addPost(t, "alice", fmt.Sprintf("own %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 15; i++ {
		f.addPost(t, "bob", fmt.Sprintf("bob %d", i), base.Add(time.Duration(i)*time.Minute+30*time.Second))
	}

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, entries, DefaultTimelineWindow)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Post.CreatedAt.After(entries[i-1].Post.CreatedAt),
			"entries must be descending by creation time")
	}
}

func TestTimelineAuthorshipProperty(t *testing.T) {
	f := newTimelineFixture(t)
	now := time.Now().UTC()

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")
	f.addUser(t, "carol", "carol")
	f.addPost(t, "alice", "a", now)
	f.addPost(t, "bob", "b", now.Add(time.Second))
	f.addPost(t, "carol", "c", now.Add(2*time.Second))

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	allowed := map[string]bool{"alice": true, "bob": true}
	for _, e := range entries {
		assert.True(t, allowed[e.Post.OwnerID], "unexpected author %s", e.Post.OwnerID)
	}
}

func TestTimelineTieBreakIsDeterministic(t *testing.T) {
	f := newTimelineFixture(t)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")

	lo, err := primitive.ObjectIDFromHex("65000000000000000000000a")
	require.NoError(t, err)
	hi, err := primitive.ObjectIDFromHex("65000000000000000000000b")
	require.NoError(t, err)

	require.NoError(t, f.posts.Insert(context.Background(), &entity.Post{ID: lo, OwnerID: "alice", Text: "low", CreatedAt: at}))
	require.NoError(t, f.posts.Insert(context.Background(), &entity.Post{ID: hi, OwnerID: "bob", Text: "high", CreatedAt: at}))

	for i := 0; i < 5; i++ {
		entries, err := f.timeline.Timeline(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "high", entries[0].Post.Text)
		assert.Equal(t, "low", entries[1].Post.Text)
	}
}

func TestTimelineResolvesImagePerPost(t *testing.T) {
	f := newTimelineFixture(t)
	now := time.Now().UTC()

	f.addUser(t, "alice", "alice", "bob")
	f.addUser(t, "bob", "bob")

	withImage := f.addPost(t, "bob", "picture", now.Add(time.Second))
	imagePath := fmt.Sprintf("%s/bob/%s/cat.png", PostImagePrefix, withImage.ID.Hex())
	require.NoError(t, f.blobs.Store(context.Background(), imagePath, "image/png", strings.NewReader("png")))
	withImage.ImagePath = imagePath
	require.NoError(t, f.posts.Update(context.Background(), withImage))

	f.addPost(t, "alice", "plain", now)

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "picture", entries[0].Post.Text)
	assert.Equal(t, "https://blobs.test/"+imagePath, entries[0].ImageURL)
	assert.Empty(t, entries[1].ImageURL)
}

func TestTimelineUnknownViewer(t *testing.T) {
	f := newTimelineFixture(t)
	_, err := f.timeline.Timeline(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTimelineEmpty(t *testing.T) {
	f := newTimelineFixture(t)
	f.addUser(t, "alice", "alice")

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTimelineManyFollowees(t *testing.T) {
	f := newTimelineFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	followees := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("user-%02d", i)
		followees = append(followees, id)
	}
	f.addUser(t, "alice", "alice", followees...)
	for i, id := range followees {
		f.addUser(t, id, id)
		f.addPost(t, id, fmt.Sprintf("post by %s", id), base.Add(time.Duration(i)*time.Second))
	}

	entries, err := f.timeline.Timeline(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, entries, DefaultTimelineWindow)
	assert.Equal(t, "post by user-24", entries[0].Post.Text)
}
