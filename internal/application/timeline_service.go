package application

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
)

const (
	// DefaultTimelineWindow is both the per-source fetch limit and the
	// merged feed cap. The feed is a best-effort recent window: a source
	// with more than this many posts contributes only its newest window.
	DefaultTimelineWindow = 20

	// DefaultFetchConcurrency bounds the parallel per-followee fetches.
	DefaultFetchConcurrency = 8
)

// TimelineEntry pairs a post with the resolved public URL of its own image,
// "" when the post has none.
type TimelineEntry struct {
	Post     *entity.Post
	ImageURL string
}

// TimelineService merges a user's own posts with those of everyone they
// follow into one chronologically descending feed.
type TimelineService struct {
	Users  repository.UserRepository
	Posts  repository.PostRepository
	Blobs  BlobResolver
	Logger *logrus.Logger

	Window           int
	FetchConcurrency int
}

func NewTimelineService(users repository.UserRepository, posts repository.PostRepository, blobs BlobResolver, logger *logrus.Logger, window, fetchConcurrency int) *TimelineService {
	if window <= 0 {
		window = DefaultTimelineWindow
	}
	if fetchConcurrency <= 0 {
		fetchConcurrency = DefaultFetchConcurrency
	}
	return &TimelineService{
		Users:            users,
		Posts:            posts,
		Blobs:            blobs,
		Logger:           logger,
		Window:           window,
		FetchConcurrency: fetchConcurrency,
	}
}

// Timeline builds the merged feed for userID:
//
//  1. the user's own newest posts, up to the window;
//  2. for each followee, their newest posts up to the window, fetched
//     concurrently (fetch order does not affect the merge);
//  3. one stable sort, descending by CreatedAt with post id descending as
//     tie-break, truncated to the window.
//
// Each entry then resolves its own image path to a public URL; an entry
// without an image resolves to "".
func (s *TimelineService) Timeline(ctx context.Context, userID string) ([]TimelineEntry, error) {
	viewer, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	own, err := s.Posts.ListRecent(ctx, userID, s.Window)
	if err != nil {
		return nil, err
	}

	followed, err := s.fetchFollowed(ctx, viewer.Followings)
	if err != nil {
		return nil, err
	}

	merged := make([]*entity.Post, 0, len(own)+len(followed))
	merged = append(merged, own...)
	merged = append(merged, followed...)

	sortPostsDescending(merged)
	if len(merged) > s.Window {
		merged = merged[:s.Window]
	}

	entries := make([]TimelineEntry, 0, len(merged))
	for _, p := range merged {
		url, err := s.Blobs.ResolvePublicURL(ctx, p.ImagePath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TimelineEntry{Post: p, ImageURL: url})
	}

	s.Logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"followings": len(viewer.Followings),
		"entries":    len(entries),
	}).Debug("timeline built")
	return entries, nil
}

// fetchFollowed loads each followee's recent window with bounded
// concurrency. Results keep one slot per followee so no locking is needed;
// ordering is irrelevant to the caller's sort.
func (s *TimelineService) fetchFollowed(ctx context.Context, followings []string) ([]*entity.Post, error) {
	if len(followings) == 0 {
		return nil, nil
	}

	results := make([][]*entity.Post, len(followings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.FetchConcurrency)

	for i, followeeID := range followings {
		i, followeeID := i, followeeID
		g.Go(func() error {
			posts, err := s.Posts.ListRecent(gctx, followeeID, s.Window)
			if err != nil {
				return err
			}
			results[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*entity.Post
	for _, posts := range results {
		out = append(out, posts...)
	}
	return out, nil
}

// sortPostsDescending orders newest first; equal timestamps fall back to
// post id descending so the ordering is deterministic.
func sortPostsDescending(posts []*entity.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].CreatedAt, posts[j].CreatedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
}
