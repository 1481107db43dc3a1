// Package apptest provides in-memory doubles for the repository and
// blob-store collaborators, mirroring the semantics of the mongodb and gcs
// implementations. Test support only.
package apptest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"warbler/internal/apperrors"
	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
)

// MemUserRepo is an in-memory UserRepository: unique usernames, set-valued
// follow edges, ErrNotFound for missing profiles.
type MemUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.UserProfile
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[string]*entity.UserProfile)}
}

func (r *MemUserRepo) Create(_ context.Context, u *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemUserRepo) GetByID(_ context.Context, id string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemUserRepo) GetByUsername(_ context.Context, username string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemUserRepo) SetProfileImagePath(_ context.Context, id, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.ProfileImagePath = path
	return nil
}

func (r *MemUserRepo) SearchByUsernamePrefix(_ context.Context, prefix string) ([]*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.UserProfile
	for _, u := range r.users {
		if strings.HasPrefix(u.Username, prefix) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *MemUserRepo) AddFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok := r.users[followerID]
	if !ok {
		return apperrors.ErrNotFound
	}
	followee, ok := r.users[followeeID]
	if !ok {
		return apperrors.ErrNotFound
	}
	follower.Followings = addToSet(follower.Followings, followeeID)
	followee.Followers = addToSet(followee.Followers, followerID)
	return nil
}

func (r *MemUserRepo) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok := r.users[followerID]
	if !ok {
		return apperrors.ErrNotFound
	}
	followee, ok := r.users[followeeID]
	if !ok {
		return apperrors.ErrNotFound
	}
	follower.Followings = removeFromSet(follower.Followings, followeeID)
	followee.Followers = removeFromSet(followee.Followers, followerID)
	return nil
}

func addToSet(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func removeFromSet(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

// MemPostRepo is an in-memory PostRepository. Owner-scoped; ListRecent sorts
// newest first with post id descending as tie-break.
type MemPostRepo struct {
	mu    sync.Mutex
	posts map[string]map[string]*entity.Post // ownerID -> postID hex -> post
}

func NewMemPostRepo() *MemPostRepo {
	return &MemPostRepo{posts: make(map[string]map[string]*entity.Post)}
}

func (r *MemPostRepo) Insert(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.posts[p.OwnerID] == nil {
		r.posts[p.OwnerID] = make(map[string]*entity.Post)
	}
	cp := *p
	r.posts[p.OwnerID][p.ID.Hex()] = &cp
	return nil
}

func (r *MemPostRepo) Get(_ context.Context, ownerID, postID string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[ownerID][postID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemPostRepo) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.OwnerID][p.ID.Hex()]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *p
	r.posts[p.OwnerID][p.ID.Hex()] = &cp
	return nil
}

func (r *MemPostRepo) Delete(_ context.Context, ownerID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[ownerID][postID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.posts[ownerID], postID)
	return nil
}

func (r *MemPostRepo) ListRecent(_ context.Context, ownerID string, limit int) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Post
	for _, p := range r.posts[ownerID] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemPostRepo) SearchTextPrefix(_ context.Context, ownerID, prefix string) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Post
	for _, p := range r.posts[ownerID] {
		if strings.HasPrefix(p.Text, prefix) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

// MemBlobs is an in-memory blob store. URLs are deterministic from paths;
// resolving a missing or empty path yields "".
type MemBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemBlobs() *MemBlobs {
	return &MemBlobs{objects: make(map[string][]byte)}
}

func (b *MemBlobs) Store(_ context.Context, path, _ string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = data
	return nil
}

func (b *MemBlobs) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	return nil
}

func (b *MemBlobs) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for path := range b.objects {
		if strings.HasPrefix(path, prefix) {
			delete(b.objects, path)
		}
	}
	return nil
}

func (b *MemBlobs) ResolvePublicURL(_ context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[path]; !ok {
		return "", nil
	}
	return fmt.Sprintf("https://blobs.test/%s", path), nil
}

// Has reports whether an object exists at path.
func (b *MemBlobs) Has(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[path]
	return ok
}

var (
	_ repository.UserRepository = (*MemUserRepo)(nil)
	_ repository.PostRepository = (*MemPostRepo)(nil)
)
