package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
)

// In-memory repository implementations backing tests and local development.
// They honor the same contracts as the pg implementations, including the
// uniqueness rules the database would enforce.

var (
	_ UserRepository    = (*MemUserRepository)(nil)
	_ SessionRepository = (*MemSessionRepository)(nil)
	_ FollowRepository  = (*MemFollowRepository)(nil)
	_ PostRepository    = (*MemPostRepository)(nil)
	_ MediaRepository   = (*MemMediaRepository)(nil)
)

type MemUserRepository struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*model.User

	// Follows, when set, lets ListRandomProfiles exclude followed users.
	Follows *MemFollowRepository
}

func NewMemUserRepository() *MemUserRepository {
	return &MemUserRepository{users: make(map[int64]*model.User)}
}

func (r *MemUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || u.Name == user.Name {
			return fmt.Errorf("user with given email or name already exists: %w", common.ErrConflict)
		}
	}

	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemUserRepository) UpdateProfile(_ context.Context, id int64, upd ProfileUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.Name != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Name == *upd.Name {
				return nil, fmt.Errorf("name already taken: %w", common.ErrConflict)
			}
		}
		u.Name = *upd.Name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Contact != nil {
		u.Contact = *upd.Contact
	}
	if upd.PicID != nil {
		pic := *upd.PicID
		u.PicID = &pic
	}
	if upd.Onboarded != nil {
		u.Onboarded = *upd.Onboarded
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *MemUserRepository) GetProfile(_ context.Context, id int64) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.Profile{ID: u.ID, Name: u.Name, Bio: u.Bio, Contact: u.Contact}, nil
}

func (r *MemUserRepository) ListRandomProfiles(ctx context.Context, viewerID *int64, limit int) ([]model.Profile, error) {
	excluded := map[int64]bool{}
	if viewerID != nil {
		excluded[*viewerID] = true
		if r.Follows != nil {
			for _, id := range r.Follows.followingIDs(*viewerID) {
				excluded[id] = true
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		if !excluded[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	profiles := []model.Profile{}
	for _, id := range ids {
		if len(profiles) >= limit {
			break
		}
		u := r.users[id]
		profiles = append(profiles, model.Profile{ID: u.ID, Name: u.Name, Bio: u.Bio})
	}
	return profiles, nil
}

type MemSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewMemSessionRepository() *MemSessionRepository {
	return &MemSessionRepository{sessions: make(map[string]*model.Session)}
}

func (r *MemSessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.sessions[s.Token] = &cp
	return nil
}

func (r *MemSessionRepository) FindByToken(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemSessionRepository) Invalidate(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[token]; ok {
		s.Invalidated = true
	}
	return nil
}

func (r *MemSessionRepository) Rotate(_ context.Context, oldToken string, replacement *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *replacement
	r.sessions[replacement.Token] = &cp
	if s, ok := r.sessions[oldToken]; ok {
		s.Invalidated = true
	}
	return nil
}

func (r *MemSessionRepository) MarkExpiredInvalidated(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.sessions {
		if !s.Invalidated && !s.ExpiresAt.After(now) {
			s.Invalidated = true
			n++
		}
	}
	return n, nil
}

func (r *MemSessionRepository) DeleteInvalidatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, s := range r.sessions {
		if s.Invalidated && s.ExpiresAt.Before(cutoff) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

type MemFollowRepository struct {
	mu    sync.Mutex
	seq   int64
	edges map[[2]int64]*model.Follow

	// Users, when set, fills names on listed profiles.
	Users *MemUserRepository
}

func NewMemFollowRepository() *MemFollowRepository {
	return &MemFollowRepository{edges: make(map[[2]int64]*model.Follow)}
}

func (r *MemFollowRepository) Create(_ context.Context, f *model.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]int64{f.FollowerID, f.FollowingID}
	if _, exists := r.edges[key]; exists {
		return fmt.Errorf("already following this user: %w", common.ErrConflict)
	}

	r.seq++
	f.ID = r.seq
	f.CreatedAt = time.Now()
	cp := *f
	r.edges[key] = &cp
	return nil
}

func (r *MemFollowRepository) Delete(_ context.Context, followerID, followingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.edges, [2]int64{followerID, followingID})
	return nil
}

func (r *MemFollowRepository) ListFollowing(ctx context.Context, userID int64) ([]model.Profile, error) {
	return r.list(ctx, func(f *model.Follow) (int64, bool) {
		return f.FollowingID, f.FollowerID == userID
	})
}

func (r *MemFollowRepository) ListFollowers(ctx context.Context, userID int64) ([]model.Profile, error) {
	return r.list(ctx, func(f *model.Follow) (int64, bool) {
		return f.FollowerID, f.FollowingID == userID
	})
}

func (r *MemFollowRepository) list(ctx context.Context, pick func(*model.Follow) (int64, bool)) ([]model.Profile, error) {
	r.mu.Lock()
	ids := []int64{}
	for _, f := range r.edges {
		if id, ok := pick(f); ok {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	profiles := []model.Profile{}
	for _, id := range ids {
		p := model.Profile{ID: id}
		if r.Users != nil {
			if u, err := r.Users.FindByID(ctx, id); err == nil {
				p.Name = u.Name
				p.Bio = u.Bio
			}
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *MemFollowRepository) followingIDs(userID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := []int64{}
	for _, f := range r.edges {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids
}

// EdgeCount reports the number of stored follow edges.
func (r *MemFollowRepository) EdgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

type MemPostRepository struct {
	mu    sync.Mutex
	seq   int64
	posts []*model.Post
}

func NewMemPostRepository() *MemPostRepository {
	return &MemPostRepository{}
}

func (r *MemPostRepository) Create(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	p.ID = r.seq
	p.CreatedAt = time.Now()
	cp := *p
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *MemPostRepository) FindByID(_ context.Context, id int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemPostRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *MemPostRepository) ListFeed(_ context.Context, typeFilter *model.PostType, limit, offset int) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []model.Post{}
	// Newest first.
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if typeFilter != nil && p.Type != *typeFilter {
			continue
		}
		matched = append(matched, *p)
	}
	return page(matched, limit, offset), nil
}

func (r *MemPostRepository) ListByUser(_ context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []model.Post{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if p.UserID == userID {
			matched = append(matched, *p)
		}
	}
	return page(matched, limit, offset), nil
}

func page(posts []model.Post, limit, offset int) []model.Post {
	if offset >= len(posts) {
		return []model.Post{}
	}
	posts = posts[offset:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

type MemMediaRepository struct {
	mu    sync.Mutex
	seq   int64
	media map[int64]*model.Media
}

func NewMemMediaRepository() *MemMediaRepository {
	return &MemMediaRepository{media: make(map[int64]*model.Media)}
}

func (r *MemMediaRepository) Create(_ context.Context, m *model.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	m.ID = r.seq
	m.CreatedAt = time.Now()
	cp := *m
	r.media[m.ID] = &cp
	return nil
}

func (r *MemMediaRepository) FindByID(_ context.Context, id int64) (*model.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.media[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *m
	return &cp, nil
}
