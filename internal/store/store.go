// Package store is the in-memory cache of fetched posts, keyed by post id.
// It is the single source of truth for the moderation status and like
// counters the UI renders. Records live for the session only: created on
// fetch, mutated by the engagement and moderation engines, discarded on
// refetch. Writes are last-write-wins per id; the mutex only guarantees
// memory safety for concurrent callers.
package store

import (
	"sync"

	"campushub/internal/models"
)

// Store caches posts for the current session.
type Store struct {
	mu    sync.RWMutex
	posts map[uint]models.Post
	order []uint
}

// New returns an empty Store.
func New() *Store {
	return &Store{posts: make(map[uint]models.Post)}
}

// Load replaces the working set with posts, in the given order. Statuses are
// normalized once here, and per-viewer like flags are reset to the values the
// gateway supplied.
func (s *Store) Load(posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = make(map[uint]models.Post, len(posts))
	s.order = s.order[:0]
	for _, p := range posts {
		p.Status = models.NormalizeStatus(string(p.Status))
		if _, seen := s.posts[p.ID]; !seen {
			s.order = append(s.order, p.ID)
		}
		s.posts[p.ID] = p
	}
}

// Get returns the post with the given id.
func (s *Store) Get(id uint) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	return p, ok
}

// Upsert replaces a single record. Fields absent from a partial response
// (zero-valued title, content, image, author, created-at) preserve the prior
// values instead of nulling them. New ids append to the listing order.
func (s *Store) Upsert(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.Status = models.NormalizeStatus(string(post.Status))
	if prev, ok := s.posts[post.ID]; ok {
		if post.Title == "" {
			post.Title = prev.Title
		}
		if post.Content == "" {
			post.Content = prev.Content
		}
		if post.ImageURL == "" {
			post.ImageURL = prev.ImageURL
		}
		if post.Author.ID == 0 && post.AuthorID == 0 {
			post.Author = prev.Author
			post.AuthorID = prev.AuthorID
		}
		if post.CreatedAt.IsZero() {
			post.CreatedAt = prev.CreatedAt
		}
	} else {
		s.order = append(s.order, post.ID)
	}
	s.posts[post.ID] = post
}

// SetLike overwrites the per-viewer like flag and, when the server reported
// one, the aggregate count. A nil likeCount means the count is unknown and
// the cached value stands.
func (s *Store) SetLike(id uint, isLiked bool, likeCount *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	p.IsLiked = isLiked
	if likeCount != nil {
		p.LikeCount = *likeCount
	}
	s.posts[id] = p
	return true
}

// SetStatus overwrites the moderation status with the server's value.
func (s *Store) SetStatus(id uint, status models.PostStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	p.Status = models.NormalizeStatus(string(status))
	s.posts[id] = p
	return true
}

// Remove drops a record, after a delete or when a view navigates away.
func (s *Store) Remove(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return
	}
	delete(s.posts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// List returns all cached posts in load order.
func (s *Store) List() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of cached posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
