// Package moderation applies approve/reject transitions, filters post lists
// by status, and enforces that only moderator and admin roles may invoke
// transitions.
//
// The status machine has no terminal state: either action may be issued from
// any status, and a rejected post can be re-approved. The server's echoed
// status is authoritative; it is never assumed from the requested action.
package moderation

import (
	"context"

	"campushub/internal/gateway"
	"campushub/internal/models"
	"campushub/internal/observability"
	"campushub/internal/session"
	"campushub/internal/store"
)

// StatusFilter selects posts by moderation status in list views.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterPending  StatusFilter = "pending"
	FilterApproved StatusFilter = "approved"
	FilterRejected StatusFilter = "rejected"
)

// Engine drives moderation transitions against the post store.
type Engine struct {
	gw    gateway.Gateway
	store *store.Store
	sess  *session.Session
}

// NewEngine returns a moderation engine bound to the given session.
func NewEngine(gw gateway.Gateway, st *store.Store, sess *session.Session) *Engine {
	return &Engine{gw: gw, store: st, sess: sess}
}

// Moderate sends an explicit approve/reject action for a post. Callers
// without the moderator or admin role are refused before the gateway is
// contacted. On success the store record's status is overwritten with the
// status the gateway echoed back, covering the case where the server refuses
// the transition for reasons not visible to the client.
func (m *Engine) Moderate(ctx context.Context, postID uint, action gateway.ModerateAction) (models.Post, error) {
	if !m.sess.CanModerate() {
		return models.Post{}, models.NewUnauthorizedError("Only moderators can moderate posts")
	}
	if _, ok := m.store.Get(postID); !ok {
		return models.Post{}, models.NewNotFoundError("Post", postID)
	}

	updated, err := m.gw.ModeratePost(ctx, postID, action)
	if err != nil {
		return models.Post{}, err
	}

	status := models.NormalizeStatus(string(updated.Status))
	observability.ModerationActionsTotal.WithLabelValues(string(action), string(status)).Inc()

	if !m.store.SetStatus(postID, status) {
		return models.Post{}, models.NewNotFoundError("Post", postID)
	}
	post, _ := m.store.Get(postID)
	return post, nil
}

// PendingQueue fetches the awaiting-moderation listing directly from the
// gateway. This is an independent data path from the generic listing, not a
// client-side filter of it. Results are merged into the store.
func (m *Engine) PendingQueue(ctx context.Context) ([]models.Post, error) {
	if !m.sess.CanModerate() {
		return nil, models.NewUnauthorizedError("Only moderators can view the moderation queue")
	}

	posts, err := m.gw.ListPendingPosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Status = models.NormalizeStatus(string(posts[i].Status))
		m.store.Upsert(posts[i])
	}
	return posts, nil
}

// FilterByStatus returns the posts whose status matches f, preserving the
// original relative order. FilterAll returns the input set.
func FilterByStatus(posts []models.Post, f StatusFilter) []models.Post {
	if f == FilterAll || f == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if models.NormalizeStatus(string(p.Status)) == models.PostStatus(f) {
			out = append(out, p)
		}
	}
	return out
}
