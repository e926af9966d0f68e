// Package engagement applies like toggles and comment creation against the
// post store, optimistically updating counters and reconciling them with the
// gateway's authoritative response.
package engagement

import (
	"context"
	"strings"

	"campushub/internal/gateway"
	"campushub/internal/models"
	"campushub/internal/observability"
	"campushub/internal/session"
	"campushub/internal/store"
)

// Engine mutates the post store through the gateway.
type Engine struct {
	gw    gateway.Gateway
	store *store.Store
	sess  *session.Session
}

// NewEngine returns an engagement engine bound to the given session.
func NewEngine(gw gateway.Gateway, st *store.Store, sess *session.Session) *Engine {
	return &Engine{gw: gw, store: st, sess: sess}
}

// ToggleLike flips the viewer's like on a post. The action sent is the
// opposite of the post's current per-viewer flag, so two successful calls in
// sequence restore the original state. The flag is flipped locally before the
// gateway call and then reconciled to whatever the server reports; on failure
// the pre-toggle snapshot is restored and the error surfaces to the caller.
func (e *Engine) ToggleLike(ctx context.Context, postID uint) (models.Post, error) {
	if !e.sess.Authenticated() {
		return models.Post{}, models.NewUnauthorizedError("Sign in to like posts")
	}

	snapshot, ok := e.store.Get(postID)
	if !ok {
		return models.Post{}, models.NewNotFoundError("Post", postID)
	}

	action := gateway.ActionLike
	if snapshot.IsLiked {
		action = gateway.ActionDislike
	}

	// Optimistic flip; the response below is the value of record.
	guess := snapshot.LikeCount
	if action == gateway.ActionLike {
		guess++
	} else if guess > 0 {
		guess--
	}
	e.store.SetLike(postID, !snapshot.IsLiked, &guess)

	result, err := e.gw.LikePost(ctx, postID, action)
	if err != nil {
		e.store.SetLike(postID, snapshot.IsLiked, &snapshot.LikeCount)
		return models.Post{}, err
	}

	observability.LikeTogglesTotal.WithLabelValues(string(action)).Inc()

	// The post may have left the store while the request was in flight
	// (navigation away, refetch). Discard the response instead of applying
	// it to a stale view.
	if !e.store.SetLike(postID, result.IsLiked, result.LikeCount) {
		return models.Post{}, models.NewNotFoundError("Post", postID)
	}
	post, _ := e.store.Get(postID)
	return post, nil
}

// AddComment creates a comment on a post and returns the refetched comment
// list, guaranteeing the caller sees server ordering rather than a local
// append. Whitespace-only content is rejected locally without a network
// call. On failure nothing is mutated, so the caller's input buffer survives
// for a retry.
func (e *Engine) AddComment(ctx context.Context, postID uint, content string) ([]models.Comment, error) {
	if !e.sess.Authenticated() {
		return nil, models.NewUnauthorizedError("Sign in to comment")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if _, ok := e.store.Get(postID); !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if _, err := e.gw.CreateComment(ctx, postID, content); err != nil {
		return nil, err
	}

	return e.gw.ListComments(ctx, postID)
}

// Comments fetches the comment list for a post in server order. The client
// never re-sorts it.
func (e *Engine) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return e.gw.ListComments(ctx, postID)
}
