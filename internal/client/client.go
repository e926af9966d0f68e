// Package client wires the session, gateway, post store, and the engagement
// and moderation engines into the facade the UI talks to. It owns the one
// engine-independent side effect in the error policy: a SessionExpired
// result from any operation tears the session down.
package client

import (
	"context"
	"fmt"
	"time"

	"campushub/internal/cache"
	"campushub/internal/engagement"
	"campushub/internal/gateway"
	"campushub/internal/models"
	"campushub/internal/moderation"
	"campushub/internal/session"
	"campushub/internal/store"
)

// Client is the entry point of the post lifecycle and engagement subsystem.
type Client struct {
	gw       gateway.Gateway
	sess     *session.Session
	posts    *store.Store
	cacheTTL time.Duration

	Engagement *engagement.Engine
	Moderation *moderation.Engine
}

// Option configures a Client.
type Option func(*Client)

// WithCacheTTL enables the redis feed snapshot cache with the given TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// New returns a Client wired to the given gateway and session.
func New(gw gateway.Gateway, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		gw:    gw,
		sess:  sess,
		posts: store.New(),
	}
	c.Engagement = engagement.NewEngine(gw, c.posts, sess)
	c.Moderation = moderation.NewEngine(gw, c.posts, sess)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the session for capability checks in the UI layer.
func (c *Client) Session() *session.Session {
	return c.sess
}

// Store exposes the post store for read-side rendering.
func (c *Client) Store() *store.Store {
	return c.posts
}

// check applies the session-expiry policy to an operation result.
func (c *Client) check(err error) error {
	if models.IsCode(err, models.CodeSessionExpired) {
		c.sess.End()
	}
	return err
}

// Login signs the viewer in and starts the session. The profile fetch is
// best effort: if it fails the session still starts from the token claims.
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.gw.Login(ctx, gateway.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	if err := c.sess.StartFromToken(token.Access); err != nil {
		return err
	}
	if user, err := c.gw.Me(ctx); err == nil {
		c.sess.Start(token.Access, *user)
	}
	return nil
}

// Logout tears the session down and clears the cached feed.
func (c *Client) Logout() {
	c.sess.End()
	c.posts.Load(nil)
}

// feedCacheKey scopes the snapshot per viewer: the per-viewer like flags in
// a listing must never leak across accounts.
func (c *Client) feedCacheKey() string {
	if user, ok := c.sess.User(); ok {
		return fmt.Sprintf("feed:user:%d", user.ID)
	}
	return "feed:anonymous"
}

// Refresh refetches the full post listing into the store, replacing the
// working set. When the snapshot cache is enabled, a fresh-enough snapshot
// is served from redis instead of the gateway.
func (c *Client) Refresh(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	var err error

	if c.cacheTTL > 0 {
		err = cache.CacheAside(ctx, c.feedCacheKey(), &posts, c.cacheTTL, func() error {
			var ferr error
			posts, ferr = c.gw.ListPosts(ctx)
			return ferr
		})
	} else {
		posts, err = c.gw.ListPosts(ctx)
	}
	if err != nil {
		return nil, c.check(err)
	}

	c.posts.Load(posts)
	return c.posts.List(), nil
}

// Feed returns the cached listing filtered by moderation status, preserving
// load order.
func (c *Client) Feed(f moderation.StatusFilter) []models.Post {
	return moderation.FilterByStatus(c.posts.List(), f)
}

// CreatePost submits a new post and caches the created record. The server
// decides the initial status; a missing one normalizes to pending in the
// store.
func (c *Client) CreatePost(ctx context.Context, in gateway.CreatePostInput) (models.Post, error) {
	if !c.sess.Authenticated() {
		return models.Post{}, models.NewUnauthorizedError("Sign in to post")
	}
	created, err := c.gw.CreatePost(ctx, in)
	if err != nil {
		return models.Post{}, c.check(err)
	}
	c.posts.Upsert(*created)
	cache.Invalidate(ctx, c.feedCacheKey())
	post, _ := c.posts.Get(created.ID)
	return post, nil
}

// DeletePost removes a post from the gateway and drops the cached record.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	if !c.sess.Authenticated() {
		return models.NewUnauthorizedError("Sign in to delete posts")
	}
	if err := c.gw.DeletePost(ctx, id); err != nil {
		return c.check(err)
	}
	c.posts.Remove(id)
	cache.Invalidate(ctx, c.feedCacheKey())
	return nil
}

// ToggleLike flips the viewer's like on a post.
func (c *Client) ToggleLike(ctx context.Context, postID uint) (models.Post, error) {
	post, err := c.Engagement.ToggleLike(ctx, postID)
	return post, c.check(err)
}

// AddComment creates a comment and returns the refetched comment list.
func (c *Client) AddComment(ctx context.Context, postID uint, content string) ([]models.Comment, error) {
	comments, err := c.Engagement.AddComment(ctx, postID, content)
	return comments, c.check(err)
}

// Comments fetches a post's comment list in server order.
func (c *Client) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments, err := c.Engagement.Comments(ctx, postID)
	return comments, c.check(err)
}

// Moderate sends an approve/reject transition for a post.
func (c *Client) Moderate(ctx context.Context, postID uint, action gateway.ModerateAction) (models.Post, error) {
	post, err := c.Moderation.Moderate(ctx, postID, action)
	return post, c.check(err)
}

// PendingQueue fetches the awaiting-moderation listing.
func (c *Client) PendingQueue(ctx context.Context) ([]models.Post, error) {
	posts, err := c.Moderation.PendingQueue(ctx)
	return posts, c.check(err)
}
