// Package gateway is the network boundary of the client core. It defines the
// operations the engines consume and an HTTP implementation against the
// campus API. The service behind it is opaque: whatever it echoes back is
// authoritative.
package gateway

import (
	"context"

	"campushub/internal/models"
)

// LikeAction is the action label sent by a like toggle.
type LikeAction string

const (
	ActionLike    LikeAction = "like"
	ActionDislike LikeAction = "dislike"
)

// ModerateAction is the action label sent by a moderation transition.
type ModerateAction string

const (
	ActionApprove ModerateAction = "approve"
	ActionReject  ModerateAction = "reject"
)

// LikeResult is the authoritative like state echoed by the server.
// LikeCount is a pointer so an absent count is distinguishable from zero;
// absent means "count unknown, do not guess".
type LikeResult struct {
	IsLiked   bool   `json:"is_liked"`
	LikeCount *int   `json:"like_count,omitempty"`
	Status    string `json:"status,omitempty"`
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// Credentials is the sign-in payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the sign-in response.
type TokenResponse struct {
	Access string `json:"access"`
}

// Gateway is the request/response boundary consumed by the client core.
type Gateway interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPendingPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	ModeratePost(ctx context.Context, id uint, action ModerateAction) (*models.Post, error)
	LikePost(ctx context.Context, id uint, action LikeAction) (*LikeResult, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error)
	Login(ctx context.Context, creds Credentials) (*TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
}
