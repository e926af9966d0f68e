package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"campushub/internal/models"
	"campushub/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TokenSource supplies the bearer credential attached to every request.
// *session.Session satisfies it.
type TokenSource interface {
	Token() string
}

// HTTPGateway talks to the campus API over HTTP.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway returns a gateway for the API rooted at baseURL
// (e.g. "http://localhost:8000/api"). Requests time out after timeout;
// expiry surfaces as a transient, retryable failure.
func NewHTTPGateway(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (g *HTTPGateway) do(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := observability.Tracer.Start(ctx, "gateway."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	start := time.Now()
	err := g.roundTrip(ctx, method, path, body, out)
	observability.ObserveGatewayRequest(operation, start)
	observability.LogGatewayCall(ctx, operation, err, map[string]interface{}{
		"method": method,
		"path":   path,
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, models.CodeOf(err))
		observability.GatewayErrorsTotal.WithLabelValues(operation, models.CodeOf(err)).Inc()
	}
	return err
}

func (g *HTTPGateway) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return models.NewInternalError(err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return models.NewTransientError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.NewTransientError(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// statusError maps an HTTP error status onto the application error taxonomy.
// A 401 means the bearer credential is invalid and is always treated as
// "session ended"; the client facade performs the teardown.
func statusError(resp *http.Response) error {
	var body models.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return models.NewSessionExpiredError()
	case resp.StatusCode == http.StatusForbidden:
		return models.NewUnauthorizedError(msg)
	case resp.StatusCode == http.StatusNotFound:
		return models.NewNotFoundError("Resource", msg)
	case resp.StatusCode >= 500:
		return models.NewTransientError(fmt.Errorf("gateway responded %d: %s", resp.StatusCode, msg))
	default:
		return models.NewValidationError(msg)
	}
}

// ListPosts fetches the generic post listing.
func (g *HTTPGateway) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := g.do(ctx, "list_posts", http.MethodGet, "/posts/", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPendingPosts fetches only posts awaiting moderation. This is an
// independent data path from ListPosts; the two listings are not guaranteed
// to return identical shapes.
func (g *HTTPGateway) ListPendingPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := g.do(ctx, "list_pending_posts", http.MethodGet, "/posts/unmoderated/", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost submits a new post. The server decides its initial status.
func (g *HTTPGateway) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var post models.Post
	if err := g.do(ctx, "create_post", http.MethodPost, "/posts/", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (g *HTTPGateway) DeletePost(ctx context.Context, id uint) error {
	return g.do(ctx, "delete_post", http.MethodDelete, fmt.Sprintf("/posts/%d/", id), nil, nil)
}

// ModeratePost sends an explicit approve/reject action label and returns the
// updated post with the authoritative status.
func (g *HTTPGateway) ModeratePost(ctx context.Context, id uint, action ModerateAction) (*models.Post, error) {
	var post models.Post
	payload := map[string]string{"action": string(action)}
	if err := g.do(ctx, "moderate_post", http.MethodPost, fmt.Sprintf("/posts/%d/moderate/", id), payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePost sends a like/dislike action label and returns the authoritative
// like state.
func (g *HTTPGateway) LikePost(ctx context.Context, id uint, action LikeAction) (*LikeResult, error) {
	var result LikeResult
	payload := map[string]string{"action": string(action)}
	if err := g.do(ctx, "like_post", http.MethodPost, fmt.Sprintf("/posts/%d/like/", id), payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListComments fetches the comment list for a post in server order.
func (g *HTTPGateway) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := g.do(ctx, "list_comments", http.MethodGet, fmt.Sprintf("/comments/?post=%d", postID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment submits a new comment on a post.
func (g *HTTPGateway) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	var comment models.Comment
	payload := map[string]any{"post": postID, "content": content}
	if err := g.do(ctx, "create_comment", http.MethodPost, "/comments/", payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Login exchanges credentials for a bearer token.
func (g *HTTPGateway) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	var token TokenResponse
	if err := g.do(ctx, "login", http.MethodPost, "/token/", creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me fetches the signed-in user's profile.
func (g *HTTPGateway) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := g.do(ctx, "me", http.MethodGet, "/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
