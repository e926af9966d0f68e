package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*HTTPGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL, 5*time.Second, staticToken("test-token")), srv
}

func TestRequestCarriesAuthAndRequestID(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode([]models.Post{})
	})

	_, err := gw.ListPosts(context.Background())
	require.NoError(t, err)
}

func TestAnonymousRequestOmitsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.Post{})
	}))
	t.Cleanup(srv.Close)

	gw := NewHTTPGateway(srv.URL, 5*time.Second, staticToken(""))
	_, err := gw.ListPosts(context.Background())
	require.NoError(t, err)
}

func TestLikePostSendsActionLabel(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts/7/like/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dislike", body["action"])

		count := 4
		json.NewEncoder(w).Encode(LikeResult{IsLiked: false, LikeCount: &count})
	})

	result, err := gw.LikePost(context.Background(), 7, ActionDislike)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	require.NotNil(t, result.LikeCount)
	assert.Equal(t, 4, *result.LikeCount)
}

func TestLikePostAbsentCountDecodesAsNil(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"is_liked": true})
	})

	result, err := gw.LikePost(context.Background(), 7, ActionLike)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Nil(t, result.LikeCount, "an omitted count must stay distinguishable from zero")
}

func TestModeratePostPathAndPayload(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/3/moderate/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reject", body["action"])

		json.NewEncoder(w).Encode(models.Post{ID: 3, Status: models.StatusRejected})
	})

	post, err := gw.ModeratePost(context.Background(), 3, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, post.Status)
}

func TestListCommentsQueriesByPost(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "8", r.URL.Query().Get("post"))
		json.NewEncoder(w).Encode([]models.Comment{{ID: 1, PostID: 8}})
	})

	comments, err := gw.ListComments(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, uint(8), comments[0].PostID)
}

func TestLoginPayloadAndToken(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)

		json.NewEncoder(w).Encode(TokenResponse{Access: "jwt-here"})
	})

	token, err := gw.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-here", token.Access)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, models.CodeSessionExpired},
		{http.StatusForbidden, models.CodeUnauthorized},
		{http.StatusNotFound, models.CodeNotFound},
		{http.StatusBadRequest, models.CodeValidation},
		{http.StatusInternalServerError, models.CodeTransient},
		{http.StatusBadGateway, models.CodeTransient},
	}

	for _, tt := range tests {
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "nope"})
		})

		_, err := gw.ListPosts(context.Background())
		require.Error(t, err, "status %d", tt.status)
		assert.Equal(t, tt.code, models.CodeOf(err), "status %d", tt.status)
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	gw := NewHTTPGateway(srv.URL, time.Second, staticToken(""))
	_, err := gw.ListPosts(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeTransient))
}

func TestDeletePostNoContent(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/posts/5/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, gw.DeletePost(context.Background(), 5))
}
