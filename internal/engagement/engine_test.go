package engagement

import (
	"context"
	"errors"
	"testing"

	"campushub/internal/gateway"
	"campushub/internal/models"
	"campushub/internal/session"
	"campushub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway implements gateway.Gateway with overridable function fields.
type stubGateway struct {
	listPosts        func(ctx context.Context) ([]models.Post, error)
	listPendingPosts func(ctx context.Context) ([]models.Post, error)
	createPost       func(ctx context.Context, in gateway.CreatePostInput) (*models.Post, error)
	deletePost       func(ctx context.Context, id uint) error
	moderatePost     func(ctx context.Context, id uint, action gateway.ModerateAction) (*models.Post, error)
	likePost         func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error)
	listComments     func(ctx context.Context, postID uint) ([]models.Comment, error)
	createComment    func(ctx context.Context, postID uint, content string) (*models.Comment, error)
	login            func(ctx context.Context, creds gateway.Credentials) (*gateway.TokenResponse, error)
	me               func(ctx context.Context) (*models.User, error)
}

func (s *stubGateway) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.listPosts(ctx)
}

func (s *stubGateway) ListPendingPosts(ctx context.Context) ([]models.Post, error) {
	return s.listPendingPosts(ctx)
}

func (s *stubGateway) CreatePost(ctx context.Context, in gateway.CreatePostInput) (*models.Post, error) {
	return s.createPost(ctx, in)
}

func (s *stubGateway) DeletePost(ctx context.Context, id uint) error {
	return s.deletePost(ctx, id)
}

func (s *stubGateway) ModeratePost(ctx context.Context, id uint, action gateway.ModerateAction) (*models.Post, error) {
	return s.moderatePost(ctx, id, action)
}

func (s *stubGateway) LikePost(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
	return s.likePost(ctx, id, action)
}

func (s *stubGateway) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listComments(ctx, postID)
}

func (s *stubGateway) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	return s.createComment(ctx, postID, content)
}

func (s *stubGateway) Login(ctx context.Context, creds gateway.Credentials) (*gateway.TokenResponse, error) {
	return s.login(ctx, creds)
}

func (s *stubGateway) Me(ctx context.Context) (*models.User, error) {
	return s.me(ctx)
}

func signedInStudent() *session.Session {
	sess := session.New()
	sess.Start("tok", models.User{ID: 9, Username: "sam", Role: models.RoleStudent})
	return sess
}

func intPtr(v int) *int { return &v }

func TestToggleLikeSendsOppositeAction(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{
		{ID: 1, LikeCount: 3, IsLiked: false},
		{ID: 2, LikeCount: 8, IsLiked: true},
	})

	var sent gateway.LikeAction
	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			sent = action
			liked := action == gateway.ActionLike
			count := 4
			if !liked {
				count = 7
			}
			return &gateway.LikeResult{IsLiked: liked, LikeCount: &count}, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	post, err := e.ToggleLike(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, gateway.ActionLike, sent, "an unliked post toggles with a like")
	assert.True(t, post.IsLiked)
	assert.Equal(t, 4, post.LikeCount)

	post, err = e.ToggleLike(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, gateway.ActionDislike, sent, "a liked post toggles with a dislike")
	assert.False(t, post.IsLiked)
	assert.Equal(t, 7, post.LikeCount)
}

func TestDoubleToggleRestoresOriginalState(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1, LikeCount: 3, IsLiked: false}})

	// The stub keeps the authoritative like set for one viewer.
	liked := false
	count := 3
	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			if action == gateway.ActionLike && !liked {
				liked = true
				count++
			} else if action == gateway.ActionDislike && liked {
				liked = false
				count--
			}
			c := count
			return &gateway.LikeResult{IsLiked: liked, LikeCount: &c}, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	post, err := e.ToggleLike(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, post.IsLiked)
	assert.Equal(t, 4, post.LikeCount)

	post, err = e.ToggleLike(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, post.IsLiked, "the second toggle restores the original flag")
	assert.Equal(t, 3, post.LikeCount, "the second toggle restores the original count")
}

func TestToggleLikeServerCountWins(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1, LikeCount: 3}})

	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			// Another viewer liked in the meantime; the count jumps past
			// the local guess of 4.
			return &gateway.LikeResult{IsLiked: true, LikeCount: intPtr(6)}, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	post, err := e.ToggleLike(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, post.LikeCount)
}

func TestToggleLikeAbsentCountKeepsOptimisticValue(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1, LikeCount: 3}})

	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			return &gateway.LikeResult{IsLiked: true}, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	post, err := e.ToggleLike(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, post.IsLiked)
	assert.Equal(t, 4, post.LikeCount, "no reported count leaves the optimistic one standing")
}

func TestToggleLikeRevertsOnFailure(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1, LikeCount: 3, IsLiked: true}})

	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			return nil, models.NewTransientError(errors.New("boom"))
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	_, err := e.ToggleLike(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeTransient))

	got, _ := st.Get(1)
	assert.True(t, got.IsLiked, "failed toggle must restore the pre-toggle flag")
	assert.Equal(t, 3, got.LikeCount, "failed toggle must restore the pre-toggle count")
}

func TestToggleLikeDiscardsResponseForEvictedPost(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1, LikeCount: 3}})

	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			// The viewer navigated away while the request was in flight.
			st.Remove(1)
			return &gateway.LikeResult{IsLiked: true, LikeCount: intPtr(4)}, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	_, err := e.ToggleLike(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.Equal(t, 0, st.Len())
}

func TestToggleLikeRequiresSession(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1}})

	called := false
	gw := &stubGateway{
		likePost: func(ctx context.Context, id uint, action gateway.LikeAction) (*gateway.LikeResult, error) {
			called = true
			return &gateway.LikeResult{}, nil
		},
	}
	e := NewEngine(gw, st, session.New())

	_, err := e.ToggleLike(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	assert.False(t, called, "anonymous toggles must not reach the gateway")
}

func TestToggleLikeUnknownPost(t *testing.T) {
	e := NewEngine(&stubGateway{}, store.New(), signedInStudent())
	_, err := e.ToggleLike(context.Background(), 404)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestAddCommentRefetchesList(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1}})

	serverList := []models.Comment{
		{ID: 1, PostID: 1, Content: "first"},
		{ID: 2, PostID: 1, Content: "second"},
		{ID: 3, PostID: 1, Content: "mine"},
	}
	created := false
	gw := &stubGateway{
		createComment: func(ctx context.Context, postID uint, content string) (*models.Comment, error) {
			created = true
			return &models.Comment{ID: 3, PostID: postID, Content: content}, nil
		},
		listComments: func(ctx context.Context, postID uint) ([]models.Comment, error) {
			require.True(t, created, "the list must be refetched after creation")
			return serverList, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	comments, err := e.AddComment(context.Background(), 1, "mine")
	require.NoError(t, err)
	assert.Equal(t, serverList, comments, "the server's ordering is returned as-is")
}

func TestAddCommentRejectsWhitespaceLocally(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1}})

	called := false
	gw := &stubGateway{
		createComment: func(ctx context.Context, postID uint, content string) (*models.Comment, error) {
			called = true
			return nil, nil
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	_, err := e.AddComment(context.Background(), 1, "   \n\t ")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
	assert.False(t, called, "whitespace-only content must not hit the network")
}

func TestAddCommentFailureMutatesNothing(t *testing.T) {
	st := store.New()
	st.Load([]models.Post{{ID: 1}})

	gw := &stubGateway{
		createComment: func(ctx context.Context, postID uint, content string) (*models.Comment, error) {
			return nil, models.NewTransientError(errors.New("boom"))
		},
	}
	e := NewEngine(gw, st, signedInStudent())

	comments, err := e.AddComment(context.Background(), 1, "keep my draft")
	require.Error(t, err)
	assert.Nil(t, comments)
}
