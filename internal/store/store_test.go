package store

import (
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNormalizesStatusAndKeepsOrder(t *testing.T) {
	s := New()
	s.Load([]models.Post{
		{ID: 3, Title: "c", Status: "approved"},
		{ID: 1, Title: "a", Status: ""},
		{ID: 2, Title: "b", Status: "weird-status"},
	})

	posts := s.List()
	require.Len(t, posts, 3)
	assert.Equal(t, uint(3), posts[0].ID)
	assert.Equal(t, uint(1), posts[1].ID)
	assert.Equal(t, uint(2), posts[2].ID)

	assert.Equal(t, models.StatusApproved, posts[0].Status)
	assert.Equal(t, models.StatusPending, posts[1].Status, "absent status should read as pending")
	assert.Equal(t, models.StatusPending, posts[2].Status, "unknown status should read as pending")
}

func TestLoadReplacesWorkingSet(t *testing.T) {
	s := New()
	s.Load([]models.Post{{ID: 1}, {ID: 2}})
	s.Load([]models.Post{{ID: 2}, {ID: 5}})

	_, ok := s.Get(1)
	assert.False(t, ok, "post 1 should be gone after refetch")
	assert.Equal(t, 2, s.Len())
}

func TestUpsertPreservesFieldsAbsentFromPartialResponse(t *testing.T) {
	s := New()
	s.Load([]models.Post{{
		ID:      7,
		Title:   "Original title",
		Content: "Original content",
		Author:  models.User{ID: 4, Username: "dana"},
		Status:  models.StatusPending,
	}})

	// A moderation response often carries only id and status.
	s.Upsert(models.Post{ID: 7, Status: models.StatusApproved})

	got, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "Original title", got.Title)
	assert.Equal(t, "Original content", got.Content)
	assert.Equal(t, "dana", got.Author.Username)
}

func TestUpsertAppendsNewIDs(t *testing.T) {
	s := New()
	s.Load([]models.Post{{ID: 1}, {ID: 2}})
	s.Upsert(models.Post{ID: 9, Title: "new"})

	posts := s.List()
	require.Len(t, posts, 3)
	assert.Equal(t, uint(9), posts[2].ID)
}

func TestSetLikeNilCountLeavesCachedValue(t *testing.T) {
	s := New()
	s.Load([]models.Post{{ID: 1, LikeCount: 12}})

	ok := s.SetLike(1, true, nil)
	require.True(t, ok)

	got, _ := s.Get(1)
	assert.True(t, got.IsLiked)
	assert.Equal(t, 12, got.LikeCount, "absent count must not zero the cached one")

	five := 5
	s.SetLike(1, false, &five)
	got, _ = s.Get(1)
	assert.False(t, got.IsLiked)
	assert.Equal(t, 5, got.LikeCount)
}

func TestSetLikeAndSetStatusReportMissingPosts(t *testing.T) {
	s := New()
	assert.False(t, s.SetLike(99, true, nil))
	assert.False(t, s.SetStatus(99, models.StatusApproved))
}

func TestSetStatusNormalizes(t *testing.T) {
	s := New()
	s.Load([]models.Post{{ID: 1, Status: models.StatusApproved}})

	require.True(t, s.SetStatus(1, "nonsense"))
	got, _ := s.Get(1)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestRemoveDropsRecordAndOrder(t *testing.T) {
	s := New()
	s.Load([]models.Post{{ID: 1}, {ID: 2}, {ID: 3}})
	s.Remove(2)

	posts := s.List()
	require.Len(t, posts, 2)
	assert.Equal(t, uint(1), posts[0].ID)
	assert.Equal(t, uint(3), posts[1].ID)

	s.Remove(2) // removing twice is a no-op
	assert.Equal(t, 2, s.Len())
}
