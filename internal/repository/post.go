// Package repository contains gorm-backed data access for the gateway server.
package repository

import (
	"context"

	"campushub/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, currentUserID uint) ([]*models.Post, error)
	ListByStatus(ctx context.Context, status models.PostStatus, currentUserID uint) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	LikeCount(ctx context.Context, postID uint) (int, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if !post.Status.Valid() {
		post.Status = models.StatusPending
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	if err := r.enrich(ctx, []*models.Post{&post}, currentUserID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.enrich(ctx, posts, currentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByStatus(ctx context.Context, status models.PostStatus, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.enrich(ctx, posts, currentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).Create(&models.Like{UserID: userID, PostID: postID}).Error
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete: a soft-deleted row would keep its (user_id, post_id)
	// unique index entry and block the next like.
	return r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return int(count), err
}

// enrich fills the computed LikeCount and per-viewer IsLiked fields.
func (r *postRepository) enrich(ctx context.Context, posts []*models.Post, currentUserID uint) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	type likeRow struct {
		PostID uint
		Count  int
	}
	var rows []likeRow
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return err
	}
	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}

	liked := make(map[uint]bool)
	if currentUserID != 0 {
		var likedIDs []uint
		if err := r.db.WithContext(ctx).
			Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", currentUserID, ids).
			Pluck("post_id", &likedIDs).Error; err != nil {
			return err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for _, p := range posts {
		p.LikeCount = counts[p.ID]
		p.IsLiked = liked[p.ID]
	}
	return nil
}
