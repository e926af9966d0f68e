// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the moderation status of a post.
type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusApproved PostStatus = "approved"
	StatusRejected PostStatus = "rejected"
)

// NormalizeStatus maps a raw status value onto one of the three known
// statuses. A missing or unknown value means the post has not been
// moderated yet, so it normalizes to pending. This is the single
// normalization point; callers must not re-implement the default.
func NormalizeStatus(raw string) PostStatus {
	switch PostStatus(raw) {
	case StatusApproved:
		return StatusApproved
	case StatusRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the three known statuses.
func (s PostStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Post represents a post in the campus feed.
type Post struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Title    string     `gorm:"not null" json:"title"`
	Content  string     `gorm:"not null" json:"content"`
	ImageURL string     `json:"image_url,omitempty"`
	AuthorID uint       `gorm:"not null" json:"author_id"`
	Author   User       `gorm:"foreignKey:AuthorID" json:"author"`
	Status   PostStatus `gorm:"type:varchar(16);default:pending" json:"status"`
	// LikeCount is the aggregate like total as last reported by the server.
	LikeCount int `gorm:"-" json:"like_count"`
	// IsLiked indicates whether the current viewer liked this post. It is
	// derived per viewer and never persisted globally.
	IsLiked   bool           `gorm:"-" json:"is_liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
