package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. A comment belongs to exactly one
// post for its whole lifetime; it is never re-parented.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	PostID    uint           `gorm:"not null" json:"post"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
