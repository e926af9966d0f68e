package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's authorization level.
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// NormalizeRole maps a raw role value onto a known role. An absent role
// means a regular student account.
func NormalizeRole(raw string) Role {
	switch Role(raw) {
	case RoleModerator:
		return RoleModerator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// CanModerate reports whether the role is allowed to approve or reject posts.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// User represents a campus network account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email,omitempty"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(16);default:student" json:"role"`
	Avatar    string         `json:"avatar,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
