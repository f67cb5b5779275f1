package model

import "time"

// Role controls access to administrative operations
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account
type User struct {
	ID                string  `gorm:"type:varchar(36);primaryKey"`
	Email             string  `gorm:"size:255;uniqueIndex;not null"`
	Username          string  `gorm:"size:50;not null"`
	PasswordHash      string  `gorm:"size:255;not null"`
	EmailVerified     bool    `gorm:"not null"`
	VerificationToken *string `gorm:"size:64;index"`
	Role              Role    `gorm:"size:16;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the gorm default
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
