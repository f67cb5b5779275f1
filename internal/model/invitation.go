package model

import "time"

// InvitationTTL is how long an invitation token stays redeemable
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is an email-bound, single-use ticket into a story
type Invitation struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	StoryID   string    `gorm:"type:varchar(36);not null;index"`
	Email     string    `gorm:"size:255;not null;index"`
	InvitedBy string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	Accepted  bool      `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the gorm default
func (Invitation) TableName() string {
	return "invitations"
}

// IsExpired reports whether the invitation has reached its expiry at the given time
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsPending reports whether the invitation can still be redeemed
func (i *Invitation) IsPending(now time.Time) bool {
	return !i.Accepted && !i.IsExpired(now)
}
