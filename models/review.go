package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is unique per (user, software); resubmission overwrites the
// existing row instead of appending a second one.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_software" json:"user_id"`
	SoftwareID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_software" json:"software_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ReviewWithUser is a review joined with reviewer identity.
type ReviewWithUser struct {
	Review
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ReviewFeedItem is a review joined with both reviewer and software,
// used by the moderation feed.
type ReviewFeedItem struct {
	Review
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	SoftwareName string `json:"software_name"`
}
