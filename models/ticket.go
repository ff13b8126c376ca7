package models

import (
	"time"

	"github.com/google/uuid"
)

// Support ticket statuses
const (
	TicketStatusNew        = "new"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"
)

type SupportTicket struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null" json:"email"`
	Subject   string     `gorm:"not null" json:"subject"`
	Message   string     `gorm:"not null" json:"message"`
	Status    string     `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// ValidTicketStatus reports whether status is a known ticket status.
func ValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}
