package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase statuses
const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusRefunded  = "refunded"
)

// Purchase is an immutable record created by checkout. Its items carry
// full snapshots, so later catalog edits never alter purchase history.
type Purchase struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalPrice    float64        `gorm:"not null;check:total_price >= 0" json:"total_price"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	PurchasedAt   time.Time      `gorm:"autoCreateTime" json:"purchased_at"`
	Items         []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type PurchaseItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	SoftwareID      uuid.UUID `gorm:"type:uuid;not null" json:"software_id"`
	SoftwareName    string    `gorm:"not null" json:"software_name"`
	Developer       string    `gorm:"not null" json:"developer"`
	Quantity        int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtPurchase float64   `gorm:"not null;check:price_at_purchase >= 0" json:"price_at_purchase"`
}

// PurchaseWithUser is a purchase joined with buyer identity for the
// admin listing.
type PurchaseWithUser struct {
	Purchase
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
