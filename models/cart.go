package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single active cart of a user, created at registration
// and emptied (never deleted) on checkout. TotalPrice always equals
// the sum of quantity*price_at_add over its items.
type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalPrice float64   `gorm:"not null;default:0;check:total_price >= 0" json:"total_price"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartItem is one (cart, software) line. PriceAtAdd is captured when
// the line is first inserted and never refreshed afterwards.
type CartItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_software" json:"cart_id"`
	SoftwareID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_software" json:"software_id"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtAdd float64   `gorm:"not null;check:price_at_add >= 0" json:"price_at_add"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// CartItemDetail is a cart line joined with live catalog fields for display.
type CartItemDetail struct {
	CartItem
	Name      string `json:"name"`
	Developer string `json:"developer"`
	ImageURL  string `json:"image_url"`
}
