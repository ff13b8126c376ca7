package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Software is a catalog item. RatingAvg is derived from reviews and
// Downloads only ever grows; neither is set directly by admin edits.
type Software struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Developer   string    `gorm:"not null" json:"developer"`
	Downloads   int64     `gorm:"not null;default:0" json:"downloads"`
	RatingAvg   float64   `gorm:"not null;default:0" json:"rating_avg"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Software) TableName() string { return "software" }

// SoftwareFilter narrows the catalog listing. Zero values mean "no
// constraint"; Query matches name, description, developer and category name.
type SoftwareFilter struct {
	Query      string
	CategoryID uuid.UUID
	PriceMin   *float64
	PriceMax   *float64
}

// SalesStatistics is the admin dashboard summary.
type SalesStatistics struct {
	TotalPurchases int64   `json:"total_purchases"`
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveCarts    int64   `json:"active_carts"`
	TotalUsers     int64   `json:"total_users"`
	TotalSoftware  int64   `json:"total_software"`
}
