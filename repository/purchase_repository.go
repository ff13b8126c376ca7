package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/models"
)

type gormPurchaseRepository struct {
	db *gorm.DB
}

func (r *gormPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *gormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *gormPurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *gormPurchaseRepository) ListAll(ctx context.Context) ([]models.PurchaseWithUser, error) {
	var purchases []models.PurchaseWithUser
	if err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Select("purchases.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = purchases.user_id").
		Order("purchases.purchased_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// HasCompletedPurchase reports whether the user has at least one
// completed purchase containing the software. Refunded purchases do
// not count.
func (r *gormPurchaseRepository) HasCompletedPurchase(ctx context.Context, userID, softwareID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseItem{}).
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchases.user_id = ? AND purchase_items.software_id = ? AND purchases.status = ?",
			userID, softwareID, models.PurchaseStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

func (r *gormPurchaseRepository) CountItemsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseItem{}).
		Where("software_id = ?", softwareID).
		Count(&count).Error
	return count, err
}

func (r *gormPurchaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&count).Error
	return count, err
}

// TotalRevenue sums completed purchases only; refunds are excluded.
func (r *gormPurchaseRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ?", models.PurchaseStatusCompleted).
		Scan(&revenue).Error
	return revenue, err
}
