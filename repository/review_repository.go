package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/models"
)

type gormReviewRepository struct {
	db *gorm.DB
}

func (r *gormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *gormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepository) FindByUserAndSoftware(ctx context.Context, userID, softwareID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		First(&review, "user_id = ? AND software_id = ?", userID, softwareID).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *gormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormReviewRepository) ForSoftware(ctx context.Context, softwareID uuid.UUID) ([]models.ReviewWithUser, error) {
	var reviews []models.ReviewWithUser
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.software_id = ?", softwareID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviewRepository) Recent(ctx context.Context, limit int) ([]models.ReviewFeedItem, error) {
	var reviews []models.ReviewFeedItem
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.*, users.name AS user_name, users.email AS user_email, software.name AS software_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN software ON software.id = reviews.software_id").
		Order("reviews.created_at DESC").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageForSoftware returns the mean rating over the software's
// current reviews, 0 when none exist.
func (r *gormReviewRepository) AverageForSoftware(ctx context.Context, softwareID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("software_id = ?", softwareID).
		Scan(&avg).Error
	return avg, err
}
