package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/models"
)

type gormCategoryRepository struct {
	db *gorm.DB
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *gormCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *gormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormSoftwareRepository struct {
	db *gorm.DB
}

func (r *gormSoftwareRepository) Create(ctx context.Context, software *models.Software) error {
	return r.db.WithContext(ctx).Create(software).Error
}

func (r *gormSoftwareRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	var software models.Software
	if err := r.db.WithContext(ctx).Preload("Category").First(&software, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &software, nil
}

func (r *gormSoftwareRepository) List(ctx context.Context, filter models.SoftwareFilter) ([]models.Software, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Software{}).
		Preload("Category").
		Joins("LEFT JOIN categories ON categories.id = software.category_id")

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where(
			"software.name LIKE ? OR software.description LIKE ? OR software.developer LIKE ? OR categories.name LIKE ?",
			like, like, like, like,
		)
	}
	if filter.CategoryID != uuid.Nil {
		q = q.Where("software.category_id = ?", filter.CategoryID)
	}
	if filter.PriceMin != nil {
		q = q.Where("software.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("software.price <= ?", *filter.PriceMax)
	}

	var software []models.Software
	if err := q.Order("software.downloads DESC, software.rating_avg DESC, software.name ASC").
		Find(&software).Error; err != nil {
		return nil, err
	}
	return software, nil
}

func (r *gormSoftwareRepository) Update(ctx context.Context, software *models.Software) error {
	return r.db.WithContext(ctx).Save(software).Error
}

func (r *gormSoftwareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Software{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormSoftwareRepository) IncrementDownloads(ctx context.Context, id uuid.UUID, by int) error {
	return r.db.WithContext(ctx).
		Model(&models.Software{}).
		Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + ?", by)).Error
}

func (r *gormSoftwareRepository) SetRatingAvg(ctx context.Context, id uuid.UUID, avg float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Software{}).
		Where("id = ?", id).
		Update("rating_avg", avg).Error
}

func (r *gormSoftwareRepository) Bestsellers(ctx context.Context, limit int) ([]models.Software, error) {
	var software []models.Software
	if err := r.db.WithContext(ctx).
		Order("downloads DESC").
		Limit(limit).
		Find(&software).Error; err != nil {
		return nil, err
	}
	return software, nil
}

func (r *gormSoftwareRepository) TopRated(ctx context.Context, limit int) ([]models.Software, error) {
	var software []models.Software
	if err := r.db.WithContext(ctx).
		Where("rating_avg > 0").
		Order("rating_avg DESC").
		Limit(limit).
		Find(&software).Error; err != nil {
		return nil, err
	}
	return software, nil
}

func (r *gormSoftwareRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Software{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *gormSoftwareRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Software{}).Count(&count).Error
	return count, err
}
