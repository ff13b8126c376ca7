package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/models"
)

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email, "phone": phone}).Error
}

func (r *gormUserRepository) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *gormUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// userSortColumns is the allow-list for the admin user search; anything
// else falls back to created_at.
var userSortColumns = map[string]string{
	"name":        "users.name",
	"email":       "users.email",
	"role":        "users.role",
	"is_active":   "users.is_active",
	"created_at":  "users.created_at",
	"total_spent": "total_spent",
}

func (r *gormUserRepository) Search(ctx context.Context, query, sortField, direction string) ([]models.UserWithSpend, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, COALESCE(SUM(purchases.total_price), 0) AS total_spent").
		Joins("LEFT JOIN purchases ON purchases.user_id = users.id").
		Group("users.id")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("users.name LIKE ? OR users.email LIKE ?", like, like)
	}

	col, ok := userSortColumns[sortField]
	if !ok {
		col = "users.created_at"
	}
	dir := "DESC"
	if direction == "asc" {
		dir = "ASC"
	}

	var users []models.UserWithSpend
	if err := q.Order(col + " " + dir).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
