package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/models"
)

type gormCartRepository struct {
	db *gorm.DB
}

func (r *gormCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *gormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// FindByUserIDForUpdate issues SELECT ... FOR UPDATE, so at the
// default READ COMMITTED isolation a second transaction on the same
// cart blocks here until the first one commits.
func (r *gormCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *gormCartRepository) FindLine(ctx context.Context, cartID, softwareID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	if err := r.db.WithContext(ctx).
		First(&line, "cart_id = ? AND software_id = ?", cartID, softwareID).Error; err != nil {
		return nil, translate(err)
	}
	return &line, nil
}

func (r *gormCartRepository) FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	if err := r.db.WithContext(ctx).First(&line, "id = ?", lineID).Error; err != nil {
		return nil, translate(err)
	}
	return &line, nil
}

func (r *gormCartRepository) InsertLine(ctx context.Context, line *models.CartItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *gormCartRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *gormCartRepository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", lineID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "cart_id = ?", cartID).Error
}

func (r *gormCartRepository) RecomputeTotal(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE carts SET total_price = (
			SELECT COALESCE(SUM(quantity * price_at_add), 0) FROM cart_items WHERE cart_id = ?
		), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		cartID, cartID,
	).Error
}

func (r *gormCartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var lines []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *gormCartRepository) LinesDetailed(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error) {
	var lines []models.CartItemDetail
	if err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("cart_items.*, software.name AS name, software.developer AS developer, software.image_url AS image_url").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Joins("JOIN software ON software.id = cart_items.software_id").
		Where("carts.user_id = ?", userID).
		Order("cart_items.added_at DESC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *gormCartRepository) CountLinesForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("software_id = ?", softwareID).
		Count(&count).Error
	return count, err
}

func (r *gormCartRepository) CountActiveCarts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("total_price > 0").
		Count(&count).Error
	return count, err
}
