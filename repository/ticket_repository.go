package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/models"
)

type gormTicketRepository struct {
	db *gorm.DB
}

func (r *gormTicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *gormTicketRepository) ListByStatus(ctx context.Context, status string) ([]models.SupportTicket, error) {
	q := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *gormTicketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTicketRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("status IN ?", []string{models.TicketStatusNew, models.TicketStatusInProgress}).
		Count(&count).Error
	return count, err
}
