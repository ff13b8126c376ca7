package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/errs"
	"storefront/models"
	"storefront/repository"
)

// TicketService handles support requests; not part of the purchase
// pipeline.
type TicketService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewTicketService(store repository.Store, logger *zap.Logger) *TicketService {
	return &TicketService{store: store, logger: logger}
}

// Create files a new ticket; userID may be nil for anonymous visitors.
func (s *TicketService) Create(ctx context.Context, userID *uuid.UUID, name, email, subject, message string) (*models.SupportTicket, *errs.Error) {
	if name == "" || email == "" || subject == "" || message == "" {
		return nil, errs.InvalidInput("name, email, subject and message are required")
	}

	ticket := &models.SupportTicket{
		UserID:  userID,
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  models.TicketStatusNew,
	}
	if err := s.store.Tickets().Create(ctx, ticket); err != nil {
		return nil, errs.StoreFailure("failed to create ticket", err)
	}

	s.logger.Info("support ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("subject", subject),
	)
	return ticket, nil
}

// List returns tickets, optionally filtered by status.
func (s *TicketService) List(ctx context.Context, status string) ([]models.SupportTicket, *errs.Error) {
	if status != "" && !models.ValidTicketStatus(status) {
		return nil, errs.InvalidInput("unknown ticket status")
	}
	tickets, err := s.store.Tickets().ListByStatus(ctx, status)
	if err != nil {
		return nil, errs.StoreFailure("failed to load tickets", err)
	}
	return tickets, nil
}

// SetStatus moves a ticket between new, in_progress and closed.
func (s *TicketService) SetStatus(ctx context.Context, id uuid.UUID, status string) *errs.Error {
	if !models.ValidTicketStatus(status) {
		return errs.InvalidInput("unknown ticket status")
	}
	if err := s.store.Tickets().UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs.NotFound("ticket not found")
		}
		return errs.StoreFailure("failed to update ticket", err)
	}
	return nil
}

// CountActive returns the number of tickets still needing attention.
func (s *TicketService) CountActive(ctx context.Context) (int64, *errs.Error) {
	count, err := s.store.Tickets().CountActive(ctx)
	if err != nil {
		return 0, errs.StoreFailure("failed to count tickets", err)
	}
	return count, nil
}
