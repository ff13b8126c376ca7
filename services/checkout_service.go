package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/errs"
	"storefront/models"
	"storefront/repository"
)

// PurchaseEvent is published after a checkout commits.
type PurchaseEvent struct {
	PurchaseID uuid.UUID `json:"purchase_id"`
	UserID     uuid.UUID `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes purchase events; publishing is best-effort
// and never fails a checkout.
type EventPublisher interface {
	PublishPurchaseCompleted(evt PurchaseEvent) error
}

// CheckoutService converts a non-empty cart into an immutable purchase
// with line snapshots, bumps download counters and drains the cart,
// all inside one transaction.
type CheckoutService struct {
	store  repository.Store
	events EventPublisher
	logger *zap.Logger
}

func NewCheckoutService(store repository.Store, events EventPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{store: store, events: events, logger: logger}
}

// Checkout creates a purchase from the user's cart. All steps are
// all-or-nothing: on any failure the cart is left untouched and no
// purchase record survives.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*models.Purchase, *errs.Error) {
	var purchase *models.Purchase

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// the row lock serializes checkouts on one cart: a concurrent
		// checkout waits here, then finds the drained cart and stops
		// with EmptyCart instead of paying twice
		cart, err := tx.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("cart not found")
			}
			return err
		}

		lines, err := tx.Carts().Lines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 || cart.TotalPrice == 0 {
			return errs.EmptyCart("cart is empty")
		}

		purchase = &models.Purchase{
			UserID:        userID,
			TotalPrice:    cart.TotalPrice,
			PaymentMethod: paymentMethod,
			Status:        models.PurchaseStatusCompleted,
		}
		for _, line := range lines {
			software, err := tx.Software().FindByID(ctx, line.SoftwareID)
			if err != nil {
				return err
			}
			// snapshot of name/developer/price at this instant; later
			// catalog edits never touch purchase history
			purchase.Items = append(purchase.Items, models.PurchaseItem{
				SoftwareID:      line.SoftwareID,
				SoftwareName:    software.Name,
				Developer:       software.Developer,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.PriceAtAdd,
			})
		}
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return err
		}

		for _, line := range lines {
			if err := tx.Software().IncrementDownloads(ctx, line.SoftwareID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Carts().DeleteLines(ctx, cart.ID); err != nil {
			return err
		}
		return tx.Carts().RecomputeTotal(ctx, cart.ID)
	})
	if err != nil {
		s.logger.Error("checkout failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		if errs.KindOf(err) == errs.KindUnknown {
			return nil, errs.StoreFailure("checkout failed", err)
		}
		return nil, errs.From(err)
	}

	s.logger.Info("purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total_price", purchase.TotalPrice),
	)

	if s.events != nil {
		evt := PurchaseEvent{
			PurchaseID: purchase.ID,
			UserID:     userID,
			TotalPrice: purchase.TotalPrice,
			Timestamp:  time.Now(),
		}
		if err := s.events.PublishPurchaseCompleted(evt); err != nil {
			s.logger.Warn("purchase event publish failed",
				zap.String("purchase_id", purchase.ID.String()),
				zap.Error(err),
			)
		}
	}

	return purchase, nil
}

// GetPurchase returns a purchase with its items. A purchase belonging
// to another user is reported as not found.
func (s *CheckoutService) GetPurchase(ctx context.Context, requestingUserID, purchaseID uuid.UUID) (*models.Purchase, *errs.Error) {
	purchase, err := s.store.Purchases().FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("purchase not found")
		}
		return nil, errs.StoreFailure("failed to load purchase", err)
	}
	if purchase.UserID != requestingUserID {
		return nil, errs.NotFound("purchase not found")
	}
	return purchase, nil
}

// GetPurchaseItems returns the line snapshots of an owned purchase.
func (s *CheckoutService) GetPurchaseItems(ctx context.Context, requestingUserID, purchaseID uuid.UUID) ([]models.PurchaseItem, *errs.Error) {
	purchase, appErr := s.GetPurchase(ctx, requestingUserID, purchaseID)
	if appErr != nil {
		return nil, appErr
	}
	return purchase.Items, nil
}

// ListPurchases returns the user's purchase history, newest first.
func (s *CheckoutService) ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, *errs.Error) {
	purchases, err := s.store.Purchases().ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.StoreFailure("failed to load purchases", err)
	}
	return purchases, nil
}

// ListAllPurchases returns every purchase with buyer identity (admin).
func (s *CheckoutService) ListAllPurchases(ctx context.Context) ([]models.PurchaseWithUser, *errs.Error) {
	purchases, err := s.store.Purchases().ListAll(ctx)
	if err != nil {
		return nil, errs.StoreFailure("failed to load purchases", err)
	}
	return purchases, nil
}
