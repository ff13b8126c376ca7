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

// CartService maintains the per-user cart. Every mutation and the
// total recompute run in one transaction, so a concurrent reader never
// observes a line change without the matching total.
type CartService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewCartService(store repository.Store, logger *zap.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

// AddItem puts quantity units of the software into the user's cart. If
// a line for the software already exists its quantity grows and its
// price_at_add stays at the first-add price; otherwise a new line
// captures the current catalog price.
func (s *CartService) AddItem(ctx context.Context, userID, softwareID uuid.UUID, quantity int) (*models.CartItem, *errs.Error) {
	if quantity <= 0 {
		return nil, errs.InvalidInput("quantity must be positive")
	}

	var line *models.CartItem
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("cart not found")
			}
			return err
		}

		software, err := tx.Software().FindByID(ctx, softwareID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("software not found")
			}
			return err
		}

		existing, err := tx.Carts().FindLine(ctx, cart.ID, softwareID)
		switch {
		case err == nil:
			// the cart row is locked above, so the quantity read here
			// cannot be stale when the update lands
			if err := tx.Carts().UpdateLineQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
			existing.Quantity += quantity
			line = existing
		case errors.Is(err, repository.ErrNotFound):
			line = &models.CartItem{
				CartID:     cart.ID,
				SoftwareID: softwareID,
				Quantity:   quantity,
				PriceAtAdd: software.Price,
			}
			if err := tx.Carts().InsertLine(ctx, line); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Carts().RecomputeTotal(ctx, cart.ID)
	})
	if err != nil {
		s.logger.Error("add to cart failed",
			zap.String("user_id", userID.String()),
			zap.String("software_id", softwareID.String()),
			zap.Error(err),
		)
		return nil, errs.From(err)
	}

	s.logger.Info("added to cart",
		zap.String("user_id", userID.String()),
		zap.String("software_id", softwareID.String()),
		zap.Int("quantity", quantity),
	)
	return line, nil
}

// SetQuantity updates a line's quantity; a non-positive quantity
// removes the line instead of failing.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) *errs.Error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, userID, lineID)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		line, err := s.ownedLine(ctx, tx, userID, lineID)
		if err != nil {
			return err
		}
		if err := tx.Carts().UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
			return err
		}
		return tx.Carts().RecomputeTotal(ctx, line.CartID)
	})
	if err != nil {
		return errs.From(err)
	}
	return nil
}

// RemoveLine deletes a line from the user's cart.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) *errs.Error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		line, err := s.ownedLine(ctx, tx, userID, lineID)
		if err != nil {
			return err
		}
		if err := tx.Carts().DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		return tx.Carts().RecomputeTotal(ctx, line.CartID)
	})
	if err != nil {
		return errs.From(err)
	}
	return nil
}

// Clear removes every line from the user's cart and zeroes its total.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) *errs.Error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("cart not found")
			}
			return err
		}
		if err := tx.Carts().DeleteLines(ctx, cart.ID); err != nil {
			return err
		}
		return tx.Carts().RecomputeTotal(ctx, cart.ID)
	})
	if err != nil {
		return errs.From(err)
	}

	s.logger.Info("cart cleared", zap.String("user_id", userID.String()))
	return nil
}

// GetCart returns the user's cart with its lines joined to live
// catalog data for display. Both reads share one transaction holding
// the cart row lock, so the total always matches the returned lines.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, []models.CartItemDetail, *errs.Error) {
	var (
		cart  *models.Cart
		lines []models.CartItemDetail
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		cart, err = tx.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("cart not found")
			}
			return errs.StoreFailure("failed to load cart", err)
		}
		lines, err = tx.Carts().LinesDetailed(ctx, userID)
		if err != nil {
			return errs.StoreFailure("failed to load cart items", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errs.From(err)
	}
	return cart, lines, nil
}

// ownedLine locks the caller's cart, then loads a line and verifies it
// belongs to that cart. Locking first keeps cart-scoped transactions
// ordered the same way everywhere.
func (s *CartService) ownedLine(ctx context.Context, tx repository.Store, userID, lineID uuid.UUID) (*models.CartItem, error) {
	cart, err := tx.Carts().FindByUserIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("cart not found")
		}
		return nil, err
	}

	line, err := tx.Carts().FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("cart item not found")
		}
		return nil, err
	}
	if line.CartID != cart.ID {
		return nil, errs.NotFound("cart item not found")
	}
	return line, nil
}
