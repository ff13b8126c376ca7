package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/errs"
	"storefront/models"
	"storefront/repository"
)

// ReviewService keeps one review per (user, software) and recomputes
// the software's average rating in the same transaction as every
// review mutation.
type ReviewService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewReviewService(store repository.Store, logger *zap.Logger) *ReviewService {
	return &ReviewService{store: store, logger: logger}
}

// Submit creates or overwrites the caller's review for the software.
// Only users with at least one completed purchase of the software may
// review it.
func (s *ReviewService) Submit(ctx context.Context, userID, softwareID uuid.UUID, rating int, comment string) (*models.Review, *errs.Error) {
	if rating < 1 || rating > 5 {
		return nil, errs.InvalidInput("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, errs.InvalidInput("review text must not be empty")
	}

	var review *models.Review
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		eligible, err := tx.Purchases().HasCompletedPurchase(ctx, userID, softwareID)
		if err != nil {
			return err
		}
		if !eligible {
			return errs.Unauthorized("only buyers of this product may review it")
		}

		existing, err := tx.Reviews().FindByUserAndSoftware(ctx, userID, softwareID)
		switch {
		case err == nil:
			existing.Rating = rating
			existing.Comment = comment
			if err := tx.Reviews().Update(ctx, existing); err != nil {
				return err
			}
			review = existing
		case errors.Is(err, repository.ErrNotFound):
			review = &models.Review{
				UserID:     userID,
				SoftwareID: softwareID,
				Rating:     rating,
				Comment:    comment,
			}
			if err := tx.Reviews().Create(ctx, review); err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeRating(ctx, tx, softwareID)
	})
	if err != nil {
		return nil, errs.From(err)
	}

	s.logger.Info("review saved",
		zap.String("user_id", userID.String()),
		zap.String("software_id", softwareID.String()),
		zap.Int("rating", rating),
	)
	return review, nil
}

// Update rewrites an existing review's rating and comment (moderation
// path) and recomputes the software's average.
func (s *ReviewService) Update(ctx context.Context, reviewID uuid.UUID, rating int, comment string) *errs.Error {
	if rating < 1 || rating > 5 {
		return errs.InvalidInput("rating must be between 1 and 5")
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("review not found")
			}
			return err
		}

		review.Rating = rating
		if comment != "" {
			review.Comment = comment
		}
		if err := tx.Reviews().Update(ctx, review); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, review.SoftwareID)
	})
	if err != nil {
		return errs.From(err)
	}
	return nil
}

// Delete removes a review (moderation path) and recomputes the
// software's average, which drops to 0 when no reviews remain.
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID) *errs.Error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("review not found")
			}
			return err
		}

		if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, review.SoftwareID)
	})
	if err != nil {
		return errs.From(err)
	}

	s.logger.Info("review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

// ForSoftware returns the software's reviews with reviewer identity.
func (s *ReviewService) ForSoftware(ctx context.Context, softwareID uuid.UUID) ([]models.ReviewWithUser, *errs.Error) {
	reviews, err := s.store.Reviews().ForSoftware(ctx, softwareID)
	if err != nil {
		return nil, errs.StoreFailure("failed to load reviews", err)
	}
	return reviews, nil
}

// Recent returns the latest reviews across the catalog (moderation feed).
func (s *ReviewService) Recent(ctx context.Context, limit int) ([]models.ReviewFeedItem, *errs.Error) {
	if limit <= 0 {
		limit = 100
	}
	reviews, err := s.store.Reviews().Recent(ctx, limit)
	if err != nil {
		return nil, errs.StoreFailure("failed to load reviews", err)
	}
	return reviews, nil
}

// HasCompletedPurchase reports review eligibility for the (user,
// software) pair.
func (s *ReviewService) HasCompletedPurchase(ctx context.Context, userID, softwareID uuid.UUID) (bool, *errs.Error) {
	ok, err := s.store.Purchases().HasCompletedPurchase(ctx, userID, softwareID)
	if err != nil {
		return false, errs.StoreFailure("failed to check purchases", err)
	}
	return ok, nil
}

// recomputeRating rewrites software.rating_avg from the current review
// set inside the caller's transaction.
func recomputeRating(ctx context.Context, tx repository.Store, softwareID uuid.UUID) error {
	avg, err := tx.Reviews().AverageForSoftware(ctx, softwareID)
	if err != nil {
		return err
	}
	return tx.Software().SetRatingAvg(ctx, softwareID, avg)
}
