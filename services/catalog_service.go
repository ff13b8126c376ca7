package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/errs"
	"storefront/models"
	"storefront/repository"
)

// CatalogCache caches catalog listings. Implementations invalidate by
// bumping a version key rather than deleting entries.
type CatalogCache interface {
	GetList(ctx context.Context, key string) ([]models.Software, bool)
	SetList(ctx context.Context, key string, items []models.Software)
	Invalidate(ctx context.Context)
}

// CatalogService is admin-driven CRUD over categories and software
// plus the public listing queries. Deletes are guarded so historical
// purchase snapshots never lose their referents.
type CatalogService struct {
	store  repository.Store
	cache  CatalogCache
	logger *zap.Logger
}

func NewCatalogService(store repository.Store, cache CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, cache: cache, logger: logger}
}

// ---- categories ----

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, *errs.Error) {
	if name == "" {
		return nil, errs.InvalidInput("category name is required")
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, errs.Conflict("category with this name already exists")
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, *errs.Error) {
	categories, err := s.store.Categories().FindAll(ctx)
	if err != nil {
		return nil, errs.StoreFailure("failed to load categories", err)
	}
	return categories, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name, description string) *errs.Error {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs.NotFound("category not found")
		}
		return errs.StoreFailure("failed to load category", err)
	}

	if name != "" {
		category.Name = name
	}
	if description != "" {
		category.Description = description
	}
	if err := s.store.Categories().Update(ctx, category); err != nil {
		return errs.StoreFailure("failed to update category", err)
	}
	s.invalidate(ctx)
	return nil
}

// DeleteCategory refuses to delete a category that still has software.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) *errs.Error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		count, err := tx.Software().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.Conflict(fmt.Sprintf("category still referenced by %d software items", count))
		}

		if err := tx.Categories().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("category not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return errs.From(err)
	}

	s.invalidate(ctx)
	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}

// ---- software ----

func (s *CatalogService) CreateSoftware(ctx context.Context, software *models.Software) *errs.Error {
	if software.Name == "" || software.Developer == "" {
		return errs.InvalidInput("name and developer are required")
	}
	if software.Price < 0 {
		return errs.InvalidInput("price must not be negative")
	}
	if _, err := s.store.Categories().FindByID(ctx, software.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs.NotFound("category not found")
		}
		return errs.StoreFailure("failed to load category", err)
	}

	if err := s.store.Software().Create(ctx, software); err != nil {
		return errs.StoreFailure("failed to create software", err)
	}
	s.invalidate(ctx)
	s.logger.Info("software created",
		zap.String("software_id", software.ID.String()),
		zap.String("name", software.Name),
	)
	return nil
}

func (s *CatalogService) GetSoftware(ctx context.Context, id uuid.UUID) (*models.Software, *errs.Error) {
	software, err := s.store.Software().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("software not found")
		}
		return nil, errs.StoreFailure("failed to load software", err)
	}
	return software, nil
}

func (s *CatalogService) ListSoftware(ctx context.Context, filter models.SoftwareFilter) ([]models.Software, *errs.Error) {
	software, err := s.store.Software().List(ctx, filter)
	if err != nil {
		return nil, errs.StoreFailure("failed to load software", err)
	}
	return software, nil
}

// UpdateSoftware applies admin edits. Downloads and rating_avg are
// derived fields and are never written here.
func (s *CatalogService) UpdateSoftware(ctx context.Context, id uuid.UUID, name, description, developer, imageURL string, price *float64, categoryID uuid.UUID) *errs.Error {
	software, err := s.store.Software().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs.NotFound("software not found")
		}
		return errs.StoreFailure("failed to load software", err)
	}

	if name != "" {
		software.Name = name
	}
	if description != "" {
		software.Description = description
	}
	if developer != "" {
		software.Developer = developer
	}
	if imageURL != "" {
		software.ImageURL = imageURL
	}
	if price != nil {
		if *price < 0 {
			return errs.InvalidInput("price must not be negative")
		}
		software.Price = *price
	}
	if categoryID != uuid.Nil {
		if _, err := s.store.Categories().FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("category not found")
			}
			return errs.StoreFailure("failed to load category", err)
		}
		software.CategoryID = categoryID
	}
	software.Category = nil

	if err := s.store.Software().Update(ctx, software); err != nil {
		return errs.StoreFailure("failed to update software", err)
	}
	s.invalidate(ctx)
	return nil
}

// DeleteSoftware refuses to delete software still referenced by cart
// lines or purchase snapshots.
func (s *CatalogService) DeleteSoftware(ctx context.Context, id uuid.UUID) *errs.Error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		inCarts, err := tx.Carts().CountLinesForSoftware(ctx, id)
		if err != nil {
			return err
		}
		inPurchases, err := tx.Purchases().CountItemsForSoftware(ctx, id)
		if err != nil {
			return err
		}
		if inCarts > 0 || inPurchases > 0 {
			return errs.Conflict("software is referenced by carts or purchase history")
		}

		if err := tx.Software().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("software not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return errs.From(err)
	}

	s.invalidate(ctx)
	s.logger.Info("software deleted", zap.String("software_id", id.String()))
	return nil
}

// Bestsellers returns the most downloaded software, cached.
func (s *CatalogService) Bestsellers(ctx context.Context, limit int) ([]models.Software, *errs.Error) {
	if limit <= 0 {
		limit = 10
	}
	return s.cachedList(ctx, fmt.Sprintf("bestsellers:%d", limit), func() ([]models.Software, error) {
		return s.store.Software().Bestsellers(ctx, limit)
	})
}

// TopRated returns the highest rated software, cached.
func (s *CatalogService) TopRated(ctx context.Context, limit int) ([]models.Software, *errs.Error) {
	if limit <= 0 {
		limit = 10
	}
	return s.cachedList(ctx, fmt.Sprintf("toprated:%d", limit), func() ([]models.Software, error) {
		return s.store.Software().TopRated(ctx, limit)
	})
}

// Statistics returns the admin dashboard counters.
func (s *CatalogService) Statistics(ctx context.Context) (*models.SalesStatistics, *errs.Error) {
	stats := &models.SalesStatistics{}
	var err error

	if stats.TotalPurchases, err = s.store.Purchases().Count(ctx); err != nil {
		return nil, errs.StoreFailure("failed to load statistics", err)
	}
	if stats.TotalRevenue, err = s.store.Purchases().TotalRevenue(ctx); err != nil {
		return nil, errs.StoreFailure("failed to load statistics", err)
	}
	if stats.ActiveCarts, err = s.store.Carts().CountActiveCarts(ctx); err != nil {
		return nil, errs.StoreFailure("failed to load statistics", err)
	}
	if stats.TotalUsers, err = s.store.Users().Count(ctx); err != nil {
		return nil, errs.StoreFailure("failed to load statistics", err)
	}
	if stats.TotalSoftware, err = s.store.Software().Count(ctx); err != nil {
		return nil, errs.StoreFailure("failed to load statistics", err)
	}
	return stats, nil
}

func (s *CatalogService) cachedList(ctx context.Context, key string, load func() ([]models.Software, error)) ([]models.Software, *errs.Error) {
	if s.cache != nil {
		if items, ok := s.cache.GetList(ctx, key); ok {
			return items, nil
		}
	}

	items, err := load()
	if err != nil {
		return nil, errs.StoreFailure("failed to load software", err)
	}
	if s.cache != nil {
		s.cache.SetList(ctx, key, items)
	}
	return items, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
