package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStore implements Store using GORM over PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository          { return &gormUserRepository{db: s.db} }
func (s *GormStore) Categories() CategoryRepository { return &gormCategoryRepository{db: s.db} }
func (s *GormStore) Software() SoftwareRepository   { return &gormSoftwareRepository{db: s.db} }
func (s *GormStore) Carts() CartRepository          { return &gormCartRepository{db: s.db} }
func (s *GormStore) Purchases() PurchaseRepository  { return &gormPurchaseRepository{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository      { return &gormReviewRepository{db: s.db} }
func (s *GormStore) Tickets() TicketRepository      { return &gormTicketRepository{db: s.db} }

// Transaction runs fn inside one database transaction. The store
// passed to fn is bound to that transaction; returning an error rolls
// everything back.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// translate maps gorm sentinel errors onto repository errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
