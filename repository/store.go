package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/models"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the single logical data store shared by all request
// handlers. Transaction runs fn against a store bound to one database
// transaction; any error rolls the whole unit back.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Software() SoftwareRepository
	Carts() CartRepository
	Purchases() PurchaseRepository
	Reviews() ReviewRepository
	Tickets() TicketRepository

	Transaction(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone string) error
	SetRole(ctx context.Context, id uuid.UUID, role string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Search(ctx context.Context, query, sortField, direction string) ([]models.UserWithSpend, error)
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SoftwareRepository interface {
	Create(ctx context.Context, software *models.Software) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Software, error)
	List(ctx context.Context, filter models.SoftwareFilter) ([]models.Software, error)
	Update(ctx context.Context, software *models.Software) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementDownloads(ctx context.Context, id uuid.UUID, by int) error
	SetRatingAvg(ctx context.Context, id uuid.UUID, avg float64) error
	Bestsellers(ctx context.Context, limit int) ([]models.Software, error)
	TopRated(ctx context.Context, limit int) ([]models.Software, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// FindByUserIDForUpdate locks the cart row until the surrounding
	// transaction ends. Every cart-scoped transaction takes this lock
	// first, so concurrent mutations of one cart serialize and a
	// read-modify-write of a line quantity cannot lose an update.
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindLine(ctx context.Context, cartID, softwareID uuid.UUID) (*models.CartItem, error)
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error)
	InsertLine(ctx context.Context, line *models.CartItem) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLines(ctx context.Context, cartID uuid.UUID) error
	// RecomputeTotal rewrites the cart total from its current lines;
	// callers run it in the same transaction as the line mutation.
	RecomputeTotal(ctx context.Context, cartID uuid.UUID) error
	Lines(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	LinesDetailed(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error)
	CountLinesForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error)
	CountActiveCarts(ctx context.Context) (int64, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
	ListAll(ctx context.Context) ([]models.PurchaseWithUser, error)
	HasCompletedPurchase(ctx context.Context, userID, softwareID uuid.UUID) (bool, error)
	CountItemsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByUserAndSoftware(ctx context.Context, userID, softwareID uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ForSoftware(ctx context.Context, softwareID uuid.UUID) ([]models.ReviewWithUser, error)
	Recent(ctx context.Context, limit int) ([]models.ReviewFeedItem, error)
	AverageForSoftware(ctx context.Context, softwareID uuid.UUID) (float64, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	ListByStatus(ctx context.Context, status string) ([]models.SupportTicket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountActive(ctx context.Context) (int64, error)
}
