package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/models"
	"storefront/repository"
)

// memStore is an in-memory repository.Store for service tests.
// Transaction takes a snapshot of all tables and restores it when fn
// fails, so rollback behaviour can be asserted without a database.
// fail maps an operation name to an injected error.
type memStore struct {
	mu   sync.Mutex
	data memData
	fail map[string]error

	// cartLocks counts FindByUserIDForUpdate calls, so tests can check
	// that cart-scoped transactions take the cart row lock
	cartLocks int
}

type memData struct {
	users      []models.User
	categories []models.Category
	software   []models.Software
	carts      []models.Cart
	cartItems  []models.CartItem
	purchases  []models.Purchase
	reviews    []models.Review
	tickets    []models.SupportTicket
}

func newMemStore() *memStore {
	return &memStore{fail: make(map[string]error)}
}

func (d memData) clone() memData {
	out := memData{
		users:      append([]models.User(nil), d.users...),
		categories: append([]models.Category(nil), d.categories...),
		software:   append([]models.Software(nil), d.software...),
		carts:      append([]models.Cart(nil), d.carts...),
		cartItems:  append([]models.CartItem(nil), d.cartItems...),
		reviews:    append([]models.Review(nil), d.reviews...),
		tickets:    append([]models.SupportTicket(nil), d.tickets...),
	}
	out.purchases = make([]models.Purchase, len(d.purchases))
	for i, p := range d.purchases {
		p.Items = append([]models.PurchaseItem(nil), p.Items...)
		out.purchases[i] = p
	}
	return out
}

func (s *memStore) failure(op string) error { return s.fail[op] }

// Transaction serializes writers like a database would and rolls the
// snapshot back when fn errors.
func (s *memStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&txMemStore{s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *memStore) Users() repository.UserRepository          { return memUsers{s, true} }
func (s *memStore) Categories() repository.CategoryRepository { return memCategories{s, true} }
func (s *memStore) Software() repository.SoftwareRepository   { return memSoftware{s, true} }
func (s *memStore) Carts() repository.CartRepository          { return memCarts{s, true} }
func (s *memStore) Purchases() repository.PurchaseRepository  { return memPurchases{s, true} }
func (s *memStore) Reviews() repository.ReviewRepository      { return memReviews{s, true} }
func (s *memStore) Tickets() repository.TicketRepository      { return memTickets{s, true} }

// txMemStore is the store handed to a Transaction callback; the outer
// Transaction already holds the lock.
type txMemStore struct{ s *memStore }

func (t *txMemStore) Users() repository.UserRepository          { return memUsers{t.s, false} }
func (t *txMemStore) Categories() repository.CategoryRepository { return memCategories{t.s, false} }
func (t *txMemStore) Software() repository.SoftwareRepository   { return memSoftware{t.s, false} }
func (t *txMemStore) Carts() repository.CartRepository          { return memCarts{t.s, false} }
func (t *txMemStore) Purchases() repository.PurchaseRepository  { return memPurchases{t.s, false} }
func (t *txMemStore) Reviews() repository.ReviewRepository      { return memReviews{t.s, false} }
func (t *txMemStore) Tickets() repository.TicketRepository      { return memTickets{t.s, false} }

func (t *txMemStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return fn(t)
}

func unlockOf(s *memStore, lock bool) func() {
	if lock {
		s.mu.Lock()
		return s.mu.Unlock
	}
	return func() {}
}

// ---- users ----

type memUsers struct {
	s    *memStore
	lock bool
}

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	defer unlockOf(r.s, r.lock)()
	for _, u := range r.s.data.users {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = true
	user.CreatedAt = time.Now()
	r.s.data.users = append(r.s.data.users, *user)
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer unlockOf(r.s, r.lock)()
	for _, u := range r.s.data.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer unlockOf(r.s, r.lock)()
	for _, u := range r.s.data.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone string) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.users {
		if r.s.data.users[i].ID == id {
			r.s.data.users[i].Name = name
			r.s.data.users[i].Email = email
			r.s.data.users[i].Phone = phone
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memUsers) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.users {
		if r.s.data.users[i].ID == id {
			r.s.data.users[i].Role = role
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memUsers) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.users {
		if r.s.data.users[i].ID == id {
			r.s.data.users[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memUsers) Search(ctx context.Context, query, sortField, direction string) ([]models.UserWithSpend, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.UserWithSpend
	for _, u := range r.s.data.users {
		if query != "" && !strings.Contains(u.Name, query) && !strings.Contains(u.Email, query) {
			continue
		}
		var spent float64
		for _, p := range r.s.data.purchases {
			if p.UserID == u.ID {
				spent += p.TotalPrice
			}
		}
		out = append(out, models.UserWithSpend{User: u, TotalSpent: spent})
	}
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch sortField {
		case "email":
			less = out[i].Email < out[j].Email
		case "total_spent":
			less = out[i].TotalSpent < out[j].TotalSpent
		case "created_at":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			less = out[i].Name < out[j].Name
		}
		if direction == "desc" {
			return !less
		}
		return less
	})
	return out, nil
}

func (r memUsers) Count(ctx context.Context) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	return int64(len(r.s.data.users)), nil
}

// ---- categories ----

type memCategories struct {
	s    *memStore
	lock bool
}

func (r memCategories) Create(ctx context.Context, category *models.Category) error {
	defer unlockOf(r.s, r.lock)()
	for _, c := range r.s.data.categories {
		if c.Name == category.Name {
			return errors.New("duplicate category name")
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	r.s.data.categories = append(r.s.data.categories, *category)
	return nil
}

func (r memCategories) FindAll(ctx context.Context) ([]models.Category, error) {
	defer unlockOf(r.s, r.lock)()
	return append([]models.Category(nil), r.s.data.categories...), nil
}

func (r memCategories) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	defer unlockOf(r.s, r.lock)()
	for _, c := range r.s.data.categories {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCategories) Update(ctx context.Context, category *models.Category) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.categories {
		if r.s.data.categories[i].ID == category.ID {
			r.s.data.categories[i] = *category
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memCategories) Delete(ctx context.Context, id uuid.UUID) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.categories {
		if r.s.data.categories[i].ID == id {
			r.s.data.categories = append(r.s.data.categories[:i], r.s.data.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ---- software ----

type memSoftware struct {
	s    *memStore
	lock bool
}

func (r memSoftware) Create(ctx context.Context, software *models.Software) error {
	defer unlockOf(r.s, r.lock)()
	if software.ID == uuid.Nil {
		software.ID = uuid.New()
	}
	software.CreatedAt = time.Now()
	r.s.data.software = append(r.s.data.software, *software)
	return nil
}

func (r memSoftware) FindByID(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	defer unlockOf(r.s, r.lock)()
	for _, sw := range r.s.data.software {
		if sw.ID == id {
			out := sw
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memSoftware) List(ctx context.Context, filter models.SoftwareFilter) ([]models.Software, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.Software
	q := strings.ToLower(filter.Query)
	for _, sw := range r.s.data.software {
		if filter.CategoryID != uuid.Nil && sw.CategoryID != filter.CategoryID {
			continue
		}
		if filter.PriceMin != nil && sw.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && sw.Price > *filter.PriceMax {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(sw.Name), q) &&
			!strings.Contains(strings.ToLower(sw.Description), q) &&
			!strings.Contains(strings.ToLower(sw.Developer), q) {
			continue
		}
		out = append(out, sw)
	}
	return out, nil
}

func (r memSoftware) Update(ctx context.Context, software *models.Software) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.software {
		if r.s.data.software[i].ID == software.ID {
			// downloads and rating stay owned by the store
			software.Downloads = r.s.data.software[i].Downloads
			software.RatingAvg = r.s.data.software[i].RatingAvg
			r.s.data.software[i] = *software
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memSoftware) Delete(ctx context.Context, id uuid.UUID) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.software {
		if r.s.data.software[i].ID == id {
			r.s.data.software = append(r.s.data.software[:i], r.s.data.software[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memSoftware) IncrementDownloads(ctx context.Context, id uuid.UUID, by int) error {
	if err := r.s.failure("IncrementDownloads"); err != nil {
		return err
	}
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.software {
		if r.s.data.software[i].ID == id {
			r.s.data.software[i].Downloads += int64(by)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memSoftware) SetRatingAvg(ctx context.Context, id uuid.UUID, avg float64) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.software {
		if r.s.data.software[i].ID == id {
			r.s.data.software[i].RatingAvg = avg
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memSoftware) Bestsellers(ctx context.Context, limit int) ([]models.Software, error) {
	defer unlockOf(r.s, r.lock)()
	out := append([]models.Software(nil), r.s.data.software...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Downloads > out[j].Downloads })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memSoftware) TopRated(ctx context.Context, limit int) ([]models.Software, error) {
	defer unlockOf(r.s, r.lock)()
	out := append([]models.Software(nil), r.s.data.software...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RatingAvg > out[j].RatingAvg })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memSoftware) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	var count int64
	for _, sw := range r.s.data.software {
		if sw.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r memSoftware) Count(ctx context.Context) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	return int64(len(r.s.data.software)), nil
}

// ---- carts ----

type memCarts struct {
	s    *memStore
	lock bool
}

func (r memCarts) Create(ctx context.Context, cart *models.Cart) error {
	defer unlockOf(r.s, r.lock)()
	for _, c := range r.s.data.carts {
		if c.UserID == cart.UserID {
			return errors.New("cart already exists")
		}
	}
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	r.s.data.carts = append(r.s.data.carts, *cart)
	return nil
}

func (r memCarts) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	defer unlockOf(r.s, r.lock)()
	for _, c := range r.s.data.carts {
		if c.UserID == userID {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCarts) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	defer unlockOf(r.s, r.lock)()
	r.s.cartLocks++
	for _, c := range r.s.data.carts {
		if c.UserID == userID {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCarts) FindLine(ctx context.Context, cartID, softwareID uuid.UUID) (*models.CartItem, error) {
	defer unlockOf(r.s, r.lock)()
	for _, l := range r.s.data.cartItems {
		if l.CartID == cartID && l.SoftwareID == softwareID {
			out := l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCarts) FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error) {
	defer unlockOf(r.s, r.lock)()
	for _, l := range r.s.data.cartItems {
		if l.ID == lineID {
			out := l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCarts) InsertLine(ctx context.Context, line *models.CartItem) error {
	defer unlockOf(r.s, r.lock)()
	for _, l := range r.s.data.cartItems {
		if l.CartID == line.CartID && l.SoftwareID == line.SoftwareID {
			return errors.New("duplicate cart line")
		}
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.AddedAt = time.Now()
	r.s.data.cartItems = append(r.s.data.cartItems, *line)
	return nil
}

func (r memCarts) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.cartItems {
		if r.s.data.cartItems[i].ID == lineID {
			r.s.data.cartItems[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memCarts) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.cartItems {
		if r.s.data.cartItems[i].ID == lineID {
			r.s.data.cartItems = append(r.s.data.cartItems[:i], r.s.data.cartItems[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memCarts) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	if err := r.s.failure("DeleteLines"); err != nil {
		return err
	}
	defer unlockOf(r.s, r.lock)()
	kept := r.s.data.cartItems[:0]
	for _, l := range r.s.data.cartItems {
		if l.CartID != cartID {
			kept = append(kept, l)
		}
	}
	r.s.data.cartItems = append([]models.CartItem(nil), kept...)
	return nil
}

func (r memCarts) RecomputeTotal(ctx context.Context, cartID uuid.UUID) error {
	defer unlockOf(r.s, r.lock)()
	var total float64
	for _, l := range r.s.data.cartItems {
		if l.CartID == cartID {
			total += float64(l.Quantity) * l.PriceAtAdd
		}
	}
	for i := range r.s.data.carts {
		if r.s.data.carts[i].ID == cartID {
			r.s.data.carts[i].TotalPrice = total
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memCarts) Lines(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.CartItem
	for _, l := range r.s.data.cartItems {
		if l.CartID == cartID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memCarts) LinesDetailed(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error) {
	defer unlockOf(r.s, r.lock)()
	var cartID uuid.UUID
	for _, c := range r.s.data.carts {
		if c.UserID == userID {
			cartID = c.ID
		}
	}
	var out []models.CartItemDetail
	for _, l := range r.s.data.cartItems {
		if l.CartID != cartID {
			continue
		}
		detail := models.CartItemDetail{CartItem: l}
		for _, sw := range r.s.data.software {
			if sw.ID == l.SoftwareID {
				detail.Name = sw.Name
				detail.Developer = sw.Developer
				detail.ImageURL = sw.ImageURL
			}
		}
		out = append(out, detail)
	}
	return out, nil
}

func (r memCarts) CountLinesForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	var count int64
	for _, l := range r.s.data.cartItems {
		if l.SoftwareID == softwareID {
			count++
		}
	}
	return count, nil
}

func (r memCarts) CountActiveCarts(ctx context.Context) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	var count int64
	for _, c := range r.s.data.carts {
		if c.TotalPrice > 0 {
			count++
		}
	}
	return count, nil
}

// ---- purchases ----

type memPurchases struct {
	s    *memStore
	lock bool
}

func (r memPurchases) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := r.s.failure("CreatePurchase"); err != nil {
		return err
	}
	defer unlockOf(r.s, r.lock)()
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	purchase.PurchasedAt = time.Now()
	for i := range purchase.Items {
		if purchase.Items[i].ID == uuid.Nil {
			purchase.Items[i].ID = uuid.New()
		}
		purchase.Items[i].PurchaseID = purchase.ID
	}
	stored := *purchase
	stored.Items = append([]models.PurchaseItem(nil), purchase.Items...)
	r.s.data.purchases = append(r.s.data.purchases, stored)
	return nil
}

func (r memPurchases) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	defer unlockOf(r.s, r.lock)()
	for _, p := range r.s.data.purchases {
		if p.ID == id {
			out := p
			out.Items = append([]models.PurchaseItem(nil), p.Items...)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memPurchases) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.Purchase
	for _, p := range r.s.data.purchases {
		if p.UserID == userID {
			p.Items = append([]models.PurchaseItem(nil), p.Items...)
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, nil
}

func (r memPurchases) ListAll(ctx context.Context) ([]models.PurchaseWithUser, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.PurchaseWithUser
	for _, p := range r.s.data.purchases {
		row := models.PurchaseWithUser{Purchase: p}
		for _, u := range r.s.data.users {
			if u.ID == p.UserID {
				row.UserName = u.Name
				row.UserEmail = u.Email
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r memPurchases) HasCompletedPurchase(ctx context.Context, userID, softwareID uuid.UUID) (bool, error) {
	defer unlockOf(r.s, r.lock)()
	for _, p := range r.s.data.purchases {
		if p.UserID != userID || p.Status != models.PurchaseStatusCompleted {
			continue
		}
		for _, item := range p.Items {
			if item.SoftwareID == softwareID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r memPurchases) CountItemsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	var count int64
	for _, p := range r.s.data.purchases {
		for _, item := range p.Items {
			if item.SoftwareID == softwareID {
				count++
			}
		}
	}
	return count, nil
}

func (r memPurchases) Count(ctx context.Context) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	return int64(len(r.s.data.purchases)), nil
}

func (r memPurchases) TotalRevenue(ctx context.Context) (float64, error) {
	defer unlockOf(r.s, r.lock)()
	var revenue float64
	for _, p := range r.s.data.purchases {
		if p.Status == models.PurchaseStatusCompleted {
			revenue += p.TotalPrice
		}
	}
	return revenue, nil
}

// ---- reviews ----

type memReviews struct {
	s    *memStore
	lock bool
}

func (r memReviews) Create(ctx context.Context, review *models.Review) error {
	defer unlockOf(r.s, r.lock)()
	for _, rv := range r.s.data.reviews {
		if rv.UserID == review.UserID && rv.SoftwareID == review.SoftwareID {
			return errors.New("duplicate review")
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	r.s.data.reviews = append(r.s.data.reviews, *review)
	return nil
}

func (r memReviews) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	defer unlockOf(r.s, r.lock)()
	for _, rv := range r.s.data.reviews {
		if rv.ID == id {
			out := rv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memReviews) FindByUserAndSoftware(ctx context.Context, userID, softwareID uuid.UUID) (*models.Review, error) {
	defer unlockOf(r.s, r.lock)()
	for _, rv := range r.s.data.reviews {
		if rv.UserID == userID && rv.SoftwareID == softwareID {
			out := rv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memReviews) Update(ctx context.Context, review *models.Review) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.reviews {
		if r.s.data.reviews[i].ID == review.ID {
			review.UpdatedAt = time.Now()
			r.s.data.reviews[i] = *review
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memReviews) Delete(ctx context.Context, id uuid.UUID) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.reviews {
		if r.s.data.reviews[i].ID == id {
			r.s.data.reviews = append(r.s.data.reviews[:i], r.s.data.reviews[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memReviews) ForSoftware(ctx context.Context, softwareID uuid.UUID) ([]models.ReviewWithUser, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.ReviewWithUser
	for _, rv := range r.s.data.reviews {
		if rv.SoftwareID != softwareID {
			continue
		}
		row := models.ReviewWithUser{Review: rv}
		for _, u := range r.s.data.users {
			if u.ID == rv.UserID {
				row.UserName = u.Name
				row.UserEmail = u.Email
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r memReviews) Recent(ctx context.Context, limit int) ([]models.ReviewFeedItem, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.ReviewFeedItem
	for _, rv := range r.s.data.reviews {
		row := models.ReviewFeedItem{Review: rv}
		for _, u := range r.s.data.users {
			if u.ID == rv.UserID {
				row.UserName = u.Name
				row.UserEmail = u.Email
			}
		}
		for _, sw := range r.s.data.software {
			if sw.ID == rv.SoftwareID {
				row.SoftwareName = sw.Name
			}
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memReviews) AverageForSoftware(ctx context.Context, softwareID uuid.UUID) (float64, error) {
	defer unlockOf(r.s, r.lock)()
	var sum, count float64
	for _, rv := range r.s.data.reviews {
		if rv.SoftwareID == softwareID {
			sum += float64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

// ---- tickets ----

type memTickets struct {
	s    *memStore
	lock bool
}

func (r memTickets) Create(ctx context.Context, ticket *models.SupportTicket) error {
	defer unlockOf(r.s, r.lock)()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusNew
	}
	ticket.CreatedAt = time.Now()
	r.s.data.tickets = append(r.s.data.tickets, *ticket)
	return nil
}

func (r memTickets) ListByStatus(ctx context.Context, status string) ([]models.SupportTicket, error) {
	defer unlockOf(r.s, r.lock)()
	var out []models.SupportTicket
	for _, t := range r.s.data.tickets {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTickets) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	defer unlockOf(r.s, r.lock)()
	for i := range r.s.data.tickets {
		if r.s.data.tickets[i].ID == id {
			r.s.data.tickets[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memTickets) CountActive(ctx context.Context) (int64, error) {
	defer unlockOf(r.s, r.lock)()
	var count int64
	for _, t := range r.s.data.tickets {
		if t.Status != models.TicketStatusClosed {
			count++
		}
	}
	return count, nil
}

// ---- seed helpers ----

func seedUserWithCart(s *memStore) (uuid.UUID, uuid.UUID) {
	user := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Password: "x", Name: "Test User"}
	cart := models.Cart{ID: uuid.New(), UserID: user.ID}
	s.data.users = append(s.data.users, user)
	s.data.carts = append(s.data.carts, cart)
	return user.ID, cart.ID
}

func seedSoftware(s *memStore, name string, price float64) uuid.UUID {
	category := models.Category{ID: uuid.New(), Name: "Category " + uuid.NewString()}
	software := models.Software{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		CategoryID: category.ID,
		Developer:  "Acme Soft",
	}
	s.data.categories = append(s.data.categories, category)
	s.data.software = append(s.data.software, software)
	return software.ID
}

func (s *memStore) cartTotal(cartID uuid.UUID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.carts {
		if c.ID == cartID {
			return c.TotalPrice
		}
	}
	return -1
}

func (s *memStore) lineCount(cartID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.data.cartItems {
		if l.CartID == cartID {
			n++
		}
	}
	return n
}

func (s *memStore) softwareByID(id uuid.UUID) models.Software {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sw := range s.data.software {
		if sw.ID == id {
			return sw
		}
	}
	return models.Software{}
}

func (s *memStore) setPrice(id uuid.UUID, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.software {
		if s.data.software[i].ID == id {
			s.data.software[i].Price = price
		}
	}
}
