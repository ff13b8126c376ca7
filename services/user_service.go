package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/errs"
	"storefront/models"
	"storefront/repository"
)

// UserService manages accounts. Every user gets exactly one cart,
// created atomically with registration.
type UserService struct {
	store  repository.Store
	tokens *TokenService
	logger *zap.Logger
}

func NewUserService(store repository.Store, tokens *TokenService, logger *zap.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, logger: logger}
}

// Register creates a user with a hashed credential and their cart in
// one transaction.
func (s *UserService) Register(ctx context.Context, email, password, name, phone string) (*models.User, *errs.Error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" || name == "" {
		return nil, errs.InvalidInput("email, password and name are required")
	}
	if len(password) < 8 {
		return nil, errs.InvalidInput("password must be at least 8 characters long")
	}

	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, errs.Conflict("user with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, errs.StoreFailure("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.StoreFailure("failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Phone:    phone,
		Role:     models.RoleUser,
		IsActive: true,
	}
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Carts().Create(ctx, &models.Cart{UserID: user.ID})
	})
	if txErr != nil {
		return nil, errs.StoreFailure("failed to register user", txErr)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
	)
	return user, nil
}

// Login checks credentials and returns a signed token carrying the
// user's id and role.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, *errs.Error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, errs.Unauthorized("invalid email or password")
		}
		return "", nil, errs.StoreFailure("failed to load user", err)
	}
	if !user.IsActive {
		return "", nil, errs.Forbidden("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errs.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, errs.StoreFailure("failed to issue token", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, user, nil
}

// GetByID loads a user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, *errs.Error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.StoreFailure("failed to load user", err)
	}
	return user, nil
}

// UpdateProfile changes name, email and phone; the new email must not
// belong to another user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email, phone string) *errs.Error {
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" {
		return errs.InvalidInput("name and email are required")
	}

	other, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil && other.ID != userID {
		return errs.Conflict("user with this email already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return errs.StoreFailure("failed to check email", err)
	}

	if err := s.store.Users().UpdateProfile(ctx, userID, name, email, phone); err != nil {
		return errs.StoreFailure("failed to update profile", err)
	}
	return nil
}

// Search lists users with their total spend (admin). Sort fields are
// allow-listed in the repository.
func (s *UserService) Search(ctx context.Context, query, sortField, direction string) ([]models.UserWithSpend, *errs.Error) {
	users, err := s.store.Users().Search(ctx, query, sortField, direction)
	if err != nil {
		return nil, errs.StoreFailure("failed to search users", err)
	}
	return users, nil
}

// SetRole changes a user's role (admin).
func (s *UserService) SetRole(ctx context.Context, userID uuid.UUID, role string) *errs.Error {
	if !models.ValidRole(role) {
		return errs.InvalidInput("unknown role")
	}
	if _, appErr := s.GetByID(ctx, userID); appErr != nil {
		return appErr
	}
	if err := s.store.Users().SetRole(ctx, userID, role); err != nil {
		return errs.StoreFailure("failed to set role", err)
	}
	s.logger.Info("user role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role),
	)
	return nil
}

// SetActive blocks or unblocks a user (admin).
func (s *UserService) SetActive(ctx context.Context, userID uuid.UUID, active bool) *errs.Error {
	if _, appErr := s.GetByID(ctx, userID); appErr != nil {
		return appErr
	}
	if err := s.store.Users().SetActive(ctx, userID, active); err != nil {
		return errs.StoreFailure("failed to update user", err)
	}
	return nil
}
