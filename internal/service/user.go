package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// UserService handles profile reads and updates
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile updates a user's name and email. Non-admins may only
// update their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, id uuid.UUID, req models.UserUpdateRequest) (*models.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}

	if req.Email == "" {
		return nil, fmt.Errorf("email is required: %w", ErrInvalidInput)
	}
	req.Email = normalizeEmail(req.Email)

	return s.users.UpdateProfile(ctx, id, req)
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
