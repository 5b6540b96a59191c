package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

func TestUpdateProfile_OwnershipEnforced(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	owner, err := users.Create(context.Background(), models.User{
		Email: "owner@example.com",
		Role:  models.RoleCustomer,
	})
	require.NoError(t, err)

	req := models.UserUpdateRequest{
		Email:     "owner@example.com",
		FirstName: "Renamed",
		LastName:  "Owner",
	}

	// The owner can update their own profile.
	updated, err := svc.UpdateProfile(context.Background(), Actor{UserID: owner.ID, Role: models.RoleCustomer}, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)

	// Another customer cannot.
	_, err = svc.UpdateProfile(context.Background(), Actor{UserID: uuid.New(), Role: models.RoleCustomer}, owner.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	// An admin can.
	_, err = svc.UpdateProfile(context.Background(), Actor{UserID: uuid.New(), Role: models.RoleAdmin}, owner.ID, req)
	assert.NoError(t, err)
}

func TestUpdateProfile_NormalizesEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	owner, err := users.Create(context.Background(), models.User{
		Email: "owner@example.com",
		Role:  models.RoleCustomer,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), Actor{UserID: owner.ID, Role: models.RoleCustomer}, owner.ID, models.UserUpdateRequest{
		Email: "  Owner@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", updated.Email)

	_, err = svc.UpdateProfile(context.Background(), Actor{UserID: owner.ID, Role: models.RoleCustomer}, owner.ID, models.UserUpdateRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
