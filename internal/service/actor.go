package service

import (
	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// Actor is the authenticated identity a request acts as. It is decoded
// by the auth middleware and passed explicitly into workflow calls.
type Actor struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
