package repository

import (
	"github.com/andreicosmin02/furniture-store-api/internal/db"
)

// Repositories provides access to all repository instances
type Repositories struct {
	User    *UserRepository
	Product *ProductRepository
	Order   *OrderRepository
}

// NewRepositories creates a new repositories container
func NewRepositories(database *db.Postgres) *Repositories {
	return &Repositories{
		User:    NewUserRepository(database.DB),
		Product: NewProductRepository(database.DB),
		Order:   NewOrderRepository(database.DB),
	}
}
