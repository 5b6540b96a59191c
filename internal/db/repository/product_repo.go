package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// ProductRepository handles catalog data access
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, category, short_description, long_description, price, quantity, image_key, created_at, updated_at`

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, category, short_description, long_description, price, quantity, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	var created models.Product
	err := r.db.GetContext(ctx, &created, query,
		product.Name, product.Category, product.ShortDescription,
		product.LongDescription, product.Price, product.Quantity, product.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product models.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// List retrieves all products, newest first
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	var products []models.Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ListByCategory retrieves all products in a category
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at DESC`

	var products []models.Product
	err := r.db.SelectContext(ctx, &products, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}

	return products, nil
}

// Categories retrieves the distinct product categories
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SelectContext(ctx, &categories,
		"SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// RandomPerCategory retrieves one random product from each category
func (r *ProductRepository) RandomPerCategory(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT DISTINCT ON (category) ` + productColumns + `
		FROM products
		ORDER BY category, random()
	`

	var products []models.Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample products: %w", err)
	}

	return products, nil
}

// Update replaces a product's fields
func (r *ProductRepository) Update(ctx context.Context, product models.Product) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, category = $2, short_description = $3, long_description = $4,
		    price = $5, quantity = $6, image_key = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + productColumns

	var updated models.Product
	err := r.db.GetContext(ctx, &updated, query,
		product.Name, product.Category, product.ShortDescription,
		product.LongDescription, product.Price, product.Quantity,
		product.ImageKey, time.Now(), product.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &updated, nil
}

// SetStock sets the quantity on hand directly
func (r *ProductRepository) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error) {
	query := `
		UPDATE products
		SET quantity = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + productColumns

	var updated models.Product
	err := r.db.GetContext(ctx, &updated, query, quantity, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	return &updated, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
