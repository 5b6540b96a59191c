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

// OrderRepository handles order data access
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, status, delivery_full_name, delivery_phone, delivery_email,
	delivery_address, delivery_notes, ordered_at, created_at, updated_at`

// Create persists an order and its lines and decrements product stock,
// all in one transaction. Each decrement is conditional on sufficient
// quantity, so two orders racing for the last units cannot both
// succeed: the loser's decrement matches zero rows and the whole
// transaction rolls back with ErrInsufficientStock.
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var created models.Order
	err = tx.GetContext(ctx, &created, `
		INSERT INTO orders (user_id, status, delivery_full_name, delivery_phone,
		                    delivery_email, delivery_address, delivery_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		order.UserID, models.OrderStatusPending,
		order.DeliveryInfo.FullName, order.DeliveryInfo.Phone,
		order.DeliveryInfo.Email, order.DeliveryInfo.Address,
		order.DeliveryInfo.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range order.Lines {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = quantity - $1, updated_at = $2
			WHERE id = $3 AND quantity >= $1`,
			line.Quantity, time.Now(), line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, ErrInsufficientStock)
		}

		var createdLine models.OrderLine
		err = tx.GetContext(ctx, &createdLine, `
			INSERT INTO order_lines (order_id, product_id, quantity, status, customization, custom_image_key)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, order_id, product_id, quantity, status, customization, custom_image_key, created_at, updated_at`,
			created.ID, line.ProductID, line.Quantity,
			models.OrderStatusPending, line.Customization, line.CustomImageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}

		created.Lines = append(created.Lines, createdLine)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &created, nil
}

// GetByID retrieves an order with its lines
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	lines, err := r.getLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

// getLines retrieves the lines of an order with product name and price joined in
func (r *OrderRepository) getLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	query := `
		SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.status,
		       ol.customization, ol.custom_image_key, ol.created_at, ol.updated_at,
		       p.name AS product_name, p.price AS product_price
		FROM order_lines ol
		JOIN products p ON ol.product_id = p.id
		WHERE ol.order_id = $1
		ORDER BY ol.created_at ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		var name string
		var price float64
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity,
			&line.Status, &line.Customization, &line.CustomImageKey,
			&line.CreatedAt, &line.UpdatedAt, &name, &price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line.ProductName = name
		line.ProductPrice = price
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}

	return lines, nil
}

// ListByUser retrieves a user's orders, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY ordered_at DESC`

	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		lines, err := r.getLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

// ListAll retrieves every order, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY ordered_at DESC LIMIT 100`

	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		lines, err := r.getLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

// SaveStatus persists the order status and every line status as already
// computed on the model (see Order.ApplyStatus).
func (r *OrderRepository) SaveStatus(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		order.Status, time.Now(), order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			"UPDATE order_lines SET status = $1, updated_at = $2 WHERE id = $3",
			line.Status, time.Now(), line.ID)
		if err != nil {
			return fmt.Errorf("failed to update line status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetLineStatusByProduct sets the status of the line holding the given
// product within an order. It does not touch the order's own status.
func (r *OrderRepository) SetLineStatusByProduct(ctx context.Context, orderID, productID uuid.UUID, status models.OrderStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE order_lines
		SET status = $1, updated_at = $2
		WHERE order_id = $3 AND product_id = $4`,
		status, time.Now(), orderID, productID)
	if err != nil {
		return fmt.Errorf("failed to update line status: %w", err)
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

// GetLine retrieves a single line of an order
func (r *OrderRepository) GetLine(ctx context.Context, orderID, lineID uuid.UUID) (*models.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, status, customization, custom_image_key, created_at, updated_at
		FROM order_lines
		WHERE id = $1 AND order_id = $2
	`

	var line models.OrderLine
	err := r.db.GetContext(ctx, &line, query, lineID, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order line: %w", err)
	}

	return &line, nil
}
