package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

// OrderStore is the persistence surface the order workflow needs.
// Create must be all-or-nothing: it persists the order and its lines
// and decrements product stock conditionally, failing with
// repository.ErrInsufficientStock without any mutation when stock ran
// out between validation and commit.
type OrderStore interface {
	Create(ctx context.Context, order models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	SaveStatus(ctx context.Context, order *models.Order) error
	SetLineStatusByProduct(ctx context.Context, orderID, productID uuid.UUID, status models.OrderStatus) error
	GetLine(ctx context.Context, orderID, lineID uuid.UUID) (*models.OrderLine, error)
}

// OrderService handles the order lifecycle against the catalog
type OrderService struct {
	orders   OrderStore
	products ProductStore
	media    storage.Store
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, products ProductStore, media storage.Store) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		media:    media,
	}
}

// Create validates every requested line against the catalog before any
// stock is touched. Only when all lines pass does the store persist
// the order and decrement stock, atomically per order.
func (s *OrderService) Create(ctx context.Context, actor Actor, req models.OrderRequest) (*models.Order, error) {
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("at least one product is required: %w", ErrInvalidInput)
	}
	if err := validateDeliveryInfo(req.DeliveryInfo); err != nil {
		return nil, err
	}

	// Validation pass: all lines must resolve and be in stock before
	// anything is written.
	for _, item := range req.Products {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", item.ProductID, ErrInvalidInput)
		}
		if product.Quantity < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %s: %w", product.Name, ErrInvalidInput)
		}
	}

	order := models.Order{
		UserID:       actor.UserID,
		DeliveryInfo: req.DeliveryInfo,
	}

	for _, item := range req.Products {
		line := models.OrderLine{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Customization: item.CustomizationAnalysis,
		}

		// Custom images travel as base64 in the request but are stored
		// in the media store; the order keeps only the key.
		if item.FurnitureImageBase64 != "" {
			data, err := base64.StdEncoding.DecodeString(item.FurnitureImageBase64)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 image for product %s: %w", item.ProductID, ErrInvalidInput)
			}
			key := fmt.Sprintf("orders/%s.jpg", uuid.New())
			if err := s.media.Put(ctx, key, data, "image/jpeg"); err != nil {
				return nil, fmt.Errorf("failed to upload customization image: %w", err)
			}
			line.CustomImageKey = &key
		}

		order.Lines = append(order.Lines, line)
	}

	return s.orders.Create(ctx, order)
}

// Get retrieves an order. Non-admins may only read their own orders.
func (s *OrderService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	return order, nil
}

// ListMine retrieves the actor's orders
func (s *OrderService) ListMine(ctx context.Context, actor Actor) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, actor.UserID)
}

// ListAll retrieves every order
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus sets the order status and propagates it to the lines,
// leaving already-delivered lines untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.ApplyStatus(status)
	if err := s.orders.SaveStatus(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateLineStatus sets one line's status independent of the order
// status. The order's own status is not recomputed.
func (s *OrderService) UpdateLineStatus(ctx context.Context, orderID, productID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}

	if err := s.orders.SetLineStatusByProduct(ctx, orderID, productID, status); err != nil {
		return nil, err
	}

	return s.orders.GetByID(ctx, orderID)
}

// LineImage streams the custom image attached to an order line.
// Ownership rules match Get.
func (s *OrderService) LineImage(ctx context.Context, actor Actor, orderID, lineID uuid.UUID) (io.ReadCloser, string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, "", ErrForbidden
	}

	line, err := s.orders.GetLine(ctx, orderID, lineID)
	if err != nil {
		return nil, "", err
	}
	if line.CustomImageKey == nil {
		return nil, "", storage.ErrObjectNotFound
	}

	return s.media.Get(ctx, *line.CustomImageKey)
}

func validateDeliveryInfo(info models.DeliveryInfo) error {
	if info.FullName == "" || info.Phone == "" || info.Email == "" || info.Address == "" {
		return fmt.Errorf("delivery name, phone, email and address are required: %w", ErrInvalidInput)
	}
	return nil
}
