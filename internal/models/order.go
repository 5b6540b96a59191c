package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order or an order line
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
// No transition graph is enforced: any status may follow any other.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CustomizationDoc is the free-form analysis payload attached to an order
// line. Its shape is defined by the external model, so it stays an open
// document rather than a rigid struct.
type CustomizationDoc map[string]interface{}

// Value implements driver.Valuer so the document persists as JSONB.
func (d CustomizationDoc) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading the JSONB column.
func (d *CustomizationDoc) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("customization: cannot scan %T", src)
	}
	return json.Unmarshal(b, d)
}

// DeliveryInfo is the delivery-contact snapshot stored with the order
type DeliveryInfo struct {
	FullName string `db:"delivery_full_name" json:"fullName"`
	Phone    string `db:"delivery_phone" json:"phone"`
	Email    string `db:"delivery_email" json:"email"`
	Address  string `db:"delivery_address" json:"address"`
	Notes    string `db:"delivery_notes" json:"notes,omitempty"`
}

// Order represents a customer order
type Order struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	UserID       uuid.UUID   `db:"user_id" json:"user_id"`
	Status       OrderStatus `db:"status" json:"status"`
	DeliveryInfo `json:"delivery_info"`
	OrderedAt    time.Time `db:"ordered_at" json:"ordered_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Not stored directly in the orders table
	Lines []OrderLine `db:"-" json:"products"`
}

// OrderLine represents one product+quantity entry within an order
type OrderLine struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	OrderID        uuid.UUID        `db:"order_id" json:"order_id"`
	ProductID      uuid.UUID        `db:"product_id" json:"product"`
	Quantity       int              `db:"quantity" json:"quantity"`
	Status         OrderStatus      `db:"status" json:"status"`
	Customization  CustomizationDoc `db:"customization" json:"customizationAnalysis,omitempty"`
	CustomImageKey *string          `db:"custom_image_key" json:"custom_image_key,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`

	// Not stored directly in the database
	ProductName  string  `db:"-" json:"product_name,omitempty"`
	ProductPrice float64 `db:"-" json:"product_price,omitempty"`
}

// ApplyStatus sets the order status and propagates it to every line,
// except lines already delivered: a delivered line is terminal and a
// whole-order update never downgrades it.
func (o *Order) ApplyStatus(status OrderStatus) {
	o.Status = status
	for i := range o.Lines {
		if o.Lines[i].Status == OrderStatusDelivered {
			continue
		}
		o.Lines[i].Status = status
	}
}

// OrderRequest is used for order creation
type OrderRequest struct {
	Products     []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
	DeliveryInfo DeliveryInfo       `json:"deliveryInfo" validate:"required"`
}

// OrderLineRequest is one requested line within an order creation
type OrderLineRequest struct {
	ProductID             uuid.UUID        `json:"product" validate:"required"`
	Quantity              int              `json:"quantity" validate:"required,min=1"`
	FurnitureImageBase64  string           `json:"furnitureImageBase64,omitempty"`
	CustomizationAnalysis CustomizationDoc `json:"customizationAnalysis,omitempty"`
}

// StatusUpdateRequest carries a status change for an order or a line
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}
