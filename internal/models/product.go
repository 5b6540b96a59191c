package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item
type Product struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Category         string    `db:"category" json:"category"`
	ShortDescription string    `db:"short_description" json:"short_description"`
	LongDescription  string    `db:"long_description" json:"long_description"`
	Price            float64   `db:"price" json:"price"`
	Quantity         int       `db:"quantity" json:"quantity"`
	ImageKey         string    `db:"image_key" json:"image_key"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// Resolved per response, never stored
	ImageURL string `db:"-" json:"image_url,omitempty"`
}

// ProductRequest is used for product creation/update
type ProductRequest struct {
	Name             string  `json:"name" validate:"required,min=1,max=100"`
	Category         string  `json:"category" validate:"required"`
	ShortDescription string  `json:"short_description" validate:"required,max=160"`
	LongDescription  string  `json:"long_description" validate:"required"`
	Price            float64 `json:"price" validate:"required,gte=0"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
}

// StockUpdateRequest sets the quantity on hand directly
type StockUpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}
