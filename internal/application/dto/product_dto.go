package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	RequiresSerial bool            `json:"requires_serial"`
	ReorderPoint   int             `json:"reorder_point"`
}

// UpdateProductRequest body for PUT /api/products/:id. Stock is absent on
// purpose: it only moves through the ledger.
type UpdateProductRequest struct {
	Name           string           `json:"name"`
	Brand          string           `json:"brand"`
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	RequiresSerial *bool            `json:"requires_serial,omitempty"`
	ReorderPoint   *int             `json:"reorder_point,omitempty"`
	Status         string           `json:"status,omitempty"`
}

// ProductResponse product projection; ComputedStatus is derived on every read.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	RequiresSerial bool            `json:"requires_serial"`
	ReorderPoint   int             `json:"reorder_point"`
	Stock          int             `json:"stock"`
	Status         string          `json:"status"`
	ComputedStatus string          `json:"computed_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
