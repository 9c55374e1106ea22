package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body for POST /api/sales. SaleID is the client-side
// idempotency key; when empty the server generates one, at the cost of retry
// safety on the client's end.
type CreateSaleRequest struct {
	SaleID       string           `json:"sale_id,omitempty"`
	CustomerName string           `json:"customer_name"`
	Items        []SaleLineInput  `json:"items"`
}

// SaleLineInput one cart line.
type SaleLineInput struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Serials   []string `json:"serial_numbers,omitempty"`
}

// SaleResponse committed sale projection.
type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Status       string             `json:"status"`
	Total        decimal.Decimal    `json:"total"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	CreatedBy    string             `json:"created_by"`
}

// SaleItemResponse one committed line.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReturnedQuantity int             `json:"returned_quantity"`
	Serials          []string        `json:"serial_numbers,omitempty"`
}
