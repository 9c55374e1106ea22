package dto

import "time"

// AdjustStockRequest body for PUT /api/inventory/:id/stock.
// QuantityToAdd 0 with a ReorderPoint is a reorder-point-only edit.
type AdjustStockRequest struct {
	QuantityToAdd int      `json:"quantity_to_add"`
	Reason        string   `json:"reason,omitempty"` // defaults to manual_adjustment
	Serials       []string `json:"serial_numbers,omitempty"`
	ReorderPoint  *int     `json:"reorder_point,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// BulkStockInRequest body for POST /api/inventory/bulk-stock-in.
type BulkStockInRequest struct {
	SupplierID string            `json:"supplier_id"`
	Items      []BulkStockInItem `json:"items"`
}

// BulkStockInItem one received product line.
type BulkStockInItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Serials   []string `json:"serial_numbers,omitempty"`
}

// SupplierReturnRequest body for POST /api/inventory/return-to-supplier.
type SupplierReturnRequest struct {
	ProductID  string   `json:"product_id"`
	SupplierID string   `json:"supplier_id"`
	Quantity   int      `json:"quantity"`
	Serials    []string `json:"serial_numbers,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// SerialUnitResponse serial unit projection.
type SerialUnitResponse struct {
	SerialNumber string    `json:"serial_number"`
	ProductID    string    `json:"product_id"`
	Status       string    `json:"status"`
	SupplierID   *string   `json:"supplier_id,omitempty"`
	SaleID       *string   `json:"sale_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StockMovementResponse audit ledger entry projection.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}
