package dto

import "time"

// ProcessReturnRequest body for POST /api/returns/process.
type ProcessReturnRequest struct {
	SaleID  string            `json:"sale_id"`
	Restock bool              `json:"restock"`
	Reason  string            `json:"reason"`
	Lines   []ReturnLineInput `json:"line_items"`
}

// ReturnLineInput one returned line. Serials identify the units for
// serialized products; Quantity drives bulk lines.
type ReturnLineInput struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity,omitempty"`
	Serials   []string `json:"serial_numbers,omitempty"`
}

// ReturnResponse processed return projection.
type ReturnResponse struct {
	ID        string               `json:"id"`
	SaleID    string               `json:"sale_id"`
	Restocked bool                 `json:"restocked"`
	Reason    string               `json:"reason"`
	Lines     []ReturnLineResponse `json:"line_items"`
	CreatedAt time.Time            `json:"created_at"`
	CreatedBy string               `json:"created_by"`
}

// ReturnLineResponse one processed line.
type ReturnLineResponse struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Serials   []string `json:"serial_numbers,omitempty"`
}
