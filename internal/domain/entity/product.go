package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product statuses. Inactive products stay referenced by historical sales
// (soft-deactivate, never deleted).
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is a catalog item (auto part). For serialized products Stock always
// equals the count of serial units in state available; for bulk products it is
// a directly maintained counter. Both are mutated only through the ledger.
type Product struct {
	ID             string
	SKU            string // unique part number
	Name           string
	Brand          string
	Category       string
	Description    string
	Price          decimal.Decimal
	RequiresSerial bool // immutable once any serial history exists
	ReorderPoint   int
	Stock          int
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
