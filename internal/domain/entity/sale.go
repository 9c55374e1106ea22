package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Sale is a committed sale. Commit is keyed by Sale.ID so client retries of the
// same sale id are no-ops.
type Sale struct {
	ID           string
	CustomerName string
	Status       string
	Total        decimal.Decimal
	Items        []SaleItem
	CreatedAt    time.Time
	CreatedBy    string
}

// SaleItem is one line of a sale. ReturnedQuantity accumulates across partial
// returns and is capped at Quantity.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductID        string
	Quantity         int
	UnitPrice        decimal.Decimal
	ReturnedQuantity int
	Serials          []string // serial numbers sold on this line, empty for bulk
}

// Returnable is how many units of this line can still be returned.
func (i *SaleItem) Returnable() int {
	return i.Quantity - i.ReturnedQuantity
}
