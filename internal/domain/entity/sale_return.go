package entity

import "time"

// SaleReturn records one processed return against a sale, for audit and for
// capping cumulative returns per line.
type SaleReturn struct {
	ID        string
	SaleID    string
	Restocked bool // true: units went back to stock; false: marked defective
	Reason    string
	Lines     []ReturnLine
	CreatedAt time.Time
	CreatedBy string
}

// ReturnLine is one returned line item.
type ReturnLine struct {
	ProductID string
	Quantity  int
	Serials   []string // required for serialized products
}
