package entity

import "time"

// Serial unit statuses. available -> sold -> {available (restock), defective};
// defective units leave the system via a supplier return, which marks them returned.
const (
	SerialStatusAvailable = "available"
	SerialStatusSold      = "sold"
	SerialStatusDefective = "defective"
	SerialStatusReturned  = "returned"
)

// SerialUnit is one individually tracked unit of a serialized product.
// SerialNumber is case-normalized to uppercase and unique per product.
type SerialUnit struct {
	ID           string
	ProductID    string
	SerialNumber string
	Status       string
	SupplierID   *string // origin batch, nil for manual stock-in
	SaleID       *string // set while sold
	SaleItemID   *string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available reports whether the unit can be claimed by a reservation.
func (s *SerialUnit) Available() bool {
	return s.Status == SerialStatusAvailable
}
