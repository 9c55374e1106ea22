package entity

import "time"

// Supplier is the origin of stock-in batches and the destination of defective
// unit returns.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
