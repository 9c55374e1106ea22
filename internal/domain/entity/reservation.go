package entity

import "time"

// Reservation is a provisional, not-yet-committed claim on stock or serials
// during an in-progress sale. It lives only in memory: it is either committed
// (becoming a sale plus movements) or released, and a background sweep releases
// it after its TTL so abandoned carts cannot pin stock.
type Reservation struct {
	ID        string
	ProductID string
	Quantity  int
	Serials   []string // uppercase, empty for bulk products
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the reservation's TTL has passed.
func (r *Reservation) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
