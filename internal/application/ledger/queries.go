package ledger

import (
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

// Read-side helpers. Lock-free snapshot reads: a listed stock number is a
// point-in-time value, which is why Reserve re-checks and CommitSale
// re-validates under row locks.

// AvailableSerials lists a product's serial units in available state.
func (l *Ledger) AvailableSerials(productID string) ([]*entity.SerialUnit, error) {
	return l.serialRepo.ListByProduct(productID, entity.SerialStatusAvailable)
}

// SerialsByProduct lists every serial unit of a product, any status.
func (l *Ledger) SerialsByProduct(productID string) ([]*entity.SerialUnit, error) {
	return l.serialRepo.ListByProduct(productID, "")
}

// SerialsBySale lists the serial units currently attributed to a sale.
func (l *Ledger) SerialsBySale(saleID string) ([]*entity.SerialUnit, error) {
	return l.serialRepo.ListBySale(saleID)
}

// HeldQuantity reports in-flight reserved units for a product (not yet
// committed nor released).
func (l *Ledger) HeldQuantity(productID string) int {
	return l.book.Held(productID)
}
