package repository

import (
	"time"

	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

// StockMovementRepository is the persistence port for the append-only movement
// ledger. No update or delete: corrections are new movements.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	SumDeltas(productID string) (int, error)
}
