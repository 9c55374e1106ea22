package ledger

import (
	"context"

	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// TxRunner executes a function inside a DB transaction, handing it repositories
// bound to that transaction. Guarantees the all-or-nothing property of commit,
// return and adjustment operations.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		serialRepo repository.SerialRepository,
		movementRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error) error
}
