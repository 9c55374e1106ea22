package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a PostgreSQL transaction with a bounded
// lock_timeout, so a blocked SELECT FOR UPDATE fails fast instead of queueing
// indefinitely behind another cashier.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner builds the runner.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run begins a transaction, executes fn with tx-bound repositories, and
// commits or rolls back. A lock wait exceeding the configured timeout is
// surfaced as domain.ErrLockTimeout.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	serialRepo repository.SerialRepository,
	movementRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	productRepo := NewProductRepository(tx)
	serialRepo := NewSerialRepository(tx)
	movementRepo := NewStockMovementRepository(tx)
	saleRepo := NewSaleRepository(tx)
	returnRepo := NewReturnRepository(tx)

	if err := fn(productRepo, serialRepo, movementRepo, saleRepo, returnRepo); err != nil {
		if isLockNotAvailable(err) {
			return domain.ErrLockTimeout
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
