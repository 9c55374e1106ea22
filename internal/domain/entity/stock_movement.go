package entity

import "time"

// Movement reasons. Every ledger mutation appends exactly one movement per
// affected product; the rows are never updated or deleted.
const (
	MovementReasonSale            = "sale"
	MovementReasonReturnRestock   = "return_restock"
	MovementReasonReturnDefective = "return_defective"
	MovementReasonSupplierReceipt = "supplier_receipt"
	MovementReasonSupplierReturn  = "supplier_return"
	MovementReasonManualAdjust    = "manual_adjustment"
)

// StockMovement is an append-only audit entry. For bulk products the sum of
// Delta over all movements equals current stock; for serialized products the
// movements mirror serial status transitions (Delta 0 when availability is
// unchanged, e.g. sold -> defective).
type StockMovement struct {
	ID          string
	ProductID   string
	Delta       int
	Reason      string
	ReferenceID string // sale id, return id, supplier id or adjustment note ref
	Actor       string // user id
	CreatedAt   time.Time
}
