package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

func newTestLedger(store *memStore) *Ledger {
	return NewLedger(
		&memTxRunner{store},
		&fakeProductRepo{store},
		&fakeSerialRepo{store},
		NewReservationBook(time.Minute),
		time.Second,
	)
}

func bulkProduct(id string, stock int, price string) *entity.Product {
	return &entity.Product{
		ID:     id,
		SKU:    "SKU-" + id,
		Name:   "Product " + id,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Status: entity.ProductStatusActive,
	}
}

func serializedProduct(id string, stock int, price string) *entity.Product {
	p := bulkProduct(id, stock, price)
	p.RequiresSerial = true
	return p
}

// ── Reserve ──

func TestReserve_ValidatesInput(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 10, "10.00")
	inactive := bulkProduct("p2", 10, "10.00")
	inactive.Status = entity.ProductStatusInactive
	store.products["p2"] = inactive
	l := newTestLedger(store)
	ctx := context.Background()

	_, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.Reserve(ctx, ReserveInput{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.Reserve(ctx, ReserveInput{ProductID: "p2", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Serials on a bulk product make no sense.
	_, err = l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 1, Serials: []string{"SN-1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserve_SerializedRequiresOneSerialPerUnit(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 2, "99.99")
	store.addSerial("p1", "SN-1", entity.SerialStatusAvailable)
	store.addSerial("p1", "SN-2", entity.SerialStatusAvailable)
	l := newTestLedger(store)
	ctx := context.Background()

	_, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 2, Serials: []string{"SN-1"}})
	var mismatch *domain.SerialCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Quantity)
	assert.Equal(t, 1, mismatch.Serials)

	_, err = l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 1, Serials: []string{"SN-404"}})
	var unavailable *domain.SerialUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"SN-404"}, unavailable.Serials)

	// Lowercase input matches the stored uppercase serial.
	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 1, Serials: []string{" sn-1 "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-1"}, res.Serials)
}

// ── CommitSale ──

func TestCommitSale_BulkHappyPath(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 10, "19.99")
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	sale, err := l.CommitSale(ctx, CommitSaleInput{
		CustomerName:   "Walk-in",
		ReservationIDs: []string{res.ID},
		ActorID:        "user-1",
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Quantity)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("59.97")), "total should be 3 x 19.99, got %s", sale.Total)

	assert.Equal(t, 7, store.products["p1"].Stock)
	require.Len(t, store.movements, 1)
	assert.Equal(t, -3, store.movements[0].Delta)
	assert.Equal(t, entity.MovementReasonSale, store.movements[0].Reason)
	assert.Equal(t, sale.ID, store.movements[0].ReferenceID)

	// The reservation is consumed.
	assert.Equal(t, 0, l.HeldQuantity("p1"))
	_, err = l.book.Take([]string{res.ID})
	assert.ErrorIs(t, err, domain.ErrReservationExpired)
}

func TestCommitSale_SerializedMarksUnitsSold(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 2, "250.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusAvailable)
	store.addSerial("p1", "SN-2", entity.SerialStatusAvailable)
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 2, Serials: []string{"SN-1", "SN-2"}})
	require.NoError(t, err)

	sale, err := l.CommitSale(ctx, CommitSaleInput{ReservationIDs: []string{res.ID}, ActorID: "user-1"})
	require.NoError(t, err)

	for _, sn := range []string{"SN-1", "SN-2"} {
		unit := store.serials["p1"][sn]
		assert.Equal(t, entity.SerialStatusSold, unit.Status)
		require.NotNil(t, unit.SaleID)
		assert.Equal(t, sale.ID, *unit.SaleID)
	}
	assert.Equal(t, 0, store.products["p1"].Stock)
}

func TestCommitSale_IdempotentBySaleID(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 5, "10.00")
	stored := &entity.Sale{
		ID:     "sale-1",
		Status: entity.SaleStatusCompleted,
		Total:  decimal.RequireFromString("20.00"),
		Items:  []entity.SaleItem{{ID: "item-1", SaleID: "sale-1", ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")}},
	}
	store.sales["sale-1"] = stored
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	// Retry of an already committed sale id: stored sale comes back, nothing moves.
	sale, err := l.CommitSale(ctx, CommitSaleInput{SaleID: "sale-1", ReservationIDs: []string{res.ID}})
	require.NoError(t, err)
	assert.Equal(t, "sale-1", sale.ID)
	assert.True(t, sale.Total.Equal(stored.Total))

	assert.Equal(t, 5, store.products["p1"].Stock, "stock must not move on a retry")
	assert.Empty(t, store.movements)
	assert.Equal(t, 0, l.HeldQuantity("p1"), "reservations are still consumed")
}

func TestCommitSale_RetryWithConsumedReservations(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 5, "10.00")
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	first, err := l.CommitSale(ctx, CommitSaleInput{SaleID: "sale-1", ReservationIDs: []string{res.ID}})
	require.NoError(t, err)
	assert.Equal(t, 3, store.products["p1"].Stock)

	// Same sale id, same reservation ids: the first commit consumed the
	// reservations, but the retry must still return the stored sale.
	second, err := l.CommitSale(ctx, CommitSaleInput{SaleID: "sale-1", ReservationIDs: []string{res.ID}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Total.Equal(first.Total))

	assert.Equal(t, 3, store.products["p1"].Stock, "stock must not move on a retry")
	assert.Len(t, store.movements, 1)
	assert.Len(t, store.sales, 1)
}

func TestCommitSale_AbortsWhenSerialTakenConcurrently(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 1, "100.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusAvailable)
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 1, Serials: []string{"SN-1"}})
	require.NoError(t, err)

	// Another transaction wins the unit between reserve and commit.
	store.serials["p1"]["SN-1"].Status = entity.SerialStatusSold

	_, err = l.CommitSale(ctx, CommitSaleInput{ReservationIDs: []string{res.ID}})
	var aborted *domain.CommitAbortedError
	require.ErrorAs(t, err, &aborted)
	var unavailable *domain.SerialUnavailableError
	require.ErrorAs(t, aborted.Cause, &unavailable)
	assert.Equal(t, []string{"SN-1"}, unavailable.Serials)

	assert.Equal(t, 1, store.products["p1"].Stock, "failed commit must not touch stock")
	assert.Empty(t, store.movements)
	assert.Empty(t, store.sales)
	// The claim survives so the cashier can re-validate and retry or release.
	assert.Equal(t, 1, l.HeldQuantity("p1"))
}

func TestCommitSale_AbortsWhenStockDropsConcurrently(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 3, "10.00")
	l := newTestLedger(store)
	ctx := context.Background()

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	// Stock shrinks behind the reservation's back.
	store.products["p1"].Stock = 2

	_, err = l.CommitSale(ctx, CommitSaleInput{ReservationIDs: []string{res.ID}})
	var aborted *domain.CommitAbortedError
	require.ErrorAs(t, err, &aborted)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, aborted.Cause, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
}

// ── ProcessReturn ──

func saleWithBulkLine(store *memStore) {
	store.products["p1"] = bulkProduct("p1", 7, "25.00")
	store.sales["sale-1"] = &entity.Sale{
		ID:     "sale-1",
		Status: entity.SaleStatusCompleted,
		Items: []entity.SaleItem{{
			ID: "item-1", SaleID: "sale-1", ProductID: "p1",
			Quantity: 3, UnitPrice: decimal.RequireFromString("25.00"),
		}},
	}
}

func TestProcessReturn_RestockBumpsStockAndCapsCumulative(t *testing.T) {
	store := newMemStore()
	saleWithBulkLine(store)
	l := newTestLedger(store)
	ctx := context.Background()

	ret, err := l.ProcessReturn(ctx, ReturnInput{
		SaleID:  "sale-1",
		Restock: true,
		Reason:  "wrong part",
		Lines:   []ReturnLineInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, ret.Lines, 1)

	assert.Equal(t, 9, store.products["p1"].Stock)
	require.Len(t, store.movements, 1)
	assert.Equal(t, 2, store.movements[0].Delta)
	assert.Equal(t, entity.MovementReasonReturnRestock, store.movements[0].Reason)
	assert.Equal(t, 2, store.sales["sale-1"].Items[0].ReturnedQuantity)

	// Only 1 unit of the original 3 is still returnable.
	_, err = l.ProcessReturn(ctx, ReturnInput{
		SaleID:  "sale-1",
		Restock: true,
		Lines:   []ReturnLineInput{{ProductID: "p1", Quantity: 2}},
	})
	var over *domain.OverReturnError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, 1, over.Returnable)
	assert.Equal(t, 9, store.products["p1"].Stock, "rejected return must not move stock")
}

func TestProcessReturn_DefectiveKeepsStockFlat(t *testing.T) {
	store := newMemStore()
	saleWithBulkLine(store)
	l := newTestLedger(store)

	_, err := l.ProcessReturn(context.Background(), ReturnInput{
		SaleID:  "sale-1",
		Restock: false,
		Reason:  "cracked housing",
		Lines:   []ReturnLineInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, store.products["p1"].Stock, "defective units never re-enter stock")
	require.Len(t, store.movements, 1)
	assert.Equal(t, 0, store.movements[0].Delta, "the audit trail still records the event")
	assert.Equal(t, entity.MovementReasonReturnDefective, store.movements[0].Reason)
	assert.Equal(t, 1, store.sales["sale-1"].Items[0].ReturnedQuantity, "defective returns still count against the cap")
}

func serializedSale(store *memStore) {
	store.products["p1"] = serializedProduct("p1", 0, "150.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusSold)
	saleID, itemID := "sale-1", "item-1"
	store.serials["p1"]["SN-1"].SaleID = &saleID
	store.serials["p1"]["SN-1"].SaleItemID = &itemID
	store.sales["sale-1"] = &entity.Sale{
		ID:     "sale-1",
		Status: entity.SaleStatusCompleted,
		Items: []entity.SaleItem{{
			ID: itemID, SaleID: saleID, ProductID: "p1",
			Quantity: 1, UnitPrice: decimal.RequireFromString("150.00"),
			Serials: []string{"SN-1"},
		}},
	}
}

func TestProcessReturn_RestockedSerialBecomesAvailable(t *testing.T) {
	store := newMemStore()
	serializedSale(store)
	l := newTestLedger(store)

	_, err := l.ProcessReturn(context.Background(), ReturnInput{
		SaleID:  "sale-1",
		Restock: true,
		Lines:   []ReturnLineInput{{ProductID: "p1", Serials: []string{"sn-1"}}},
	})
	require.NoError(t, err)

	unit := store.serials["p1"]["SN-1"]
	assert.Equal(t, entity.SerialStatusAvailable, unit.Status)
	assert.Nil(t, unit.SaleID, "restocked unit must shed its sale reference")
	assert.Equal(t, 1, store.products["p1"].Stock)
}

func TestProcessReturn_RejectsSerialFromAnotherSale(t *testing.T) {
	store := newMemStore()
	serializedSale(store)
	other := "sale-other"
	store.serials["p1"]["SN-1"].SaleID = &other
	l := newTestLedger(store)

	_, err := l.ProcessReturn(context.Background(), ReturnInput{
		SaleID:  "sale-1",
		Restock: true,
		Lines:   []ReturnLineInput{{ProductID: "p1", Serials: []string{"SN-1"}}},
	})
	var notSold *domain.SerialNotSoldError
	require.ErrorAs(t, err, &notSold)
	assert.Equal(t, []string{"SN-1"}, notSold.Serials)
}

// ── AdjustStock ──

func TestAdjustStock_BulkReceiptAndOverdraw(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 2, "5.00")
	l := newTestLedger(store)
	ctx := context.Background()

	product, err := l.AdjustStock(ctx, AdjustInput{
		ProductID: "p1", Delta: 4,
		Reason:  entity.MovementReasonSupplierReceipt,
		ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)
	require.Len(t, store.movements, 1)
	assert.Equal(t, 4, store.movements[0].Delta)

	_, err = l.AdjustStock(ctx, AdjustInput{
		ProductID: "p1", Delta: -10,
		Reason: entity.MovementReasonManualAdjust,
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 6, store.products["p1"].Stock)
}

func TestAdjustStock_SerializedStockIn(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 0, "80.00")
	supplier := "sup-1"
	l := newTestLedger(store)

	product, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID:  "p1",
		Delta:      2,
		Reason:     entity.MovementReasonSupplierReceipt,
		Serials:    []string{"sn-1", "SN-2"},
		SupplierID: &supplier,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stock)

	unit := store.serials["p1"]["SN-1"]
	require.NotNil(t, unit, "serials are stored uppercase")
	assert.Equal(t, entity.SerialStatusAvailable, unit.Status)
	require.NotNil(t, unit.SupplierID)
	assert.Equal(t, "sup-1", *unit.SupplierID)
}

func TestAdjustStock_RejectsDuplicateSerial(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 1, "80.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusAvailable)
	l := newTestLedger(store)

	_, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID: "p1",
		Delta:     1,
		Reason:    entity.MovementReasonSupplierReceipt,
		Serials:   []string{"sn-1"},
	})
	var dup *domain.DuplicateSerialError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"SN-1"}, dup.Serials)
	assert.Equal(t, 1, store.products["p1"].Stock)
}

func TestAdjustStock_SupplierReturnCountsOnlyAvailableUnits(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 1, "80.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusAvailable)
	store.addSerial("p1", "SN-2", entity.SerialStatusDefective)
	l := newTestLedger(store)

	product, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID: "p1",
		Delta:     -2,
		Reason:    entity.MovementReasonSupplierReturn,
		Serials:   []string{"SN-1", "SN-2"},
	})
	require.NoError(t, err)

	// Only SN-1 was in sellable stock; SN-2 was already off the count.
	assert.Equal(t, 0, product.Stock)
	require.Len(t, store.movements, 1)
	assert.Equal(t, -1, store.movements[0].Delta)
	assert.Equal(t, entity.SerialStatusReturned, store.serials["p1"]["SN-1"].Status)
	assert.Equal(t, entity.SerialStatusReturned, store.serials["p1"]["SN-2"].Status)
}

func TestAdjustStock_SupplierReturnRejectsSoldUnit(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = serializedProduct("p1", 0, "80.00")
	store.addSerial("p1", "SN-1", entity.SerialStatusSold)
	l := newTestLedger(store)

	_, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID: "p1",
		Delta:     -1,
		Reason:    entity.MovementReasonSupplierReturn,
		Serials:   []string{"SN-1"},
	})
	var unavailable *domain.SerialUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, entity.SerialStatusSold, store.serials["p1"]["SN-1"].Status)
}

func TestAdjustStock_ReorderPointOnlyEdit(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 3, "5.00")
	reorder := 8
	l := newTestLedger(store)

	product, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID:    "p1",
		Delta:        0,
		Reason:       entity.MovementReasonManualAdjust,
		ReorderPoint: &reorder,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, product.ReorderPoint)
	assert.Equal(t, 3, product.Stock)
	assert.Empty(t, store.movements, "threshold edits are not stock movements")
}

func TestAdjustStock_RejectsUnknownReason(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 3, "5.00")
	l := newTestLedger(store)

	_, err := l.AdjustStock(context.Background(), AdjustInput{
		ProductID: "p1", Delta: 1, Reason: "sale",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Movement deltas and the stock counter stay reconciled across a mixed flow.
func TestLedger_MovementSumMatchesStock(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = bulkProduct("p1", 0, "10.00")
	l := newTestLedger(store)
	ctx := context.Background()

	_, err := l.AdjustStock(ctx, AdjustInput{ProductID: "p1", Delta: 10, Reason: entity.MovementReasonSupplierReceipt})
	require.NoError(t, err)

	res, err := l.Reserve(ctx, ReserveInput{ProductID: "p1", Quantity: 4})
	require.NoError(t, err)
	sale, err := l.CommitSale(ctx, CommitSaleInput{ReservationIDs: []string{res.ID}})
	require.NoError(t, err)

	_, err = l.ProcessReturn(ctx, ReturnInput{
		SaleID:  sale.ID,
		Restock: true,
		Lines:   []ReturnLineInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = l.ProcessReturn(ctx, ReturnInput{
		SaleID:  sale.ID,
		Restock: false,
		Lines:   []ReturnLineInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	sum, err := (&fakeMovementRepo{store}).SumDeltas("p1")
	require.NoError(t, err)
	assert.Equal(t, store.products["p1"].Stock, sum, "sum of deltas must equal the stock counter")
	assert.Equal(t, 7, store.products["p1"].Stock)
}
