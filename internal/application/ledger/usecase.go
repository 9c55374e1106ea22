package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	domaininv "github.com/tjautosupply/autoparts-api/internal/domain/inventory"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// Ledger owns stock counts and serial allocation. Reservations are provisional
// in-memory claims; every durable mutation runs inside a transaction with the
// product row locked (SELECT FOR UPDATE) and re-validates state, so concurrent
// cashiers can never oversell a unit or double-sell a serial.
type Ledger struct {
	tx          TxRunner
	productRepo repository.ProductRepository
	serialRepo  repository.SerialRepository
	book        *ReservationBook
	lockTimeout time.Duration
}

// NewLedger builds the ledger use case.
func NewLedger(tx TxRunner, productRepo repository.ProductRepository, serialRepo repository.SerialRepository, book *ReservationBook, lockTimeout time.Duration) *Ledger {
	return &Ledger{
		tx:          tx,
		productRepo: productRepo,
		serialRepo:  serialRepo,
		book:        book,
		lockTimeout: lockTimeout,
	}
}

// ReserveInput is one cart line to claim.
type ReserveInput struct {
	ProductID string
	Quantity  int
	Serials   []string // required iff the product is serialized, one per unit
}

// Reserve claims stock for a sale in progress. The claim is provisional: no
// state is persisted, and CommitSale re-validates under row locks. The stock
// read here is a snapshot; competing in-flight reservations are accounted for
// by the reservation book.
func (l *Ledger) Reserve(ctx context.Context, in ReserveInput) (*entity.Reservation, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := l.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Status != entity.ProductStatusActive {
		return nil, domain.ErrConflict
	}

	var serials []string
	if product.RequiresSerial {
		var dups []string
		serials, dups = domaininv.NormalizeSerials(in.Serials)
		if len(dups) > 0 {
			return nil, domain.ErrInvalidInput
		}
		if len(serials) != in.Quantity {
			return nil, &domain.SerialCountMismatchError{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Serials:   len(serials),
			}
		}
		if bad, err := l.unavailableSerials(in.ProductID, serials); err != nil {
			return nil, err
		} else if len(bad) > 0 {
			return nil, &domain.SerialUnavailableError{ProductID: in.ProductID, Serials: bad}
		}
	} else if len(in.Serials) > 0 {
		return nil, domain.ErrInvalidInput
	}

	return l.book.Reserve(in.ProductID, in.Quantity, serials, product.Stock)
}

// unavailableSerials returns the serials that do not exist for the product or
// are not in available state.
func (l *Ledger) unavailableSerials(productID string, serials []string) ([]string, error) {
	units, err := l.serialRepo.GetByNumbers(productID, serials)
	if err != nil {
		return nil, err
	}
	return notAvailable(serials, units), nil
}

// ReleaseReservation frees a provisional claim. Idempotent: releasing an
// already released or committed reservation is a no-op.
func (l *Ledger) ReleaseReservation(reservationID string) {
	l.book.Release(reservationID)
}

// CommitSaleInput finalizes one or more reservations as a sale.
type CommitSaleInput struct {
	SaleID         string // idempotency key; generated when empty
	CustomerName   string
	ReservationIDs []string
	ActorID        string
}

// CommitSale converts reservations into a durable sale: one stock movement per
// line, serials flipped to sold, stock decremented, all inside one transaction
// with products locked in deterministic order. The sale id is the idempotency
// key: a retry of a committed id returns the stored sale before the
// reservations are looked up, so it succeeds even after they were consumed.
func (l *Ledger) CommitSale(ctx context.Context, in CommitSaleInput) (*entity.Sale, error) {
	saleID := in.SaleID
	if saleID == "" {
		saleID = uuid.New().String()
	}
	if len(in.ReservationIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	var result *entity.Sale
	err := l.tx.Run(ctx, func(
		productRepo repository.ProductRepository,
		serialRepo repository.SerialRepository,
		movementRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		existing, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		reservations, err := l.book.Take(in.ReservationIDs)
		if err != nil {
			return err
		}
		// Lock products in a fixed order so concurrent commits cannot deadlock.
		sort.Slice(reservations, func(i, j int) bool {
			return reservations[i].ProductID < reservations[j].ProductID
		})

		now := time.Now()
		sale := &entity.Sale{
			ID:           saleID,
			CustomerName: in.CustomerName,
			Status:       entity.SaleStatusCompleted,
			Total:        decimal.Zero,
			CreatedAt:    now,
			CreatedBy:    in.ActorID,
		}
		for _, res := range reservations {
			product, err := productRepo.GetForUpdate(res.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			item := entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: res.ProductID,
				Quantity:  res.Quantity,
				UnitPrice: product.Price,
			}
			if product.RequiresSerial {
				units, err := serialRepo.GetByNumbersForUpdate(res.ProductID, res.Serials)
				if err != nil {
					return err
				}
				if bad := notAvailable(res.Serials, units); len(bad) > 0 {
					// A concurrent transaction won the serials since the
					// reservation was taken: abort the whole batch.
					return &domain.CommitAbortedError{
						SaleID:    saleID,
						ProductID: res.ProductID,
						Cause:     &domain.SerialUnavailableError{ProductID: res.ProductID, Serials: bad},
					}
				}
				if err := serialRepo.MarkSold(res.ProductID, res.Serials, saleID, item.ID); err != nil {
					return err
				}
				item.Serials = append([]string(nil), res.Serials...)
			} else if product.Stock < res.Quantity {
				return &domain.CommitAbortedError{
					SaleID:    saleID,
					ProductID: res.ProductID,
					Cause: &domain.InsufficientStockError{
						ProductID: res.ProductID,
						Requested: res.Quantity,
						Available: product.Stock,
					},
				}
			}
			if err := productRepo.UpdateStock(res.ProductID, product.Stock-res.Quantity); err != nil {
				return err
			}
			if err := movementRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   res.ProductID,
				Delta:       -res.Quantity,
				Reason:      entity.MovementReasonSale,
				ReferenceID: saleID,
				Actor:       in.ActorID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			sale.Total = sale.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			sale.Items = append(sale.Items, item)
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}
		return nil, err
	}
	l.book.Remove(in.ReservationIDs)
	return result, nil
}

// notAvailable returns the requested serials whose rows are missing or not in
// available state.
func notAvailable(serials []string, units []*entity.SerialUnit) []string {
	byNumber := make(map[string]*entity.SerialUnit, len(units))
	for _, u := range units {
		byNumber[u.SerialNumber] = u
	}
	var bad []string
	for _, s := range serials {
		u, ok := byNumber[s]
		if !ok || !u.Available() {
			bad = append(bad, s)
		}
	}
	return bad
}
