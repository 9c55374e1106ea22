package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	domaininv "github.com/tjautosupply/autoparts-api/internal/domain/inventory"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// AdjustInput is a manual correction: supplier stock-in, supplier return of
// defective units, ad-hoc count fixes, or a reorder-point-only edit (Delta 0).
type AdjustInput struct {
	ProductID    string
	Delta        int
	Reason       string   // supplier_receipt, supplier_return, manual_adjustment
	Serials      []string // required for serialized products when Delta != 0
	SupplierID   *string
	ReorderPoint *int // when set, updates the reorder point in the same tx
	Notes        string
	ActorID      string
}

// AdjustStock applies a manual stock correction under the product row lock.
// Serialized stock-in creates serial units in available state and rejects
// duplicates; supplier returns flip named units to returned and remove any
// still-available ones from stock. Bulk products mutate the counter directly.
// Every stock change appends a movement.
func (l *Ledger) AdjustStock(ctx context.Context, in AdjustInput) (*entity.Product, error) {
	switch in.Reason {
	case entity.MovementReasonSupplierReceipt, entity.MovementReasonSupplierReturn, entity.MovementReasonManualAdjust:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Delta == 0 && in.ReorderPoint == nil {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	var result *entity.Product
	err := l.tx.Run(ctx, func(
		productRepo repository.ProductRepository,
		serialRepo repository.SerialRepository,
		movementRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		now := time.Now()

		if in.ReorderPoint != nil {
			if *in.ReorderPoint < 0 {
				return domain.ErrInvalidInput
			}
			product.ReorderPoint = *in.ReorderPoint
			product.UpdatedAt = now
			if err := productRepo.Update(product); err != nil {
				return err
			}
		}
		if in.Delta == 0 {
			result = product
			return nil
		}

		delta := in.Delta
		if product.RequiresSerial {
			serials, dups := domaininv.NormalizeSerials(in.Serials)
			if len(dups) > 0 {
				return &domain.DuplicateSerialError{ProductID: in.ProductID, Serials: dups}
			}
			switch {
			case delta > 0:
				if len(serials) != delta {
					return &domain.SerialCountMismatchError{
						ProductID: in.ProductID,
						Quantity:  delta,
						Serials:   len(serials),
					}
				}
				existing, err := serialRepo.GetByNumbers(in.ProductID, serials)
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					taken := make([]string, 0, len(existing))
					for _, u := range existing {
						taken = append(taken, u.SerialNumber)
					}
					return &domain.DuplicateSerialError{ProductID: in.ProductID, Serials: taken}
				}
				units := make([]*entity.SerialUnit, 0, len(serials))
				for _, s := range serials {
					units = append(units, &entity.SerialUnit{
						ID:           uuid.New().String(),
						ProductID:    in.ProductID,
						SerialNumber: s,
						Status:       entity.SerialStatusAvailable,
						SupplierID:   in.SupplierID,
						Notes:        in.Notes,
						CreatedAt:    now,
						UpdatedAt:    now,
					})
				}
				if err := serialRepo.CreateBatch(units); err != nil {
					return err
				}
			case in.Reason == entity.MovementReasonSupplierReturn:
				if len(serials) != -delta {
					return &domain.SerialCountMismatchError{
						ProductID: in.ProductID,
						Quantity:  -delta,
						Serials:   len(serials),
					}
				}
				units, err := serialRepo.GetByNumbersForUpdate(in.ProductID, serials)
				if err != nil {
					return err
				}
				fromStock, bad := supplierReturnable(serials, units)
				if len(bad) > 0 {
					return &domain.SerialUnavailableError{ProductID: in.ProductID, Serials: bad}
				}
				if err := serialRepo.UpdateStatus(in.ProductID, serials, entity.SerialStatusReturned, in.Notes); err != nil {
					return err
				}
				// Only units pulled out of available state reduce stock;
				// defective ones were already off the count.
				delta = -fromStock
			default:
				// Negative manual adjustments on serialized products must go
				// through a supplier return so every unit stays accounted for.
				return domain.ErrInvalidInput
			}
		} else if len(in.Serials) > 0 {
			return domain.ErrInvalidInput
		}

		newStock := product.Stock + delta
		if newStock < 0 {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Requested: -in.Delta,
				Available: product.Stock,
			}
		}
		if delta != 0 {
			if err := productRepo.UpdateStock(in.ProductID, newStock); err != nil {
				return err
			}
		}
		ref := ""
		if in.SupplierID != nil {
			ref = *in.SupplierID
		}
		if err := movementRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			Delta:       delta,
			Reason:      in.Reason,
			ReferenceID: ref,
			Actor:       in.ActorID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		product.Stock = newStock
		result = product
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}
		return nil, err
	}
	return result, nil
}

// supplierReturnable splits the requested serials: how many are leaving
// available stock, and which ones cannot be returned to the supplier at all
// (sold, already returned, or unknown).
func supplierReturnable(serials []string, units []*entity.SerialUnit) (fromStock int, bad []string) {
	byNumber := make(map[string]*entity.SerialUnit, len(units))
	for _, u := range units {
		byNumber[u.SerialNumber] = u
	}
	for _, s := range serials {
		u, ok := byNumber[s]
		if !ok {
			bad = append(bad, s)
			continue
		}
		switch u.Status {
		case entity.SerialStatusAvailable:
			fromStock++
		case entity.SerialStatusDefective:
			// off the stock count already
		default:
			bad = append(bad, s)
		}
	}
	return fromStock, bad
}
