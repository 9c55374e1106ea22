package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	domaininv "github.com/tjautosupply/autoparts-api/internal/domain/inventory"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// ReturnLineInput is one line of a return request. For serialized products the
// serials identify the units and Quantity is ignored (derived from the list).
type ReturnLineInput struct {
	ProductID string
	Quantity  int
	Serials   []string
}

// ReturnInput processes a (possibly partial) return against a committed sale.
type ReturnInput struct {
	SaleID  string
	Lines   []ReturnLineInput
	Restock bool // true: back to sellable stock; false: mark defective
	Reason  string
	ActorID string
}

// ProcessReturn reverses part of a sale. Cumulative returned quantity per line
// is capped at what was sold; restocked serials go sold -> available and bump
// stock, defective ones go sold -> defective with no stock change. The whole
// call is atomic across its lines.
func (l *Ledger) ProcessReturn(ctx context.Context, in ReturnInput) (*entity.SaleReturn, error) {
	if in.SaleID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]ReturnLineInput, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	ctx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	var result *entity.SaleReturn
	err := l.tx.Run(ctx, func(
		productRepo repository.ProductRepository,
		serialRepo repository.SerialRepository,
		movementRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ret := &entity.SaleReturn{
			ID:        uuid.New().String(),
			SaleID:    in.SaleID,
			Restocked: in.Restock,
			Reason:    in.Reason,
			CreatedAt: now,
			CreatedBy: in.ActorID,
		}

		for _, line := range lines {
			product, err := productRepo.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}

			qty := line.Quantity
			var serials []string
			if product.RequiresSerial {
				var dups []string
				serials, dups = domaininv.NormalizeSerials(line.Serials)
				if len(dups) > 0 || len(serials) == 0 {
					return domain.ErrInvalidInput
				}
				qty = len(serials)
			} else if qty <= 0 || len(line.Serials) > 0 {
				return domain.ErrInvalidInput
			}

			returnable := 0
			for i := range sale.Items {
				if sale.Items[i].ProductID == line.ProductID {
					returnable += sale.Items[i].Returnable()
				}
			}
			if qty > returnable {
				return &domain.OverReturnError{
					SaleID:     in.SaleID,
					ProductID:  line.ProductID,
					Requested:  qty,
					Returnable: returnable,
				}
			}

			if product.RequiresSerial {
				units, err := serialRepo.GetByNumbersForUpdate(line.ProductID, serials)
				if err != nil {
					return err
				}
				if bad := notSoldUnder(in.SaleID, serials, units); len(bad) > 0 {
					return &domain.SerialNotSoldError{SaleID: in.SaleID, Serials: bad}
				}
				if in.Restock {
					if err := serialRepo.UpdateStatus(line.ProductID, serials, entity.SerialStatusAvailable, in.Reason); err != nil {
						return err
					}
					if err := serialRepo.ClearSale(line.ProductID, serials); err != nil {
						return err
					}
				} else {
					if err := serialRepo.UpdateStatus(line.ProductID, serials, entity.SerialStatusDefective, in.Reason); err != nil {
						return err
					}
				}
			}

			delta := 0
			reason := entity.MovementReasonReturnDefective
			if in.Restock {
				delta = qty
				reason = entity.MovementReasonReturnRestock
				if err := productRepo.UpdateStock(line.ProductID, product.Stock+qty); err != nil {
					return err
				}
			}
			if err := movementRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   line.ProductID,
				Delta:       delta,
				Reason:      reason,
				ReferenceID: in.SaleID,
				Actor:       in.ActorID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}

			// Spread the returned quantity over this product's line items so
			// the per-line caps stay accurate across partial returns.
			remaining := qty
			for i := range sale.Items {
				item := &sale.Items[i]
				if item.ProductID != line.ProductID || remaining == 0 {
					continue
				}
				take := item.Returnable()
				if take > remaining {
					take = remaining
				}
				if take == 0 {
					continue
				}
				if err := saleRepo.AddReturnedQuantity(item.ID, take); err != nil {
					return err
				}
				item.ReturnedQuantity += take
				remaining -= take
			}

			ret.Lines = append(ret.Lines, entity.ReturnLine{
				ProductID: line.ProductID,
				Quantity:  qty,
				Serials:   serials,
			})
		}

		if err := returnRepo.Create(ret); err != nil {
			return err
		}
		result = ret
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

// notSoldUnder returns the serials that are not currently sold under saleID.
func notSoldUnder(saleID string, serials []string, units []*entity.SerialUnit) []string {
	byNumber := make(map[string]*entity.SerialUnit, len(units))
	for _, u := range units {
		byNumber[u.SerialNumber] = u
	}
	var bad []string
	for _, s := range serials {
		u, ok := byNumber[s]
		if !ok || u.Status != entity.SerialStatusSold || u.SaleID == nil || *u.SaleID != saleID {
			bad = append(bad, s)
		}
	}
	return bad
}
