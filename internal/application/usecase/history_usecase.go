package usecase

import (
	"time"

	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// HistoryUseCase serves the read side of the ledger: committed sales, processed
// returns and the stock movement audit trail.
type HistoryUseCase struct {
	saleRepo     repository.SaleRepository
	returnRepo   repository.ReturnRepository
	movementRepo repository.StockMovementRepository
}

// NewHistoryUseCase builds the use case.
func NewHistoryUseCase(saleRepo repository.SaleRepository, returnRepo repository.ReturnRepository, movementRepo repository.StockMovementRepository) *HistoryUseCase {
	return &HistoryUseCase{saleRepo: saleRepo, returnRepo: returnRepo, movementRepo: movementRepo}
}

// GetSale fetches one committed sale with its line items.
func (uc *HistoryUseCase) GetSale(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return ToSaleResponse(sale), nil
}

// ListSales pages through committed sales, newest first.
func (uc *HistoryUseCase) ListSales(page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := uc.saleRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, ToSaleResponse(s))
	}
	return out, nil
}

// ListReturns pages through processed returns, newest first.
func (uc *HistoryUseCase) ListReturns(page dto.PageRequest) ([]*dto.ReturnResponse, error) {
	page.DefaultPage()
	returns, err := uc.returnRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReturnResponse, 0, len(returns))
	for _, r := range returns {
		out = append(out, ToReturnResponse(r))
	}
	return out, nil
}

// ReturnsBySale lists every return processed against one sale.
func (uc *HistoryUseCase) ReturnsBySale(saleID string) ([]*dto.ReturnResponse, error) {
	returns, err := uc.returnRepo.ListBySale(saleID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReturnResponse, 0, len(returns))
	for _, r := range returns {
		out = append(out, ToReturnResponse(r))
	}
	return out, nil
}

// Movements pages through a product's movement ledger, optionally windowed.
func (uc *HistoryUseCase) Movements(productID string, from, to *time.Time, page dto.PageRequest) ([]*dto.StockMovementResponse, error) {
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, &dto.StockMovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			Delta:       m.Delta,
			Reason:      m.Reason,
			ReferenceID: m.ReferenceID,
			Actor:       m.Actor,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

// ToSaleResponse maps a sale entity to its API projection.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		Status:       s.Status,
		Total:        s.Total,
		CreatedAt:    s.CreatedAt,
		CreatedBy:    s.CreatedBy,
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			ReturnedQuantity: item.ReturnedQuantity,
			Serials:          item.Serials,
		})
	}
	return out
}

// ToReturnResponse maps a processed return to its API projection.
func ToReturnResponse(r *entity.SaleReturn) *dto.ReturnResponse {
	out := &dto.ReturnResponse{
		ID:        r.ID,
		SaleID:    r.SaleID,
		Restocked: r.Restocked,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
	}
	for _, line := range r.Lines {
		out.Lines = append(out.Lines, dto.ReturnLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Serials:   line.Serials,
		})
	}
	return out
}
