package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// SaleRepository is the persistence port for sales and their line items.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate locks the sale row while returns mutate its line items.
	GetForUpdate(id string) (*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)
	// AddReturnedQuantity bumps the cumulative returned counter on a line item.
	AddReturnedQuantity(saleItemID string, quantity int) error
}
