package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// SerialRepository is the persistence port for serial units.
// GetForUpdate variants lock the rows so status transitions serialize per unit.
type SerialRepository interface {
	CreateBatch(units []*entity.SerialUnit) error
	GetByNumbers(productID string, serials []string) ([]*entity.SerialUnit, error)
	GetByNumbersForUpdate(productID string, serials []string) ([]*entity.SerialUnit, error)
	ListByProduct(productID string, status string) ([]*entity.SerialUnit, error)
	ListBySale(saleID string) ([]*entity.SerialUnit, error)
	CountByProduct(productID string) (int, error)
	CountAvailable(productID string) (int, error)
	MarkSold(productID string, serials []string, saleID, saleItemID string) error
	UpdateStatus(productID string, serials []string, status string, notes string) error
	// ClearSale resets sale references when a sold unit returns to stock.
	ClearSale(productID string, serials []string) error
}
