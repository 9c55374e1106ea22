package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// ReturnRepository is the persistence port for processed returns.
type ReturnRepository interface {
	Create(ret *entity.SaleReturn) error
	ListBySale(saleID string) ([]*entity.SaleReturn, error)
	List(limit, offset int) ([]*entity.SaleReturn, error)
}
