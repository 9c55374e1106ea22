package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// SupplierRepository is the persistence port for suppliers.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	List(limit, offset int) ([]*entity.Supplier, error)
}
