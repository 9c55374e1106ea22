package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// ProductRepository is the persistence port for Product (DIP).
// GetForUpdate locks the product row (SELECT FOR UPDATE); it is the
// serialization point for every mutating ledger operation on that product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock int) error
	List(status string, limit, offset int) ([]*entity.Product, error)
}
