package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	domaininv "github.com/tjautosupply/autoparts-api/internal/domain/inventory"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// ProductUseCase catalog CRUD. Stock is absent here on purpose: it only moves
// through the ledger.
type ProductUseCase struct {
	repo       repository.ProductRepository
	serialRepo repository.SerialRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository, serialRepo repository.SerialRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, serialRepo: serialRepo}
}

// Create registers a new product with zero stock.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.ReorderPoint < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Brand:          in.Brand,
		Category:       in.Category,
		Description:    in.Description,
		Price:          in.Price,
		RequiresSerial: in.RequiresSerial,
		ReorderPoint:   in.ReorderPoint,
		Stock:          0,
		Status:         entity.ProductStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update edits product metadata. Flipping requires_serial is rejected once any
// serial record ever existed for the product.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.RequiresSerial != nil && *in.RequiresSerial != product.RequiresSerial {
		count, err := uc.serialRepo.CountByProduct(id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.ErrSerialImmutable
		}
		product.RequiresSerial = *in.RequiresSerial
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Brand != "" {
		product.Brand = in.Brand
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.Status != "" {
		if in.Status != entity.ProductStatusActive && in.Status != entity.ProductStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		product.Status = in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID fetches one product.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// List pages through products, optionally filtered by status.
func (uc *ProductUseCase) List(status string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}

// ToProductResponse maps a product entity to its API projection.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Brand:          p.Brand,
		Category:       p.Category,
		Description:    p.Description,
		Price:          p.Price,
		RequiresSerial: p.RequiresSerial,
		ReorderPoint:   p.ReorderPoint,
		Stock:          p.Stock,
		Status:         p.Status,
		ComputedStatus: domaininv.ComputedStatus(p.Stock, p.ReorderPoint),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
