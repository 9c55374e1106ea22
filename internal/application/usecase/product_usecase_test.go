package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/inventory"
)

// stubProductRepo keeps products by id and sku; enough for the use case.
type stubProductRepo struct {
	byID map[string]*entity.Product
}

func (r *stubProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *stubProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) UpdateStock(productID string, stock int) error {
	r.byID[productID].Stock = stock
	return nil
}

func (r *stubProductRepo) List(status string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubSerialCounter only answers CountByProduct; the rest is unreachable from
// the product use case.
type stubSerialCounter struct{ counts map[string]int }

func (s *stubSerialCounter) CountByProduct(productID string) (int, error) {
	return s.counts[productID], nil
}
func (s *stubSerialCounter) CreateBatch([]*entity.SerialUnit) error { return nil }
func (s *stubSerialCounter) GetByNumbers(string, []string) ([]*entity.SerialUnit, error) {
	return nil, nil
}
func (s *stubSerialCounter) GetByNumbersForUpdate(string, []string) ([]*entity.SerialUnit, error) {
	return nil, nil
}
func (s *stubSerialCounter) ListByProduct(string, string) ([]*entity.SerialUnit, error) {
	return nil, nil
}
func (s *stubSerialCounter) ListBySale(string) ([]*entity.SerialUnit, error)  { return nil, nil }
func (s *stubSerialCounter) CountAvailable(string) (int, error)               { return 0, nil }
func (s *stubSerialCounter) MarkSold(string, []string, string, string) error  { return nil }
func (s *stubSerialCounter) UpdateStatus(string, []string, string, string) error {
	return nil
}
func (s *stubSerialCounter) ClearSale(string, []string) error { return nil }

func newProductUC() (*ProductUseCase, *stubProductRepo, *stubSerialCounter) {
	repo := &stubProductRepo{byID: make(map[string]*entity.Product)}
	serials := &stubSerialCounter{counts: make(map[string]int)}
	return NewProductUseCase(repo, serials), repo, serials
}

func TestProductCreate_RejectsDuplicateSKU(t *testing.T) {
	uc, _, _ := newProductUC()

	_, err := uc.Create(dto.CreateProductRequest{SKU: "BRK-100", Name: "Brake Pad", Price: decimal.RequireFromString("29.99")})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{SKU: "BRK-100", Name: "Other", Price: decimal.RequireFromString("9.99")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_StartsWithZeroStock(t *testing.T) {
	uc, _, _ := newProductUC()

	out, err := uc.Create(dto.CreateProductRequest{
		SKU: "ALT-200", Name: "Alternator",
		Price: decimal.RequireFromString("180.00"), ReorderPoint: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Stock)
	assert.Equal(t, inventory.StatusOutOfStock, out.ComputedStatus)
	assert.Equal(t, entity.ProductStatusActive, out.Status)
}

func TestProductUpdate_SerialFlagLockedOnceHistoryExists(t *testing.T) {
	uc, repo, serials := newProductUC()

	out, err := uc.Create(dto.CreateProductRequest{
		SKU: "BAT-300", Name: "Battery",
		Price: decimal.RequireFromString("120.00"), RequiresSerial: true,
	})
	require.NoError(t, err)

	// No serial history yet: the flag can still flip.
	off := false
	_, err = uc.Update(out.ID, dto.UpdateProductRequest{RequiresSerial: &off})
	require.NoError(t, err)
	assert.False(t, repo.byID[out.ID].RequiresSerial)

	// Once any unit was ever recorded, the flag is frozen.
	on := true
	_, err = uc.Update(out.ID, dto.UpdateProductRequest{RequiresSerial: &on})
	require.NoError(t, err)
	serials.counts[out.ID] = 3

	_, err = uc.Update(out.ID, dto.UpdateProductRequest{RequiresSerial: &off})
	assert.ErrorIs(t, err, domain.ErrSerialImmutable)
}

func TestProductUpdate_ComputedStatusTracksReorderPoint(t *testing.T) {
	uc, repo, _ := newProductUC()

	out, err := uc.Create(dto.CreateProductRequest{
		SKU: "OIL-400", Name: "Oil Filter",
		Price: decimal.RequireFromString("8.50"), ReorderPoint: 5,
	})
	require.NoError(t, err)
	repo.byID[out.ID].Stock = 4

	got, err := uc.GetByID(out.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusLowStock, got.ComputedStatus)

	reorder := 2
	got, err = uc.Update(out.ID, dto.UpdateProductRequest{ReorderPoint: &reorder})
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusInStock, got.ComputedStatus)
}
