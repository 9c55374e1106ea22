package ledger

import (
	"context"
	"time"

	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

// memStore is the shared in-memory backing for the fake repositories. The fake
// TxRunner snapshots it before each transaction and restores it on error, so
// failed transactions roll back like the real thing.
type memStore struct {
	products  map[string]*entity.Product
	serials   map[string]map[string]*entity.SerialUnit // product id -> serial -> unit
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	returns   []*entity.SaleReturn
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		serials:  make(map[string]map[string]*entity.SerialUnit),
		sales:    make(map[string]*entity.Sale),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for pid, units := range s.serials {
		c.serials[pid] = make(map[string]*entity.SerialUnit, len(units))
		for sn, u := range units {
			cu := *u
			c.serials[pid][sn] = &cu
		}
	}
	for _, m := range s.movements {
		cm := *m
		c.movements = append(c.movements, &cm)
	}
	for id, sale := range s.sales {
		c.sales[id] = cloneSale(sale)
	}
	for _, r := range s.returns {
		cr := *r
		cr.Lines = append([]entity.ReturnLine(nil), r.Lines...)
		c.returns = append(c.returns, &cr)
	}
	return c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	cs := *s
	cs.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cs
}

func (s *memStore) addSerial(productID, serial, status string) {
	if s.serials[productID] == nil {
		s.serials[productID] = make(map[string]*entity.SerialUnit)
	}
	s.serials[productID][serial] = &entity.SerialUnit{
		ID:           "unit-" + serial,
		ProductID:    productID,
		SerialNumber: serial,
		Status:       status,
	}
}

func (s *memStore) movementCount(productID string) int {
	n := 0
	for _, m := range s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n
}

// ── product repo ──

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	cp.Stock = r.s.products[p.ID].Stock
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int) error {
	r.s.products[productID].Stock = stock
	return nil
}

func (r *fakeProductRepo) List(status string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if status == "" || p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── serial repo ──

type fakeSerialRepo struct{ s *memStore }

func (r *fakeSerialRepo) CreateBatch(units []*entity.SerialUnit) error {
	for _, u := range units {
		if r.s.serials[u.ProductID] == nil {
			r.s.serials[u.ProductID] = make(map[string]*entity.SerialUnit)
		}
		cu := *u
		r.s.serials[u.ProductID][u.SerialNumber] = &cu
	}
	return nil
}

func (r *fakeSerialRepo) GetByNumbers(productID string, serials []string) ([]*entity.SerialUnit, error) {
	var out []*entity.SerialUnit
	for _, sn := range serials {
		if u, ok := r.s.serials[productID][sn]; ok {
			cu := *u
			out = append(out, &cu)
		}
	}
	return out, nil
}

func (r *fakeSerialRepo) GetByNumbersForUpdate(productID string, serials []string) ([]*entity.SerialUnit, error) {
	return r.GetByNumbers(productID, serials)
}

func (r *fakeSerialRepo) ListByProduct(productID string, status string) ([]*entity.SerialUnit, error) {
	var out []*entity.SerialUnit
	for _, u := range r.s.serials[productID] {
		if status == "" || u.Status == status {
			cu := *u
			out = append(out, &cu)
		}
	}
	return out, nil
}

func (r *fakeSerialRepo) ListBySale(saleID string) ([]*entity.SerialUnit, error) {
	var out []*entity.SerialUnit
	for _, units := range r.s.serials {
		for _, u := range units {
			if u.SaleID != nil && *u.SaleID == saleID {
				cu := *u
				out = append(out, &cu)
			}
		}
	}
	return out, nil
}

func (r *fakeSerialRepo) CountByProduct(productID string) (int, error) {
	return len(r.s.serials[productID]), nil
}

func (r *fakeSerialRepo) CountAvailable(productID string) (int, error) {
	n := 0
	for _, u := range r.s.serials[productID] {
		if u.Available() {
			n++
		}
	}
	return n, nil
}

func (r *fakeSerialRepo) MarkSold(productID string, serials []string, saleID, saleItemID string) error {
	for _, sn := range serials {
		u := r.s.serials[productID][sn]
		u.Status = entity.SerialStatusSold
		sid, iid := saleID, saleItemID
		u.SaleID, u.SaleItemID = &sid, &iid
	}
	return nil
}

func (r *fakeSerialRepo) UpdateStatus(productID string, serials []string, status string, notes string) error {
	for _, sn := range serials {
		u := r.s.serials[productID][sn]
		u.Status = status
		if notes != "" {
			u.Notes = notes
		}
	}
	return nil
}

func (r *fakeSerialRepo) ClearSale(productID string, serials []string) error {
	for _, sn := range serials {
		u := r.s.serials[productID][sn]
		u.SaleID, u.SaleItemID = nil, nil
	}
	return nil
}

// ── movement repo ──

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cm := *m
	r.s.movements = append(r.s.movements, &cm)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumDeltas(productID string) (int, error) {
	sum := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum, nil
}

// ── sale repo ──

type fakeSaleRepo struct{ s *memStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *fakeSaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *fakeSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		out = append(out, cloneSale(sale))
	}
	return out, nil
}

func (r *fakeSaleRepo) AddReturnedQuantity(saleItemID string, quantity int) error {
	for _, sale := range r.s.sales {
		for i := range sale.Items {
			if sale.Items[i].ID == saleItemID {
				sale.Items[i].ReturnedQuantity += quantity
				return nil
			}
		}
	}
	return nil
}

// ── return repo ──

type fakeReturnRepo struct{ s *memStore }

func (r *fakeReturnRepo) Create(ret *entity.SaleReturn) error {
	cr := *ret
	cr.Lines = append([]entity.ReturnLine(nil), ret.Lines...)
	r.s.returns = append(r.s.returns, &cr)
	return nil
}

func (r *fakeReturnRepo) ListBySale(saleID string) ([]*entity.SaleReturn, error) {
	var out []*entity.SaleReturn
	for _, ret := range r.s.returns {
		if ret.SaleID == saleID {
			out = append(out, ret)
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) List(limit, offset int) ([]*entity.SaleReturn, error) {
	return r.s.returns, nil
}

// ── tx runner ──

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.SerialRepository,
	repository.StockMovementRepository,
	repository.SaleRepository,
	repository.ReturnRepository,
) error) error {
	snapshot := t.s.clone()
	err := fn(
		&fakeProductRepo{t.s},
		&fakeSerialRepo{t.s},
		&fakeMovementRepo{t.s},
		&fakeSaleRepo{t.s},
		&fakeReturnRepo{t.s},
	)
	if err != nil {
		*t.s = *snapshot
		return err
	}
	return nil
}
