package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implements SaleRepository over PostgreSQL (pool or tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository builds the adapter. Pass pool or tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persists the sale and its line items.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_name, status, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerName, sale.Status, sale.Total, sale.CreatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		query := `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, returned_quantity, serial_numbers)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
			item.ReturnedQuantity, item.Serials,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID fetches a sale with its items.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.getOne(id, false)
}

// GetForUpdate fetches a sale locking its row, for return processing.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.getOne(id, true)
}

func (r *SaleRepo) getOne(id string, forUpdate bool) (*entity.Sale, error) {
	query := `SELECT id, customer_name, status, total, created_at, created_by FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CustomerName, &s.Status, &s.Total, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.itemsBySale(id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) itemsBySale(saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, returned_quantity, serial_numbers
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.ReturnedQuantity, &it.Serials); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List pages through sales, newest first, items included.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, customer_name, status, total, created_at, created_by
		FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.Status, &s.Total, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		items, err := r.itemsBySale(s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return list, nil
}

// AddReturnedQuantity bumps the cumulative returned counter on a line item.
// The CHECK (returned_quantity <= quantity) constraint backs the over-return
// guard at the storage layer.
func (r *SaleRepo) AddReturnedQuantity(saleItemID string, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sale_items SET returned_quantity = returned_quantity + $2 WHERE id = $1`,
		saleItemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add returned quantity: %w", err)
	}
	return nil
}
