package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implements ReturnRepository over PostgreSQL (pool or tx).
// Line items are stored as a JSONB document: they are written once and only
// ever read back whole.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository builds the adapter. Pass pool or tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persists a processed return.
func (r *ReturnRepo) Create(ret *entity.SaleReturn) error {
	lines, err := json.Marshal(ret.Lines)
	if err != nil {
		return fmt.Errorf("marshal return lines: %w", err)
	}
	query := `
		INSERT INTO returns (id, sale_id, restocked, reason, line_items, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		ret.ID, ret.SaleID, ret.Restocked, ret.Reason, lines, ret.CreatedAt, ret.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// ListBySale lists the returns processed against one sale.
func (r *ReturnRepo) ListBySale(saleID string) ([]*entity.SaleReturn, error) {
	query := `
		SELECT id, sale_id, restocked, reason, line_items, created_at, created_by
		FROM returns WHERE sale_id = $1 ORDER BY created_at`
	return r.queryReturns(query, saleID)
}

// List pages through all returns, newest first.
func (r *ReturnRepo) List(limit, offset int) ([]*entity.SaleReturn, error) {
	query := `
		SELECT id, sale_id, restocked, reason, line_items, created_at, created_by
		FROM returns ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryReturns(query, limit, offset)
}

func (r *ReturnRepo) queryReturns(query string, args ...any) ([]*entity.SaleReturn, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleReturn
	for rows.Next() {
		var ret entity.SaleReturn
		var lines []byte
		if err := rows.Scan(&ret.ID, &ret.SaleID, &ret.Restocked, &ret.Reason, &lines, &ret.CreatedAt, &ret.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		if err := json.Unmarshal(lines, &ret.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal return lines: %w", err)
		}
		list = append(list, &ret)
	}
	return list, rows.Err()
}
