package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tjautosupply/autoparts-api/internal/application/reporting"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	domaininv "github.com/tjautosupply/autoparts-api/internal/domain/inventory"
)

var _ reporting.Repository = (*ReportingRepo)(nil)

// ReportingRepo implements the report projections with plain SQL aggregates.
// Snapshot reads only, no locks.
type ReportingRepo struct {
	q Querier
}

// NewReportingRepository builds the adapter.
func NewReportingRepository(q Querier) *ReportingRepo {
	return &ReportingRepo{q: q}
}

// InventoryReport lists active products with their derived status.
func (r *ReportingRepo) InventoryReport() ([]reporting.InventoryRow, error) {
	query := `
		SELECT sku, name, brand, category, price, stock, reorder_point
		FROM products WHERE status = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, entity.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}
	defer rows.Close()
	var out []reporting.InventoryRow
	for rows.Next() {
		var row reporting.InventoryRow
		if err := rows.Scan(&row.SKU, &row.Name, &row.Brand, &row.Category, &row.Price, &row.Stock, &row.ReorderPoint); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		row.Status = domaininv.ComputedStatus(row.Stock, row.ReorderPoint)
		out = append(out, row)
	}
	return out, rows.Err()
}

// SalesReport lists committed sales within the window.
func (r *ReportingRepo) SalesReport(from, to time.Time) ([]reporting.SalesRow, error) {
	query := `
		SELECT s.id, s.customer_name, s.total, COUNT(i.id), s.created_at
		FROM sales s
		LEFT JOIN sale_items i ON i.sale_id = s.id
		WHERE s.created_at >= $1 AND s.created_at <= $2 AND s.status = $3
		GROUP BY s.id, s.customer_name, s.total, s.created_at
		ORDER BY s.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, from, to, entity.SaleStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	defer rows.Close()
	var out []reporting.SalesRow
	for rows.Next() {
		var row reporting.SalesRow
		if err := rows.Scan(&row.SaleID, &row.CustomerName, &row.Total, &row.ItemCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeadStock lists stocked products whose last sale movement predates the
// cutoff (or that never sold at all).
func (r *ReportingRepo) DeadStock(cutoff time.Time) ([]reporting.DeadStockRow, error) {
	query := `
		SELECT p.sku, p.name, p.stock, MAX(m.created_at) AS last_sold
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.id AND m.reason = $1
		WHERE p.stock > 0 AND p.status = $2
		GROUP BY p.sku, p.name, p.stock
		HAVING COALESCE(MAX(m.created_at), 'epoch'::timestamptz) < $3
		ORDER BY last_sold NULLS FIRST`
	rows, err := r.q.Query(context.Background(), query,
		entity.MovementReasonSale, entity.ProductStatusActive, cutoff)
	if err != nil {
		return nil, fmt.Errorf("dead stock report: %w", err)
	}
	defer rows.Close()
	now := time.Now()
	var out []reporting.DeadStockRow
	for rows.Next() {
		var row reporting.DeadStockRow
		if err := rows.Scan(&row.SKU, &row.Name, &row.Stock, &row.LastSoldAt); err != nil {
			return nil, fmt.Errorf("scan dead stock row: %w", err)
		}
		if row.LastSoldAt != nil {
			row.DaysDormant = int(now.Sub(*row.LastSoldAt).Hours() / 24)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReturnsReport lists processed returns within the window with unit counts.
func (r *ReportingRepo) ReturnsReport(from, to time.Time) ([]reporting.ReturnsRow, error) {
	query := `
		SELECT id, sale_id, restocked, reason,
		       (SELECT COALESCE(SUM((l->>'Quantity')::int), 0) FROM jsonb_array_elements(line_items) l),
		       created_at
		FROM returns
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("returns report: %w", err)
	}
	defer rows.Close()
	var out []reporting.ReturnsRow
	for rows.Next() {
		var row reporting.ReturnsRow
		if err := rows.Scan(&row.ReturnID, &row.SaleID, &row.Restocked, &row.Reason, &row.Units, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan returns row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
