package postgres

import (
	"context"
	"fmt"

	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	"github.com/tjautosupply/autoparts-api/internal/domain/repository"
)

var _ repository.SerialRepository = (*SerialRepo)(nil)

const serialColumns = `id, product_id, serial_number, status, supplier_id, sale_id, sale_item_id, notes, created_at, updated_at`

// SerialRepo implements SerialRepository over PostgreSQL (pool or tx).
// serial_units carries a UNIQUE (product_id, serial_number) constraint; the
// row lock variants serialize status transitions per unit.
type SerialRepo struct {
	q Querier
}

// NewSerialRepository builds the adapter. Pass pool or tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

// CreateBatch inserts serial units in available state.
func (r *SerialRepo) CreateBatch(units []*entity.SerialUnit) error {
	for _, u := range units {
		query := `
			INSERT INTO serial_units (` + serialColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := r.q.Exec(context.Background(), query,
			u.ID, u.ProductID, u.SerialNumber, u.Status, u.SupplierID,
			u.SaleID, u.SaleItemID, u.Notes, u.CreatedAt, u.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.DuplicateSerialError{ProductID: u.ProductID, Serials: []string{u.SerialNumber}}
			}
			return fmt.Errorf("insert serial unit: %w", err)
		}
	}
	return nil
}

// GetByNumbers fetches the named serials for a product.
func (r *SerialRepo) GetByNumbers(productID string, serials []string) ([]*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE product_id = $1 AND serial_number = ANY($2)`
	return r.queryUnits(query, productID, serials)
}

// GetByNumbersForUpdate fetches and locks the named serial rows.
func (r *SerialRepo) GetByNumbersForUpdate(productID string, serials []string) ([]*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE product_id = $1 AND serial_number = ANY($2) FOR UPDATE`
	return r.queryUnits(query, productID, serials)
}

// ListByProduct lists a product's serial units, optionally filtered by status.
func (r *SerialRepo) ListByProduct(productID string, status string) ([]*entity.SerialUnit, error) {
	if status != "" {
		query := `SELECT ` + serialColumns + ` FROM serial_units WHERE product_id = $1 AND status = $2 ORDER BY serial_number`
		return r.queryUnits(query, productID, status)
	}
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE product_id = $1 ORDER BY serial_number`
	return r.queryUnits(query, productID)
}

// ListBySale lists the serial units attributed to a sale.
func (r *SerialRepo) ListBySale(saleID string) ([]*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE sale_id = $1 ORDER BY serial_number`
	return r.queryUnits(query, saleID)
}

// CountByProduct counts all serial records ever created for a product.
func (r *SerialRepo) CountByProduct(productID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM serial_units WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count serial units: %w", err)
	}
	return n, nil
}

// CountAvailable counts a product's serials in available state.
func (r *SerialRepo) CountAvailable(productID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM serial_units WHERE product_id = $1 AND status = $2`,
		productID, entity.SerialStatusAvailable).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count available serials: %w", err)
	}
	return n, nil
}

// MarkSold flips the named serials to sold and stamps sale references.
func (r *SerialRepo) MarkSold(productID string, serials []string, saleID, saleItemID string) error {
	query := `
		UPDATE serial_units
		SET status = $3, sale_id = $4, sale_item_id = $5, updated_at = now()
		WHERE product_id = $1 AND serial_number = ANY($2)`
	_, err := r.q.Exec(context.Background(), query,
		productID, serials, entity.SerialStatusSold, saleID, saleItemID)
	if err != nil {
		return fmt.Errorf("mark serials sold: %w", err)
	}
	return nil
}

// UpdateStatus sets the status (and notes) on the named serials.
func (r *SerialRepo) UpdateStatus(productID string, serials []string, status string, notes string) error {
	query := `
		UPDATE serial_units
		SET status = $3, notes = $4, updated_at = now()
		WHERE product_id = $1 AND serial_number = ANY($2)`
	_, err := r.q.Exec(context.Background(), query, productID, serials, status, notes)
	if err != nil {
		return fmt.Errorf("update serial status: %w", err)
	}
	return nil
}

// ClearSale detaches serials from their sale (used on restock).
func (r *SerialRepo) ClearSale(productID string, serials []string) error {
	query := `
		UPDATE serial_units
		SET sale_id = NULL, sale_item_id = NULL, updated_at = now()
		WHERE product_id = $1 AND serial_number = ANY($2)`
	_, err := r.q.Exec(context.Background(), query, productID, serials)
	if err != nil {
		return fmt.Errorf("clear serial sale refs: %w", err)
	}
	return nil
}

func (r *SerialRepo) queryUnits(query string, args ...any) ([]*entity.SerialUnit, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query serial units: %w", err)
	}
	defer rows.Close()
	var list []*entity.SerialUnit
	for rows.Next() {
		var u entity.SerialUnit
		if err := rows.Scan(&u.ID, &u.ProductID, &u.SerialNumber, &u.Status, &u.SupplierID,
			&u.SaleID, &u.SaleItemID, &u.Notes, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
