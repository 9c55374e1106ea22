package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow is one product line of the inventory report.
type InventoryRow struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ReorderPoint int             `json:"reorder_point"`
	Status       string          `json:"status"` // derived, not stored
}

// SalesRow is one sale line of the sales report.
type SalesRow struct {
	SaleID       string          `json:"sale_id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DeadStockRow is a product with no sale movements since the cutoff.
type DeadStockRow struct {
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Stock        int        `json:"stock"`
	LastSoldAt   *time.Time `json:"last_sold_at,omitempty"` // nil: never sold
	DaysDormant  int        `json:"days_dormant"`
}

// ReturnsRow is one processed return of the returns report.
type ReturnsRow struct {
	ReturnID  string    `json:"return_id"`
	SaleID    string    `json:"sale_id"`
	Restocked bool      `json:"restocked"`
	Reason    string    `json:"reason"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the read-side port for report projections.
type Repository interface {
	InventoryReport() ([]InventoryRow, error)
	SalesReport(from, to time.Time) ([]SalesRow, error)
	DeadStock(cutoff time.Time) ([]DeadStockRow, error)
	ReturnsReport(from, to time.Time) ([]ReturnsRow, error)
}

// PDFGenerator renders a report for download.
type PDFGenerator interface {
	InventoryReportPDF(rows []InventoryRow, generatedAt time.Time) ([]byte, error)
	SalesReportPDF(rows []SalesRow, from, to time.Time) ([]byte, error)
}
