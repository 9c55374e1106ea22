package reporting

import (
	"time"

	"github.com/tjautosupply/autoparts-api/internal/domain"
)

// Default dormancy window for the dead-stock report.
const defaultDormantDays = 90

// ReportUseCase builds back-office reports and their PDF exports.
type ReportUseCase struct {
	repo Repository
	pdf  PDFGenerator
}

// NewReportUseCase builds the use case.
func NewReportUseCase(repo Repository, pdf PDFGenerator) *ReportUseCase {
	return &ReportUseCase{repo: repo, pdf: pdf}
}

// Inventory returns the full inventory projection with derived status.
func (uc *ReportUseCase) Inventory() ([]InventoryRow, error) {
	return uc.repo.InventoryReport()
}

// InventoryPDF renders the inventory report.
func (uc *ReportUseCase) InventoryPDF() ([]byte, error) {
	rows, err := uc.repo.InventoryReport()
	if err != nil {
		return nil, err
	}
	return uc.pdf.InventoryReportPDF(rows, time.Now())
}

// Sales returns committed sales within [from, to].
func (uc *ReportUseCase) Sales(from, to time.Time) ([]SalesRow, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.SalesReport(from, to)
}

// SalesPDF renders the sales report for the window.
func (uc *ReportUseCase) SalesPDF(from, to time.Time) ([]byte, error) {
	rows, err := uc.Sales(from, to)
	if err != nil {
		return nil, err
	}
	return uc.pdf.SalesReportPDF(rows, from, to)
}

// DeadStock lists products with no sale movement for dormantDays (0 uses the
// default window).
func (uc *ReportUseCase) DeadStock(dormantDays int) ([]DeadStockRow, error) {
	if dormantDays <= 0 {
		dormantDays = defaultDormantDays
	}
	cutoff := time.Now().AddDate(0, 0, -dormantDays)
	return uc.repo.DeadStock(cutoff)
}

// Returns lists processed returns within [from, to].
func (uc *ReportUseCase) Returns(from, to time.Time) ([]ReturnsRow, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ReturnsReport(from, to)
}
