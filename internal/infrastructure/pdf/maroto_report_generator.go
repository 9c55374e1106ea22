// Package pdf renders the downloadable management reports with Maroto v2.
//
// A4 layout shared by both reports:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: TJ Auto Supply  │  Report title + generated date   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: one row per product / sale                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: totals line                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tjautosupply/autoparts-api/internal/application/reporting"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 58, Blue: 95}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

const companyName = "TJ Auto Supply"

// usd formats dollar amounts with thousand separators.
var usd = message.NewPrinter(language.AmericanEnglish)

func money(d decimal.Decimal) string {
	return usd.Sprintf("$%.2f", d.InexactFloat64())
}

// MarotoReportGenerator implements reporting.PDFGenerator using Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator builds the generator.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

var _ reporting.PDFGenerator = (*MarotoReportGenerator)(nil)

// InventoryReportPDF renders the current stock report and returns its bytes.
func (g *MarotoReportGenerator) InventoryReportPDF(rows []reporting.InventoryRow, generatedAt time.Time) ([]byte, error) {
	m := maroto.New(reportConfig("Inventory Report"))

	m.AddRows(headerRow("INVENTORY REPORT", "Generated: "+generatedAt.Format("01/02/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(8).Add(
		th("SKU", 2, align.Left),
		th("Product", 4, align.Left),
		th("Brand", 2, align.Left),
		th("Price", 1, align.Right),
		th("Stock", 1, align.Right),
		th("Status", 2, align.Center),
	))

	totalValue := decimal.Zero
	for _, r := range rows {
		statusColor := colorGray
		if r.Status != "In Stock" {
			statusColor = colorAlert
		}
		m.AddRows(row.New(6).Add(
			td(r.SKU, 2, align.Left, colorGray),
			td(r.Name, 4, align.Left, nil),
			td(r.Brand, 2, align.Left, colorGray),
			td(money(r.Price), 1, align.Right, nil),
			td(usd.Sprintf("%d", r.Stock), 1, align.Right, nil),
			td(r.Status, 2, align.Center, statusColor),
		))
		totalValue = totalValue.Add(r.Price.Mul(decimal.NewFromInt(int64(r.Stock))))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(8).Add(text.New(
			usd.Sprintf("%d products listed", len(rows)),
			props.Text{Size: 8, Top: 2, Color: colorGray},
		)),
		col.New(4).Add(text.New(
			"Stock value: "+money(totalValue),
			props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary},
		)),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate inventory report: %w", err)
	}
	return doc.GetBytes(), nil
}

// SalesReportPDF renders the sales report for the window and returns its bytes.
func (g *MarotoReportGenerator) SalesReportPDF(rows []reporting.SalesRow, from, to time.Time) ([]byte, error) {
	m := maroto.New(reportConfig("Sales Report"))

	period := from.Format("01/02/2006") + " - " + to.Format("01/02/2006")
	m.AddRows(headerRow("SALES REPORT", "Period: "+period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(8).Add(
		th("Sale ID", 3, align.Left),
		th("Customer", 4, align.Left),
		th("Items", 1, align.Center),
		th("Date", 2, align.Center),
		th("Total", 2, align.Right),
	))

	grandTotal := decimal.Zero
	for _, r := range rows {
		m.AddRows(row.New(6).Add(
			td(r.SaleID, 3, align.Left, colorGray),
			td(nonEmpty(r.CustomerName, "Walk-in"), 4, align.Left, nil),
			td(usd.Sprintf("%d", r.ItemCount), 1, align.Center, nil),
			td(r.CreatedAt.Format("01/02/2006"), 2, align.Center, colorGray),
			td(money(r.Total), 2, align.Right, nil),
		))
		grandTotal = grandTotal.Add(r.Total)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(8).Add(text.New(
			usd.Sprintf("%d sales in period", len(rows)),
			props.Text{Size: 8, Top: 2, Color: colorGray},
		)),
		col.New(4).Add(text.New(
			"TOTAL: "+money(grandTotal),
			props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary},
		)),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate sales report: %w", err)
	}
	return doc.GetBytes(), nil
}

func reportConfig(title string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(companyName, true).
		Build()
}

func headerRow(title, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Auto Parts & Accessories", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
			text.New(subtitle, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// th builds a header cell, td a data cell.
func th(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorPrimary, Top: 2, Left: 1, Right: 1,
	}))
}

func td(value string, size int, a align.Type, color *props.Color) core.Col {
	p := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
	if color != nil {
		p.Color = color
	}
	return col.New(size).Add(text.New(value, p))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
