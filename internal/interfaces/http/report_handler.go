package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/reporting"
)

// ReportHandler serves the back-office reports; ?format=pdf downloads the
// rendered document instead of JSON.
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Inventory godoc
// @Summary      Inventory report
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        format  query  string  false  "pdf for a PDF download"
// @Success      200     {array}  reporting.InventoryRow
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	if c.Query("format") == "pdf" {
		doc, err := h.uc.InventoryPDF()
		if err != nil {
			return writeError(c, err)
		}
		return sendPDF(c, "inventory-report.pdf", doc)
	}
	rows, err := h.uc.Inventory()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Sales godoc
// @Summary      Sales report for a date window
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Window start (YYYY-MM-DD), defaults to 30 days ago"
// @Param        to      query  string  false  "Window end (YYYY-MM-DD), defaults to today"
// @Param        format  query  string  false  "pdf for a PDF download"
// @Success      200     {array}  reporting.SalesRow
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to must be YYYY-MM-DD"})
	}
	if c.Query("format") == "pdf" {
		doc, err := h.uc.SalesPDF(from, to)
		if err != nil {
			return writeError(c, err)
		}
		return sendPDF(c, "sales-report.pdf", doc)
	}
	rows, err := h.uc.Sales(from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// DeadStock godoc
// @Summary      Products with no sales for the dormancy window
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Dormancy window in days"  default(90)
// @Success      200   {array}  reporting.DeadStockRow
// @Router       /api/reports/dead-stock [get]
func (h *ReportHandler) DeadStock(c *fiber.Ctx) error {
	rows, err := h.uc.DeadStock(c.QueryInt("days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Returns godoc
// @Summary      Returns report for a date window
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Window start (YYYY-MM-DD), defaults to 30 days ago"
// @Param        to    query  string  false  "Window end (YYYY-MM-DD), defaults to today"
// @Success      200   {array}  reporting.ReturnsRow
// @Router       /api/reports/returns [get]
func (h *ReportHandler) Returns(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to must be YYYY-MM-DD"})
	}
	rows, err := h.uc.Returns(from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// reportWindow parses ?from and ?to as dates; to is pushed to end of day so
// the window is inclusive.
func reportWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func sendPDF(c *fiber.Ctx, filename string, doc []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
