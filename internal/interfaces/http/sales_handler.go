package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
	"github.com/tjautosupply/autoparts-api/internal/domain"
)

// SalesHandler handles the point-of-sale flow: reserve every cart line, then
// commit them as one atomic sale.
type SalesHandler struct {
	ledger  *ledger.Ledger
	history *usecase.HistoryUseCase
}

// NewSalesHandler builds the handler.
func NewSalesHandler(l *ledger.Ledger, history *usecase.HistoryUseCase) *SalesHandler {
	return &SalesHandler{ledger: l, history: history}
}

// Create godoc
// @Summary      Commit a sale
// @Description  Reserves every line and commits them in one transaction. sale_id is the idempotency key; retrying a committed id returns the stored sale.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Cart"
// @Success      201   {object}  dto.SaleResponse
// @Success      200   {object}  dto.SaleResponse  "sale_id was already committed"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items are required"})
	}

	// Retry of a committed sale id returns the stored sale without touching
	// stock; the lines would otherwise fail to reserve against sold units.
	if in.SaleID != "" {
		existing, err := h.history.GetSale(in.SaleID)
		if err == nil {
			return c.JSON(existing)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return writeError(c, err)
		}
	}

	ctx := c.UserContext()
	reservationIDs := make([]string, 0, len(in.Items))
	release := func() {
		for _, id := range reservationIDs {
			h.ledger.ReleaseReservation(id)
		}
	}
	for _, item := range in.Items {
		res, err := h.ledger.Reserve(ctx, ledger.ReserveInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Serials:   item.Serials,
		})
		if err != nil {
			release()
			return writeError(c, err)
		}
		reservationIDs = append(reservationIDs, res.ID)
	}

	sale, err := h.ledger.CommitSale(ctx, ledger.CommitSaleInput{
		SaleID:         in.SaleID,
		CustomerName:   in.CustomerName,
		ReservationIDs: reservationIDs,
		ActorID:        GetUserID(c),
	})
	if err != nil {
		release()
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToSaleResponse(sale))
}

// GetByID godoc
// @Summary      Get a sale by id
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Sale ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.history.GetSale(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List sales, newest first
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Page size"   default(20)
// @Param        offset  query  int  false  "Page offset" default(0)
// @Success      200     {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.history.ListSales(page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
