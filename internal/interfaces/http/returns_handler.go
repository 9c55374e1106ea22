package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
)

// ReturnsHandler handles customer returns against committed sales.
type ReturnsHandler struct {
	ledger  *ledger.Ledger
	history *usecase.HistoryUseCase
}

// NewReturnsHandler builds the handler.
func NewReturnsHandler(l *ledger.Ledger, history *usecase.HistoryUseCase) *ReturnsHandler {
	return &ReturnsHandler{ledger: l, history: history}
}

// Process godoc
// @Summary      Process a return against a sale
// @Description  restock true puts units back in sellable stock; false marks them defective. Cumulative returns per line are capped at what was sold.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessReturnRequest  true  "Return"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns/process [post]
func (h *ReturnsHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	lines := make([]ledger.ReturnLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.ReturnLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Serials:   l.Serials,
		})
	}
	ret, err := h.ledger.ProcessReturn(c.UserContext(), ledger.ReturnInput{
		SaleID:  in.SaleID,
		Lines:   lines,
		Restock: in.Restock,
		Reason:  in.Reason,
		ActorID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToReturnResponse(ret))
}

// List godoc
// @Summary      List processed returns, newest first
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Page size"   default(20)
// @Param        offset  query  int  false  "Page offset" default(0)
// @Success      200     {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ReturnsHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.history.ListReturns(page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListBySale godoc
// @Summary      List returns processed against one sale
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Sale ID"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns/sale/{id} [get]
func (h *ReturnsHandler) ListBySale(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.history.ReturnsBySale(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
