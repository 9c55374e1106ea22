package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

// SerialHandler serves serial unit lookups for warranty checks and the
// point-of-sale serial picker.
type SerialHandler struct {
	ledger *ledger.Ledger
}

// NewSerialHandler builds the handler.
func NewSerialHandler(l *ledger.Ledger) *SerialHandler {
	return &SerialHandler{ledger: l}
}

// ListByProduct godoc
// @Summary      List serial units of a product
// @Tags         serial-numbers
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        status  query  string  false  "Filter: available|sold|defective|returned"
// @Success      200     {array}  dto.SerialUnitResponse
// @Router       /api/serial-numbers/product/{id} [get]
func (h *SerialHandler) ListByProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	status := c.Query("status")
	switch status {
	case "", entity.SerialStatusAvailable, entity.SerialStatusSold, entity.SerialStatusDefective, entity.SerialStatusReturned:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown status"})
	}
	var (
		units []*entity.SerialUnit
		err   error
	)
	if status == entity.SerialStatusAvailable {
		units, err = h.ledger.AvailableSerials(id)
	} else {
		units, err = h.ledger.SerialsByProduct(id)
	}
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SerialUnitResponse, 0, len(units))
	for _, u := range units {
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, toSerialUnitResponse(u))
	}
	return c.JSON(out)
}

// ListAvailable godoc
// @Summary      List sellable serial units of a product
// @Tags         serial-numbers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Product ID"
// @Success      200  {array}  dto.SerialUnitResponse
// @Router       /api/serial-numbers/product/{id}/available [get]
func (h *SerialHandler) ListAvailable(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	units, err := h.ledger.AvailableSerials(id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SerialUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toSerialUnitResponse(u))
	}
	return c.JSON(out)
}

// ListBySale godoc
// @Summary      List serial units attributed to a sale
// @Tags         serial-numbers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Sale ID"
// @Success      200  {array}  dto.SerialUnitResponse
// @Router       /api/serial-numbers/sale/{id} [get]
func (h *SerialHandler) ListBySale(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	units, err := h.ledger.SerialsBySale(id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SerialUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toSerialUnitResponse(u))
	}
	return c.JSON(out)
}

func toSerialUnitResponse(u *entity.SerialUnit) dto.SerialUnitResponse {
	return dto.SerialUnitResponse{
		SerialNumber: u.SerialNumber,
		ProductID:    u.ProductID,
		Status:       u.Status,
		SupplierID:   u.SupplierID,
		SaleID:       u.SaleID,
		CreatedAt:    u.CreatedAt,
	}
}
