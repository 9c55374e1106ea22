package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

// InventoryHandler handles stock mutations and the movement audit trail. Every
// mutation goes through the ledger so the counters, serial states and movement
// history stay consistent.
type InventoryHandler struct {
	ledger    *ledger.Ledger
	productUC *usecase.ProductUseCase
	history   *usecase.HistoryUseCase
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(l *ledger.Ledger, productUC *usecase.ProductUseCase, history *usecase.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: l, productUC: productUC, history: history}
}

// AdjustStock godoc
// @Summary      Adjust product stock or reorder point
// @Description  Positive quantity adds stock (serialized products need one serial per unit). Quantity 0 with a reorder_point edits the threshold only.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Product ID"
// @Param        body  body  dto.AdjustStockRequest  true  "Adjustment"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/stock [put]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.MovementReasonManualAdjust
	}
	product, err := h.ledger.AdjustStock(c.UserContext(), ledger.AdjustInput{
		ProductID:    id,
		Delta:        in.QuantityToAdd,
		Reason:       reason,
		Serials:      in.Serials,
		ReorderPoint: in.ReorderPoint,
		Notes:        in.Notes,
		ActorID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(product))
}

// BulkStockIn godoc
// @Summary      Receive a supplier shipment across multiple products
// @Description  Lines are applied one by one; the response reports per-line success or failure.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkStockInRequest  true  "Shipment lines"
// @Success      200   {array}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk-stock-in [post]
func (h *InventoryHandler) BulkStockIn(c *fiber.Ctx) error {
	var in dto.BulkStockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items are required"})
	}
	var supplierID *string
	if in.SupplierID != "" {
		supplierID = &in.SupplierID
	}
	actor := GetUserID(c)
	results := make([]fiber.Map, 0, len(in.Items))
	for _, item := range in.Items {
		_, err := h.ledger.AdjustStock(c.UserContext(), ledger.AdjustInput{
			ProductID:  item.ProductID,
			Delta:      item.Quantity,
			Reason:     entity.MovementReasonSupplierReceipt,
			Serials:    item.Serials,
			SupplierID: supplierID,
			ActorID:    actor,
		})
		result := fiber.Map{"product_id": item.ProductID, "quantity": item.Quantity, "ok": err == nil}
		if err != nil {
			result["error"] = err.Error()
		}
		results = append(results, result)
	}
	return c.JSON(results)
}

// ReturnToSupplier godoc
// @Summary      Return units to a supplier
// @Description  Serialized products name the units; available ones leave stock, defective ones were already off the count.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierReturnRequest  true  "Return"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/return-to-supplier [post]
func (h *InventoryHandler) ReturnToSupplier(c *fiber.Ctx) error {
	var in dto.SupplierReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id and a positive quantity are required"})
	}
	var supplierID *string
	if in.SupplierID != "" {
		supplierID = &in.SupplierID
	}
	product, err := h.ledger.AdjustStock(c.UserContext(), ledger.AdjustInput{
		ProductID:  in.ProductID,
		Delta:      -in.Quantity,
		Reason:     entity.MovementReasonSupplierReturn,
		Serials:    in.Serials,
		SupplierID: supplierID,
		Notes:      in.Notes,
		ActorID:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(product))
}

// Availability godoc
// @Summary      Current stock, in-flight holds and sellable quantity
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/availability [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.productUC.GetByID(id)
	if err != nil {
		return writeError(c, err)
	}
	held := h.ledger.HeldQuantity(id)
	return c.JSON(fiber.Map{
		"product_id": id,
		"stock":      product.Stock,
		"held":       held,
		"sellable":   product.Stock - held,
		"status":     product.ComputedStatus,
	})
}

// Movements godoc
// @Summary      Movement audit trail for a product
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        from    query  string  false  "RFC3339 window start"
// @Param        to      query  string  false  "RFC3339 window end"
// @Param        limit   query  int     false  "Page size"   default(20)
// @Param        offset  query  int     false  "Page offset" default(0)
// @Success      200     {array}  dto.StockMovementResponse
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from must be RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to must be RFC3339"})
	}
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.history.Movements(id, from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
