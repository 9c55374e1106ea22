package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/domain"
)

// writeError maps domain errors to HTTP responses. Typed stock/serial errors
// carry the offending serials in Details so the point-of-sale UI can highlight
// exactly what failed.
func writeError(c *fiber.Ctx, err error) error {
	var (
		insufficientStock *domain.InsufficientStockError
		serialUnavailable *domain.SerialUnavailableError
		countMismatch     *domain.SerialCountMismatchError
		serialNotSold     *domain.SerialNotSoldError
		overReturn        *domain.OverReturnError
		duplicateSerial   *domain.DuplicateSerialError
		commitAborted     *domain.CommitAbortedError
	)
	switch {
	case errors.As(err, &commitAborted):
		resp := dto.ErrorResponse{Code: "COMMIT_ABORTED", Message: commitAborted.Error()}
		if errors.As(commitAborted.Cause, &serialUnavailable) {
			resp.Details = serialUnavailable.Serials
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.As(err, &insufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficientStock.Error(),
		})
	case errors.As(err, &serialUnavailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "SERIAL_UNAVAILABLE",
			Message: serialUnavailable.Error(),
			Details: serialUnavailable.Serials,
		})
	case errors.As(err, &duplicateSerial):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE_SERIAL",
			Message: duplicateSerial.Error(),
			Details: duplicateSerial.Serials,
		})
	case errors.As(err, &serialNotSold):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "SERIAL_NOT_SOLD",
			Message: serialNotSold.Error(),
			Details: serialNotSold.Serials,
		})
	case errors.As(err, &overReturn):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "OVER_RETURN",
			Message: overReturn.Error(),
		})
	case errors.As(err, &countMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "SERIAL_COUNT_MISMATCH",
			Message: countMismatch.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrSerialImmutable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SERIAL_TRACKING_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrReservationExpired):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RESERVATION_EXPIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrLockTimeout):
		// 503 so point-of-sale clients retry instead of surfacing a failure.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOCK_TIMEOUT", Message: "inventory busy, retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: fmt.Sprintf("internal error: %v", err)})
	}
}
