package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain sentinels (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
	ErrLockTimeout        = errors.New("timed out waiting for product lock")
	ErrReservationExpired = errors.New("reservation expired")
	ErrSerialImmutable    = errors.New("requires_serial cannot change once serial history exists")
)

// InsufficientStockError is returned when a reservation or adjustment would push
// available stock below zero. Carries the shortfall so the caller can surface it.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// SerialUnavailableError names the serials that are not currently available
// (already claimed, sold, or unknown for the product).
type SerialUnavailableError struct {
	ProductID string
	Serials   []string
}

func (e *SerialUnavailableError) Error() string {
	return fmt.Sprintf("serials not available for product %s: %s",
		e.ProductID, strings.Join(e.Serials, ", "))
}

// SerialCountMismatchError: a serialized line must name exactly one serial per unit.
type SerialCountMismatchError struct {
	ProductID string
	Quantity  int
	Serials   int
}

func (e *SerialCountMismatchError) Error() string {
	return fmt.Sprintf("product %s requires serials: quantity %d but %d serial(s) given",
		e.ProductID, e.Quantity, e.Serials)
}

// SerialNotSoldError names serials that were not sold under the referenced sale.
type SerialNotSoldError struct {
	SaleID  string
	Serials []string
}

func (e *SerialNotSoldError) Error() string {
	return fmt.Sprintf("serials not sold under sale %s: %s",
		e.SaleID, strings.Join(e.Serials, ", "))
}

// OverReturnError: cumulative returns for a line would exceed the quantity sold.
type OverReturnError struct {
	SaleID     string
	ProductID  string
	Requested  int
	Returnable int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("over-return on sale %s product %s: requested %d, returnable %d",
		e.SaleID, e.ProductID, e.Requested, e.Returnable)
}

// DuplicateSerialError names serials that already exist for the product.
type DuplicateSerialError struct {
	ProductID string
	Serials   []string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("duplicate serials for product %s: %s",
		e.ProductID, strings.Join(e.Serials, ", "))
}

// CommitAbortedError summarizes which line made an all-or-nothing commit fail.
// Cause is the underlying conflict (serial claimed, stock short, ...).
type CommitAbortedError struct {
	SaleID    string
	ProductID string
	Cause     error
}

func (e *CommitAbortedError) Error() string {
	return fmt.Sprintf("commit of sale %s aborted at product %s: %v", e.SaleID, e.ProductID, e.Cause)
}

func (e *CommitAbortedError) Unwrap() error { return e.Cause }
