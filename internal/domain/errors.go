package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyDeleted             = errors.New("transaction is already deleted")
	ErrDuplicateTransactionNumber = errors.New("transaction number already taken")
	ErrNegativeTotal              = errors.New("discount exceeds subtotal plus tax")
)

// RoleMismatchError reports a counterparty whose type does not allow the
// requested transaction type (a supplier on a sale, a customer on a purchase).
type RoleMismatchError struct {
	ContactID       int64
	ContactType     ContactType
	TransactionType TransactionType
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("contact %d has type %q and cannot take part in a %s", e.ContactID, e.ContactType, e.TransactionType)
}

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type ContainerNotFoundError struct {
	ContainerID int64
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("container %d not found", e.ContainerID)
}

// MissingContainerError reports a line item without a container on a
// transaction type that moves stock.
type MissingContainerError struct {
	ProductID int64
}

func (e *MissingContainerError) Error() string {
	return fmt.Sprintf("container_id is required for product %d", e.ProductID)
}

type InvalidItemError struct {
	Index  int
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

type InsufficientStockError struct {
	ProductID   int64
	ContainerID int64
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in container %d: requested %d, available %d",
		e.ProductID, e.ContainerID, e.Requested, e.Available)
}

type OverpaymentError struct {
	Paid   decimal.Decimal
	Amount decimal.Decimal
	Total  decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s would exceed total %s (already paid %s)",
		e.Amount.StringFixed(2), e.Total.StringFixed(2), e.Paid.StringFixed(2))
}
