package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mystock-backend/internal/domain"
	"mystock-backend/internal/metrics"
	"mystock-backend/internal/repository"
)

type TransactionInput struct {
	ContactID        int64
	TransactionDate  time.Time
	Items            []domain.ItemInput
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	PaidAmount       decimal.Decimal
	PaymentMethod    *domain.PaymentMethod
	PaymentReference *string
	Notes            *string
}

type PaymentInput struct {
	PaymentDate     time.Time
	Amount          decimal.Decimal
	Method          domain.PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

func (s *Service) PostSale(ctx context.Context, input TransactionInput) (*domain.TransactionDetail, error) {
	return s.postTransaction(ctx, domain.TransactionSale, input)
}

func (s *Service) PostPurchase(ctx context.Context, input TransactionInput) (*domain.TransactionDetail, error) {
	return s.postTransaction(ctx, domain.TransactionPurchase, input)
}

// postTransaction validates a draft end to end, then hands it to the store,
// which re-verifies stock under row locks. Validation order: counterparty,
// items, amounts, stock.
func (s *Service) postTransaction(ctx context.Context, typ domain.TransactionType, input TransactionInput) (*domain.TransactionDetail, error) {
	contact, err := s.store.GetContact(ctx, input.ContactID)
	if err != nil {
		return nil, err
	}
	if !contactAllows(contact.Type, typ) {
		return nil, &domain.RoleMismatchError{
			ContactID:       contact.ID,
			ContactType:     contact.Type,
			TransactionType: typ,
		}
	}

	if len(input.Items) == 0 {
		return nil, &domain.InvalidItemError{Index: 0, Reason: "at least one item is required"}
	}
	if input.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("tax_amount must not be negative")
	}
	if input.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("discount_amount must not be negative")
	}
	if input.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("paid_amount must not be negative")
	}

	productIDs := make([]int64, 0, len(input.Items))
	containerIDs := make([]int64, 0, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &domain.InvalidItemError{Index: i, Reason: "quantity must be positive"}
		}
		if item.UnitPrice.IsNegative() {
			return nil, &domain.InvalidItemError{Index: i, Reason: "unit_price must not be negative"}
		}
		productIDs = append(productIDs, item.ProductID)
		if item.ContainerID != nil {
			containerIDs = append(containerIDs, *item.ContainerID)
		}
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	containers, err := s.store.GetContainersByIDs(ctx, containerIDs)
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		if _, ok := products[item.ProductID]; !ok {
			return nil, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
		if item.ContainerID == nil {
			return nil, &domain.MissingContainerError{ProductID: item.ProductID}
		}
		if _, ok := containers[*item.ContainerID]; !ok {
			return nil, &domain.ContainerNotFoundError{ContainerID: *item.ContainerID}
		}
	}

	subtotal, total := domain.ComputeTotals(input.Items, input.TaxAmount, input.DiscountAmount)
	if total.IsNegative() {
		return nil, domain.ErrNegativeTotal
	}
	if input.PaidAmount.GreaterThan(total) {
		return nil, &domain.OverpaymentError{
			Paid:   decimal.Zero,
			Amount: input.PaidAmount,
			Total:  total,
		}
	}
	if input.PaidAmount.GreaterThan(decimal.Zero) && input.PaymentMethod == nil {
		return nil, fmt.Errorf("payment_method is required when paid_amount > 0")
	}

	// Friendly pre-check; the store repeats it under row locks.
	if typ == domain.TransactionSale {
		for _, delta := range domain.StockDeltas(typ, input.Items) {
			available, err := s.store.StockLevel(ctx, delta.ContainerID, delta.ProductID)
			if err != nil {
				return nil, err
			}
			if available < -delta.Quantity {
				return nil, &domain.InsufficientStockError{
					ProductID:   delta.ProductID,
					ContainerID: delta.ContainerID,
					Requested:   -delta.Quantity,
					Available:   available,
				}
			}
		}
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	draft := domain.TransactionDraft{
		Type:            typ,
		TransactionDate: date,
		ContactID:       input.ContactID,
		Items:           input.Items,
		Subtotal:        subtotal,
		TaxAmount:       input.TaxAmount,
		DiscountAmount:  input.DiscountAmount,
		TotalAmount:     total,
		PaidAmount:      input.PaidAmount,
		PaymentStatus:   domain.PaymentStatusFor(input.PaidAmount, total),
		Notes:           input.Notes,
	}
	if input.PaidAmount.GreaterThan(decimal.Zero) {
		draft.InitialPayment = &domain.PaymentDraft{
			PaymentDate:     date,
			Amount:          input.PaidAmount,
			Method:          *input.PaymentMethod,
			ReferenceNumber: input.PaymentReference,
		}
	}

	detail, err := s.store.CreateTransaction(ctx, draft)
	if err != nil {
		return nil, err
	}

	metrics.TransactionsPosted.WithLabelValues(string(typ)).Inc()
	s.log.WithFields(logrus.Fields{
		"transaction_number": detail.TransactionNumber,
		"type":               typ,
		"contact_id":         input.ContactID,
		"total":              total.StringFixed(2),
	}).Info("transaction posted")

	return detail, nil
}

func (s *Service) GetTransaction(ctx context.Context, id int64) (*domain.TransactionDetail, error) {
	return s.store.GetTransactionDetail(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter repository.TransactionListFilter) ([]domain.TransactionRow, error) {
	if filter.Type != "" && filter.Type != domain.TransactionSale && filter.Type != domain.TransactionPurchase {
		return nil, fmt.Errorf("type must be sale or purchase")
	}
	return s.store.ListTransactions(ctx, filter)
}

// RecordPayment applies a payment to a live transaction. A payment dated
// before the transaction date is accepted with a warning.
func (s *Service) RecordPayment(ctx context.Context, transactionID int64, input PaymentInput) (*domain.Transaction, error) {
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !validPaymentMethod(input.Method) {
		return nil, fmt.Errorf("invalid payment_method %q", input.Method)
	}

	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	date := input.PaymentDate
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if date.Before(txn.TransactionDate) {
		s.log.WithFields(logrus.Fields{
			"transaction_number": txn.TransactionNumber,
			"payment_date":       date.Format("2006-01-02"),
			"transaction_date":   txn.TransactionDate.Format("2006-01-02"),
		}).Warn("payment dated before transaction")
	}

	updated, err := s.store.AddPayment(ctx, transactionID, domain.PaymentDraft{
		PaymentDate:     date,
		Amount:          input.Amount,
		Method:          input.Method,
		ReferenceNumber: input.ReferenceNumber,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	return updated, nil
}

func (s *Service) ListPayments(ctx context.Context, transactionID int64) ([]domain.Payment, error) {
	if _, err := s.store.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, transactionID)
}

func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.SoftDeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.log.WithField("transaction_id", id).Info("transaction reversed and deleted")
	return nil
}

func (s *Service) TransactionSummary(ctx context.Context, from, to *time.Time) (domain.TransactionSummary, error) {
	return s.store.TransactionSummary(ctx, from, to)
}

func (s *Service) ListOutstanding(ctx context.Context) ([]domain.OutstandingRow, error) {
	return s.store.ListOutstanding(ctx)
}

func contactAllows(contactType domain.ContactType, txnType domain.TransactionType) bool {
	if contactType == domain.ContactBoth {
		return true
	}
	if txnType == domain.TransactionSale {
		return contactType == domain.ContactCustomer
	}
	return contactType == domain.ContactSupplier
}

func validPaymentMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.MethodCash, domain.MethodBankTransfer, domain.MethodUPI, domain.MethodCheque, domain.MethodOther:
		return true
	}
	return false
}
