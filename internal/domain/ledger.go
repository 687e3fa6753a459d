package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineTotal is quantity times unit price for one item.
func LineTotal(item ItemInput) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ComputeTotals derives subtotal and grand total from the line items.
// total = subtotal + tax - discount.
func ComputeTotals(items []ItemInput, tax, discount decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	total = subtotal.Add(tax).Sub(discount)
	return subtotal, total
}

// PaymentStatusFor derives the payment status purely from paid vs total.
// A zero-total transaction counts as paid.
func PaymentStatusFor(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero):
		return PaymentPaid
	case total.IsZero():
		return PaymentPaid
	case paid.GreaterThan(decimal.Zero):
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}

func numberPrefix(t TransactionType) string {
	if t == TransactionPurchase {
		return "PUR"
	}
	return "SALE"
}

// FormatTransactionNumber renders a sequence value as SALE-0001 / PUR-0001.
// The pad widens past four digits rather than wrapping.
func FormatTransactionNumber(t TransactionType, seq int) string {
	return fmt.Sprintf("%s-%04d", numberPrefix(t), seq)
}

// NextTransactionNumber increments the numeric suffix of the most recently
// issued number for the given type. An empty last number starts the sequence.
func NextTransactionNumber(t TransactionType, last string) (string, error) {
	if strings.TrimSpace(last) == "" {
		return FormatTransactionNumber(t, 1), nil
	}
	prefix := numberPrefix(t) + "-"
	if !strings.HasPrefix(last, prefix) {
		return "", fmt.Errorf("malformed transaction number %q", last)
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil || seq <= 0 {
		return "", fmt.Errorf("malformed transaction number %q", last)
	}
	return FormatTransactionNumber(t, seq+1), nil
}

// StockDelta is one signed quantity movement against a (container, product) pair.
type StockDelta struct {
	ContainerID int64
	ProductID   int64
	Quantity    int
}

// StockDeltas maps line items to signed stock movements: sales deduct,
// purchases add. Items without a container move no stock.
func StockDeltas(t TransactionType, items []ItemInput) []StockDelta {
	deltas := make([]StockDelta, 0, len(items))
	for _, item := range items {
		if item.ContainerID == nil {
			continue
		}
		qty := item.Quantity
		if t == TransactionSale {
			qty = -qty
		}
		deltas = append(deltas, StockDelta{
			ContainerID: *item.ContainerID,
			ProductID:   item.ProductID,
			Quantity:    qty,
		})
	}
	return deltas
}

// ReversalDeltas negates the stock movements of already-posted items so a
// soft delete can put stock back exactly.
func ReversalDeltas(t TransactionType, items []TransactionItem) []StockDelta {
	deltas := make([]StockDelta, 0, len(items))
	for _, item := range items {
		if item.ContainerID == nil {
			continue
		}
		qty := item.Quantity
		if t == TransactionPurchase {
			qty = -qty
		}
		deltas = append(deltas, StockDelta{
			ContainerID: *item.ContainerID,
			ProductID:   item.ProductID,
			Quantity:    qty,
		})
	}
	return deltas
}

// ActionFor is the inventory log action recorded for a posting of this type.
func ActionFor(t TransactionType) string {
	if t == TransactionPurchase {
		return ActionPurchase
	}
	return ActionSale
}

// PostingBalanceDelta is the counterparty balance movement at posting time:
// the unpaid remainder, owed to us on a sale and by us on a purchase.
func PostingBalanceDelta(t TransactionType, total, paid decimal.Decimal) decimal.Decimal {
	due := total.Sub(paid)
	if t == TransactionPurchase {
		return due.Neg()
	}
	return due
}

// PaymentBalanceDelta is the counterparty balance movement when a payment is
// recorded after posting. It always moves the balance toward zero.
func PaymentBalanceDelta(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == TransactionPurchase {
		return amount
	}
	return amount.Neg()
}

// ReversalBalanceDelta undoes the outstanding balance of a transaction at
// deletion time. Recorded payments stay as historical fact, so only the
// still-unpaid remainder is reversed; that restores the pre-posting balance
// exactly.
func ReversalBalanceDelta(t TransactionType, total, paid decimal.Decimal) decimal.Decimal {
	return PostingBalanceDelta(t, total, paid).Neg()
}
