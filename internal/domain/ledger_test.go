package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func int64ptr(v int64) *int64 { return &v }

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []ItemInput
		tax          string
		discount     string
		wantSubtotal string
		wantTotal    string
	}{
		{
			name: "single line with tax and discount",
			items: []ItemInput{
				{ProductID: 1, ContainerID: int64ptr(1), Quantity: 100, UnitPrice: dec("25.50")},
			},
			tax:          "450",
			discount:     "50",
			wantSubtotal: "2550",
			wantTotal:    "2950",
		},
		{
			name: "multiple lines",
			items: []ItemInput{
				{ProductID: 1, Quantity: 3, UnitPrice: dec("10.25")},
				{ProductID: 2, Quantity: 2, UnitPrice: dec("99.99")},
			},
			tax:          "0",
			discount:     "0",
			wantSubtotal: "230.73",
			wantTotal:    "230.73",
		},
		{
			name:         "no items",
			items:        nil,
			tax:          "0",
			discount:     "0",
			wantSubtotal: "0",
			wantTotal:    "0",
		},
		{
			name: "discount larger than subtotal goes negative",
			items: []ItemInput{
				{ProductID: 1, Quantity: 1, UnitPrice: dec("10")},
			},
			tax:          "0",
			discount:     "25",
			wantSubtotal: "10",
			wantTotal:    "-15",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			subtotal, total := ComputeTotals(tc.items, dec(tc.tax), dec(tc.discount))
			if !subtotal.Equal(dec(tc.wantSubtotal)) {
				t.Fatalf("subtotal = %s, want %s", subtotal, tc.wantSubtotal)
			}
			if !total.Equal(dec(tc.wantTotal)) {
				t.Fatalf("total = %s, want %s", total, tc.wantTotal)
			}
		})
	}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		paid  string
		total string
		want  PaymentStatus
	}{
		{"0", "2950", PaymentUnpaid},
		{"2000", "2950", PaymentPartial},
		{"2950", "2950", PaymentPaid},
		{"0.01", "2950", PaymentPartial},
		{"2949.99", "2950", PaymentPartial},
		{"0", "0", PaymentPaid},
	}

	for _, tc := range tests {
		if got := PaymentStatusFor(dec(tc.paid), dec(tc.total)); got != tc.want {
			t.Fatalf("PaymentStatusFor(%s, %s) = %s, want %s", tc.paid, tc.total, got, tc.want)
		}
	}
}

func TestNextTransactionNumber(t *testing.T) {
	tests := []struct {
		typ     TransactionType
		last    string
		want    string
		wantErr bool
	}{
		{TransactionSale, "", "SALE-0001", false},
		{TransactionSale, "SALE-0001", "SALE-0002", false},
		{TransactionSale, "SALE-0042", "SALE-0043", false},
		{TransactionSale, "SALE-9999", "SALE-10000", false},
		{TransactionPurchase, "", "PUR-0001", false},
		{TransactionPurchase, "PUR-0007", "PUR-0008", false},
		{TransactionSale, "PUR-0007", "", true},
		{TransactionSale, "SALE-abc", "", true},
		{TransactionSale, "SALE-0", "", true},
	}

	for _, tc := range tests {
		got, err := NextTransactionNumber(tc.typ, tc.last)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NextTransactionNumber(%s, %q): expected error, got %q", tc.typ, tc.last, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NextTransactionNumber(%s, %q): %v", tc.typ, tc.last, err)
		}
		if got != tc.want {
			t.Fatalf("NextTransactionNumber(%s, %q) = %q, want %q", tc.typ, tc.last, got, tc.want)
		}
	}
}

func TestStockDeltas(t *testing.T) {
	items := []ItemInput{
		{ProductID: 1, ContainerID: int64ptr(5), Quantity: 100, UnitPrice: dec("25.50")},
		{ProductID: 2, Quantity: 10, UnitPrice: dec("1")},
	}

	sale := StockDeltas(TransactionSale, items)
	if len(sale) != 1 {
		t.Fatalf("sale deltas = %d, want 1 (no container means no movement)", len(sale))
	}
	if sale[0].Quantity != -100 {
		t.Fatalf("sale delta = %d, want -100", sale[0].Quantity)
	}

	purchase := StockDeltas(TransactionPurchase, items)
	if purchase[0].Quantity != 100 {
		t.Fatalf("purchase delta = %d, want 100", purchase[0].Quantity)
	}
}

func TestReversalDeltasUndoPosting(t *testing.T) {
	items := []ItemInput{
		{ProductID: 1, ContainerID: int64ptr(5), Quantity: 30, UnitPrice: dec("2")},
		{ProductID: 2, ContainerID: int64ptr(6), Quantity: 7, UnitPrice: dec("3")},
	}
	posted := []TransactionItem{
		{ProductID: 1, ContainerID: int64ptr(5), Quantity: 30},
		{ProductID: 2, ContainerID: int64ptr(6), Quantity: 7},
	}

	for _, typ := range []TransactionType{TransactionSale, TransactionPurchase} {
		forward := StockDeltas(typ, items)
		reverse := ReversalDeltas(typ, posted)
		if len(forward) != len(reverse) {
			t.Fatalf("%s: delta count mismatch", typ)
		}
		for i := range forward {
			if forward[i].Quantity+reverse[i].Quantity != 0 {
				t.Fatalf("%s: delta %d does not cancel: %d vs %d", typ, i, forward[i].Quantity, reverse[i].Quantity)
			}
		}
	}
}

func TestBalanceDeltas(t *testing.T) {
	total := dec("2950")
	paid := dec("2000")

	if got := PostingBalanceDelta(TransactionSale, total, paid); !got.Equal(dec("950")) {
		t.Fatalf("sale posting delta = %s, want 950", got)
	}
	if got := PostingBalanceDelta(TransactionPurchase, total, paid); !got.Equal(dec("-950")) {
		t.Fatalf("purchase posting delta = %s, want -950", got)
	}
	if got := PaymentBalanceDelta(TransactionSale, dec("950")); !got.Equal(dec("-950")) {
		t.Fatalf("sale payment delta = %s, want -950", got)
	}
	if got := PaymentBalanceDelta(TransactionPurchase, dec("950")); !got.Equal(dec("950")) {
		t.Fatalf("purchase payment delta = %s, want 950", got)
	}

	// Posting then reversing at the same paid amount must cancel.
	sum := PostingBalanceDelta(TransactionSale, total, paid).
		Add(ReversalBalanceDelta(TransactionSale, total, paid))
	if !sum.IsZero() {
		t.Fatalf("posting + reversal = %s, want 0", sum)
	}
}

// A sale posted with a partial initial payment, then paid off, then deleted
// must leave the counterparty balance exactly where it started.
func TestBalanceRoundTripWithLaterPayment(t *testing.T) {
	total := dec("2950")
	initialPaid := dec("2000")
	laterPayment := dec("950")

	balance := dec("100")
	balance = balance.Add(PostingBalanceDelta(TransactionSale, total, initialPaid))
	balance = balance.Add(PaymentBalanceDelta(TransactionSale, laterPayment))
	finalPaid := initialPaid.Add(laterPayment)
	balance = balance.Add(ReversalBalanceDelta(TransactionSale, total, finalPaid))

	if !balance.Equal(dec("100")) {
		t.Fatalf("balance after round trip = %s, want 100", balance)
	}
}
