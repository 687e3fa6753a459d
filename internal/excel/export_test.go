package excel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mystock-backend/internal/domain"
)

func row(number string, typ domain.TransactionType, contact string, total, paid string) domain.TransactionRow {
	t := decimal.RequireFromString(total)
	p := decimal.RequireFromString(paid)
	return domain.TransactionRow{
		Transaction: domain.Transaction{
			TransactionNumber: number,
			TransactionDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			Type:              typ,
			Subtotal:          t,
			TotalAmount:       t,
			PaidAmount:        p,
			PaymentStatus:     domain.PaymentStatusFor(p, t),
		},
		ContactName: contact,
	}
}

func TestTransactionsReport(t *testing.T) {
	rows := []domain.TransactionRow{
		row("SALE-0001", domain.TransactionSale, "Acme Traders", "2950.00", "2000.00"),
		row("PUR-0001", domain.TransactionPurchase, "Mill Supplies", "490.00", "490.00"),
	}

	file, err := TransactionsReport(rows)
	if err != nil {
		t.Fatalf("TransactionsReport: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Transactions" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	checks := map[string]string{
		"A1": "Number",
		"A2": "SALE-0001",
		"B2": "2026-03-14",
		"C2": "sale",
		"D2": "Acme Traders",
		"H2": "2950.00",
		"I2": "2000.00",
		"J2": "950.00",
		"K2": "partial",
		"A3": "PUR-0001",
		"J3": "0.00",
		"K3": "paid",
	}
	for cell, want := range checks {
		got, err := file.GetCellValue("Transactions", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}
}

func TestTransactionsReportEmpty(t *testing.T) {
	file, err := TransactionsReport(nil)
	if err != nil {
		t.Fatalf("TransactionsReport: %v", err)
	}
	defer file.Close()

	got, err := file.GetCellValue("Transactions", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty data row, got %q", got)
	}
}
