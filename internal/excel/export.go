// Package excel builds xlsx exports of transaction data.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"mystock-backend/internal/domain"
)

const transactionsSheet = "Transactions"

var transactionHeaders = []string{
	"Number", "Date", "Type", "Contact", "Subtotal", "Tax",
	"Discount", "Total", "Paid", "Balance Due", "Status", "Notes",
}

// TransactionsReport builds a workbook with one row per transaction. The
// caller owns the returned file and must Close it.
func TransactionsReport(rows []domain.TransactionRow) (*excelize.File, error) {
	file := excelize.NewFile()

	index, err := file.NewSheet(transactionsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range transactionHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(transactionsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(transactionHeaders), 1)
	if err := file.SetCellStyle(transactionsSheet, "A1", endCell, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		notes := ""
		if row.Notes != nil {
			notes = *row.Notes
		}
		values := []any{
			row.TransactionNumber,
			row.TransactionDate.Format("2006-01-02"),
			string(row.Type),
			row.ContactName,
			row.Subtotal.StringFixed(2),
			row.TaxAmount.StringFixed(2),
			row.DiscountAmount.StringFixed(2),
			row.TotalAmount.StringFixed(2),
			row.PaidAmount.StringFixed(2),
			row.TotalAmount.Sub(row.PaidAmount).StringFixed(2),
			string(row.PaymentStatus),
			notes,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(transactionsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if err := file.SetColWidth(transactionsSheet, "A", "A", 14); err != nil {
		return nil, err
	}
	if err := file.SetColWidth(transactionsSheet, "D", "D", 28); err != nil {
		return nil, err
	}
	if err := file.SetColWidth(transactionsSheet, "L", "L", 36); err != nil {
		return nil, err
	}

	return file, nil
}
