// Package pdf renders transaction invoices as A4 PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"mystock-backend/internal/domain"
)

// Invoice renders one posted transaction as a printable invoice. Sales are
// titled "TAX INVOICE" and purchases "PURCHASE RECORD".
func Invoice(settings domain.CompanySettings, detail *domain.TransactionDetail, contact *domain.Contact) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	title := "TAX INVOICE"
	counterpartyLabel := "Bill To"
	if detail.Type == domain.TransactionPurchase {
		title = "PURCHASE RECORD"
		counterpartyLabel = "Supplier"
	}

	// Company header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, settings.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range []*string{settings.AddressLine1, settings.AddressLine2, settings.AddressLine3} {
		if line != nil && *line != "" {
			pdf.CellFormat(190, 5, *line, "", 1, "C", false, 0, "")
		}
	}
	var contactBits []string
	if settings.SellerPhone != nil && *settings.SellerPhone != "" {
		contactBits = append(contactBits, "Phone: "+*settings.SellerPhone)
	}
	if settings.SellerEmail != nil && *settings.SellerEmail != "" {
		contactBits = append(contactBits, "Email: "+*settings.SellerEmail)
	}
	if settings.GSTIN != nil && *settings.GSTIN != "" {
		contactBits = append(contactBits, "GSTIN: "+*settings.GSTIN)
	}
	if len(contactBits) > 0 {
		pdf.CellFormat(190, 5, strings.Join(contactBits, "  |  "), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 9, title, "1", 1, "C", false, 0, "")

	// Invoice meta and counterparty
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Invoice No: %s", detail.TransactionNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", detail.TransactionDate.Format("02-Jan-2006")), "RB", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 7, counterpartyLabel, "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, contact.Name, "LR", 1, "L", false, 0, "")
	if contact.Phone != nil && *contact.Phone != "" {
		pdf.CellFormat(190, 6, "Phone: "+*contact.Phone, "LR", 1, "L", false, 0, "")
	}
	if contact.Address != nil && *contact.Address != "" {
		pdf.CellFormat(190, 6, *contact.Address, "LR", 1, "L", false, 0, "")
	}
	pdf.CellFormat(190, 1, "", "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Container", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range detail.Items {
		name := item.ProductName
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		container := ""
		if item.ContainerName != nil {
			container = *item.ContainerName
		}
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, container, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, item.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Totals block, right aligned under the amount column
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", detail.Subtotal.StringFixed(2)},
		{"Tax", detail.TaxAmount.StringFixed(2)},
		{"Discount", detail.DiscountAmount.StringFixed(2)},
		{"Total", detail.TotalAmount.StringFixed(2)},
		{"Paid", detail.PaidAmount.StringFixed(2)},
		{"Balance Due", detail.TotalAmount.Sub(detail.PaidAmount).StringFixed(2)},
	}
	for _, row := range totals {
		pdf.CellFormat(135, 6, "", "", 0, "L", false, 0, "")
		if row.label == "Total" || row.label == "Balance Due" {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		pdf.CellFormat(25, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, row.value, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if len(detail.Payments) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 7, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Method", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Reference", "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 7, "Amount", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range detail.Payments {
			reference := ""
			if p.ReferenceNumber != nil {
				reference = *p.ReferenceNumber
			}
			if len(reference) > 24 {
				reference = reference[:21] + "..."
			}
			pdf.CellFormat(40, 6, p.PaymentDate.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, string(p.Method), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, reference, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if detail.Notes != nil && *detail.Notes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, "Notes: "+*detail.Notes, "", "L", false)
		pdf.Ln(2)
	}

	if settings.TermsAndConditions != nil && *settings.TermsAndConditions != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(190, 5, "Terms & Conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(190, 4, *settings.TermsAndConditions, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
