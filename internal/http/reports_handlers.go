package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mystock-backend/internal/excel"
	"mystock-backend/internal/pdf"
)

// TransactionInvoice renders a transaction as a PDF invoice using the stored
// company settings.
func (h *Handler) TransactionInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	detail, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	contact, err := h.svc.GetContact(r.Context(), detail.ContactID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	settings, err := h.svc.CompanySettings(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	body, err := pdf.Invoice(settings, detail, contact)
	if err != nil {
		h.log.WithError(err).Error("invoice generation failed")
		writeError(w, http.StatusInternalServerError, "internal", "invoice generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", detail.TransactionNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// TransactionsExcel streams the filtered transaction list as an xlsx workbook.
func (h *Handler) TransactionsExcel(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rows, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	workbook, err := excel.TransactionsReport(rows)
	if err != nil {
		h.log.WithError(err).Error("excel export failed")
		writeError(w, http.StatusInternalServerError, "internal", "excel export failed")
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=transactions.xlsx")
	w.WriteHeader(http.StatusOK)
	if err := workbook.Write(w); err != nil {
		h.log.WithError(err).Error("excel export write failed")
	}
}
