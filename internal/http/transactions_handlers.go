package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"mystock-backend/internal/domain"
	"mystock-backend/internal/repository"
	"mystock-backend/internal/service"
)

type transactionItemRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,gt=0"`
	ContainerID *int64          `json:"container_id"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createTransactionRequest struct {
	ContactID        int64                    `json:"contact_id" validate:"required,gt=0"`
	TransactionDate  string                   `json:"transaction_date"`
	Items            []transactionItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxAmount        decimal.Decimal          `json:"tax_amount"`
	DiscountAmount   decimal.Decimal          `json:"discount_amount"`
	PaidAmount       decimal.Decimal          `json:"paid_amount"`
	PaymentMethod    *string                  `json:"payment_method"`
	PaymentReference *string                  `json:"payment_reference"`
	Notes            *string                  `json:"notes"`
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	h.createTransaction(w, r, domain.TransactionSale)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	h.createTransaction(w, r, domain.TransactionPurchase)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request, typ domain.TransactionType) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	date, err := parseOptionalDate(req.TransactionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input := service.TransactionInput{
		ContactID:        req.ContactID,
		TaxAmount:        req.TaxAmount,
		DiscountAmount:   req.DiscountAmount,
		PaidAmount:       req.PaidAmount,
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
	}
	if date != nil {
		input.TransactionDate = *date
	}
	if req.PaymentMethod != nil {
		m := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &m
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, domain.ItemInput{
			ProductID:   item.ProductID,
			ContainerID: item.ContainerID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	var detail *domain.TransactionDetail
	if typ == domain.TransactionSale {
		detail, err = h.svc.PostSale(r.Context(), input)
	} else {
		detail, err = h.svc.PostPurchase(r.Context(), input)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func transactionFilterFromQuery(r *http.Request) (repository.TransactionListFilter, error) {
	query := r.URL.Query()

	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		return repository.TransactionListFilter{}, err
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		return repository.TransactionListFilter{}, err
	}
	contactID, err := parseOptionalInt64(query.Get("contact_id"))
	if err != nil {
		return repository.TransactionListFilter{}, err
	}
	from, err := parseOptionalDate(query.Get("from_date"))
	if err != nil {
		return repository.TransactionListFilter{}, err
	}
	to, err := parseOptionalDate(query.Get("to_date"))
	if err != nil {
		return repository.TransactionListFilter{}, err
	}

	return repository.TransactionListFilter{
		Type:      domain.TransactionType(strings.TrimSpace(query.Get("type"))),
		Status:    domain.PaymentStatus(strings.TrimSpace(query.Get("status"))),
		ContactID: contactID,
		From:      from,
		To:        to,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPaymentRequest struct {
	PaymentDate     string          `json:"payment_date"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
	ReferenceNumber *string         `json:"reference_number"`
	Notes           *string         `json:"notes"`
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	date, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input := service.PaymentInput{
		Amount:          req.Amount,
		Method:          domain.PaymentMethod(req.PaymentMethod),
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
	if date != nil {
		input.PaymentDate = *date
	}

	updated, err := h.svc.RecordPayment(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	payments, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": payments, "count": len(payments)})
}

func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := parseOptionalDate(query.Get("from_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	to, err := parseOptionalDate(query.Get("to_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summary, err := h.svc.TransactionSummary(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListOutstanding(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListOutstanding(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
