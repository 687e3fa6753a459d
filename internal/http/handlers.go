package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mystock-backend/internal/auth"
	"mystock-backend/internal/domain"
	"mystock-backend/internal/repository"
	"mystock-backend/internal/service"
)

var validate = validator.New()

type Handler struct {
	svc  *service.Service
	auth *auth.Manager
	log  *logrus.Logger
}

func NewHandler(svc *service.Service, authManager *auth.Manager, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, auth: authManager, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.svc.ListProducts(r.Context(), repository.ProductListFilter{
		Search: query.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name                 string           `json:"name" validate:"required"`
	Size                 string           `json:"size"`
	Packing              string           `json:"packing"`
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price"`
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), repository.ProductCreateInput{
		Name:                 req.Name,
		Size:                 req.Size,
		Packing:              req.Packing,
		DefaultSalePrice:     req.DefaultSalePrice,
		DefaultPurchasePrice: req.DefaultPurchasePrice,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type patchProductRequest struct {
	Name                 *string          `json:"name"`
	Size                 *string          `json:"size"`
	Packing              *string          `json:"packing"`
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price"`
}

func (h *Handler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req patchProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.svc.PatchProduct(r.Context(), id, repository.ProductPatchInput{
		Name:                 req.Name,
		Size:                 req.Size,
		Packing:              req.Packing,
		DefaultSalePrice:     req.DefaultSalePrice,
		DefaultPurchasePrice: req.DefaultPurchasePrice,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type productPricingRequest struct {
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price"`
}

func (h *Handler) UpdateProductPricing(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req productPricingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.svc.UpdateProductPricing(r.Context(), id, req.DefaultSalePrice, req.DefaultPurchasePrice)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListContainers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.svc.ListContainers(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) GetContainer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	container, err := h.svc.GetContainer(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	contents, err := h.svc.GetContainerContents(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"container": container, "contents": contents})
}

type createContainerRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
}

func (h *Handler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var req createContainerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	created, err := h.svc.CreateContainer(r.Context(), repository.ContainerCreateInput{
		Name: req.Name,
		Type: domain.ContainerType(req.Type),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type patchContainerRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func (h *Handler) PatchContainer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req patchContainerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var containerType *domain.ContainerType
	if req.Type != nil {
		t := domain.ContainerType(*req.Type)
		containerType = &t
	}
	updated, err := h.svc.PatchContainer(r.Context(), id, repository.ContainerPatchInput{
		Name: req.Name,
		Type: containerType,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.svc.DeleteContainer(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.svc.ListContacts(r.Context(), repository.ContactListFilter{
		Search: query.Get("search"),
		Type:   domain.ContactType(strings.TrimSpace(query.Get("type"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	contact, err := h.svc.GetContact(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

type createContactRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin"`
	Type    string  `json:"type"`
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	created, err := h.svc.CreateContact(r.Context(), repository.ContactCreateInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
		Type:    domain.ContactType(req.Type),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type patchContactRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin"`
	Type    *string `json:"type"`
}

func (h *Handler) PatchContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req patchContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var contactType *domain.ContactType
	if req.Type != nil {
		t := domain.ContactType(*req.Type)
		contactType = &t
	}
	updated, err := h.svc.PatchContact(r.Context(), id, repository.ContactPatchInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
		Type:    contactType,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.svc.DeleteContact(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListInventoryLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	productID, err := parseOptionalInt64(query.Get("product_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	containerID, err := parseOptionalInt64(query.Get("container_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	logs, err := h.svc.ListInventoryLogs(r.Context(), repository.InventoryLogFilter{
		ProductID:   productID,
		ContainerID: containerID,
		Action:      strings.TrimSpace(query.Get("action")),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": logs, "count": len(logs)})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// writeServiceError maps domain errors onto HTTP statuses and machine kinds.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var (
		roleErr         *domain.RoleMismatchError
		productErr      *domain.ProductNotFoundError
		containerErr    *domain.ContainerNotFoundError
		missingErr      *domain.MissingContainerError
		itemErr         *domain.InvalidItemError
		insufficientErr *domain.InsufficientStockError
		overpayErr      *domain.OverpaymentError
	)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrAlreadyDeleted):
		writeError(w, http.StatusConflict, "already_deleted", err.Error())
	case errors.Is(err, domain.ErrDuplicateTransactionNumber):
		writeError(w, http.StatusConflict, "duplicate_transaction_number", err.Error())
	case errors.Is(err, domain.ErrNegativeTotal):
		writeError(w, http.StatusUnprocessableEntity, "negative_total", err.Error())
	case errors.As(err, &roleErr):
		writeError(w, http.StatusUnprocessableEntity, "role_mismatch", err.Error())
	case errors.As(err, &productErr):
		writeError(w, http.StatusUnprocessableEntity, "product_not_found", err.Error())
	case errors.As(err, &containerErr):
		writeError(w, http.StatusUnprocessableEntity, "container_not_found", err.Error())
	case errors.As(err, &missingErr):
		writeError(w, http.StatusUnprocessableEntity, "missing_container", err.Error())
	case errors.As(err, &itemErr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_item", err.Error())
	case errors.As(err, &insufficientErr):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.As(err, &overpayErr):
		writeError(w, http.StatusUnprocessableEntity, "overpayment", err.Error())
	default:
		h.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseOptionalInt(raw string, defaultValue int) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %s", raw)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("value cannot be negative")
	}
	return parsed, nil
}

func parseOptionalInt64(raw string) (*int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("invalid id value: %s", raw)
	}
	return &parsed, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]any{"kind": kind, "error": message})
}
