package http

import (
	"net/http"

	"mystock-backend/internal/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.svc.RegisterUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.svc.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		h.log.WithError(err).Error("token generation failed")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing authentication")
		return
	}
	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) GetCompanySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.CompanySettings(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type updateSettingsRequest struct {
	CompanyName        string  `json:"company_name" validate:"required"`
	SellerName         *string `json:"seller_name"`
	SellerPhone        *string `json:"seller_phone"`
	SellerEmail        *string `json:"seller_email"`
	GSTIN              *string `json:"gstin"`
	AddressLine1       *string `json:"address_line1"`
	AddressLine2       *string `json:"address_line2"`
	AddressLine3       *string `json:"address_line3"`
	TermsAndConditions *string `json:"terms_and_conditions"`
}

func (h *Handler) UpdateCompanySettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.svc.UpdateCompanySettings(r.Context(), domain.CompanySettings{
		CompanyName:        req.CompanyName,
		SellerName:         req.SellerName,
		SellerPhone:        req.SellerPhone,
		SellerEmail:        req.SellerEmail,
		GSTIN:              req.GSTIN,
		AddressLine1:       req.AddressLine1,
		AddressLine2:       req.AddressLine2,
		AddressLine3:       req.AddressLine3,
		TermsAndConditions: req.TermsAndConditions,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
