package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/middleware"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// VendorHandler serves the vendor dashboard: KYC, business details, categories and leads.
type VendorHandler struct {
	svc    *actions.Service
	logger *zap.Logger
}

func NewVendorHandler(svc *actions.Service, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{svc: svc, logger: logger}
}

// Register expects r to already require a bearer token.
func (h *VendorHandler) Register(r chi.Router) {
	r.Post("/api/vendor/kyc", h.handleSubmitKYC)
	r.Put("/api/vendor/kyc/{id}", h.handleUpdateKYC)
	r.Get("/api/vendor/leads", h.handleLeads)
	r.Route("/api/vendor/{vendorId}", func(r chi.Router) {
		r.Get("/kyc", h.handleKYCStatus)
		r.Get("/details", h.handleGetDetails)
		r.Put("/details", h.handlePutDetails)
		r.Get("/categories", h.handleGetCategories)
		r.Put("/categories", h.handlePutCategories)
	})
}

// mirrorTarget is the managed-database vendor row to mirror a KYC submission into.
// Only UUID subjects have one.
func mirrorTarget(r *http.Request) string {
	claims, _ := middleware.ClaimsFrom(r.Context())
	if id, err := uuid.Parse(claims.Subject); err == nil {
		return id.String()
	}
	return ""
}

func (h *VendorHandler) handleSubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req dto.KYCRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.SubmitKYC(r.Context(), middleware.TokenFrom(r.Context()), mirrorTarget(r), req))
}

func (h *VendorHandler) handleUpdateKYC(w http.ResponseWriter, r *http.Request) {
	var req dto.KYCRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	writeResult(w, h.svc.UpdateKYC(r.Context(), middleware.TokenFrom(r.Context()), mirrorTarget(r), id, req))
}

func (h *VendorHandler) handleKYCStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := vendorID(w, r)
	if !ok {
		return
	}
	kyc, err := h.svc.KYCStatus(r.Context(), id)
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", kyc)
}

func (h *VendorHandler) handleGetDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := vendorID(w, r)
	if !ok {
		return
	}
	details, err := h.svc.BusinessDetails(r.Context(), id)
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", details)
}

func (h *VendorHandler) handlePutDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := vendorID(w, r)
	if !ok {
		return
	}
	var req dto.BusinessDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.UpdateBusinessDetails(r.Context(), id, req))
}

func (h *VendorHandler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := vendorID(w, r)
	if !ok {
		return
	}
	cats, err := h.svc.VendorCategories(r.Context(), id)
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", cats)
}

func (h *VendorHandler) handlePutCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := vendorID(w, r)
	if !ok {
		return
	}
	var req dto.VendorCategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.SetVendorCategories(r.Context(), id, req))
}

func (h *VendorHandler) handleLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.VendorLeads(r.Context(), middleware.TokenFrom(r.Context()))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", leads)
}
