package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// BusinessLookup is the part of the backend client the business proxy needs.
type BusinessLookup interface {
	Configured() bool
	GetBusiness(ctx context.Context, id string) (dto.Business, error)
	GetVendorProfile(ctx context.Context, userID string) (models.VendorProfile, error)
}

// BusinessHandler resolves a business id to its owner's full vendor profile.
type BusinessHandler struct {
	lookup BusinessLookup
	logger *zap.Logger
}

// NewBusinessHandler constructs the handler.
func NewBusinessHandler(lookup BusinessLookup, logger *zap.Logger) *BusinessHandler {
	return &BusinessHandler{lookup: lookup, logger: logger}
}

// Register attaches the proxy route.
func (h *BusinessHandler) Register(r chi.Router) {
	r.Get("/api/business/{id}", h.handleGet)
}

func (h *BusinessHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if !h.lookup.Configured() {
		h.logger.Error("business proxy: backend base URL is not configured")
		respond.Raw(w, http.StatusInternalServerError, dto.BusinessProxyResponse{Message: "server misconfigured"})
		return
	}
	id := chi.URLParam(r, "id")

	business, err := h.lookup.GetBusiness(r.Context(), id)
	if err != nil {
		h.upstreamFailed(w, "business lookup", id, err)
		return
	}
	ownerID := string(business.UserID)
	if ownerID == "" {
		h.logger.Info("business has no owner", zap.String("business_id", id))
		respond.Raw(w, http.StatusNotFound, dto.BusinessProxyResponse{Message: "business owner not found"})
		return
	}

	profile, err := h.lookup.GetVendorProfile(r.Context(), ownerID)
	if err != nil {
		h.upstreamFailed(w, "vendor profile lookup", ownerID, err)
		return
	}
	respond.Raw(w, http.StatusOK, dto.BusinessProxyResponse{Success: true, Data: profile})
}

func (h *BusinessHandler) upstreamFailed(w http.ResponseWriter, op, id string, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		h.logger.Info("business proxy: upstream rejected", zap.String("op", op), zap.String("id", id), zap.Int("status", apiErr.Status))
		respond.Raw(w, http.StatusNotFound, dto.BusinessProxyResponse{Message: "business not found"})
		return
	}
	h.logger.Error("business proxy failed", zap.String("op", op), zap.String("id", id), zap.Error(err))
	respond.Raw(w, http.StatusInternalServerError, dto.BusinessProxyResponse{Message: "internal server error"})
}
