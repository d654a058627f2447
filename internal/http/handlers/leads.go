package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/middleware"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// LeadPaymentHandler relays the lead-acceptance payment handshake to the backend.
// Both responses are passed through unwrapped, matching the backend's shape.
type LeadPaymentHandler struct {
	svc    *actions.Service
	logger *zap.Logger
}

func NewLeadPaymentHandler(svc *actions.Service, logger *zap.Logger) *LeadPaymentHandler {
	return &LeadPaymentHandler{svc: svc, logger: logger}
}

// Register expects r to already require a bearer token.
func (h *LeadPaymentHandler) Register(r chi.Router) {
	r.Post("/api/leads/{leadResponseId}/order", h.handleCreateOrder)
	r.Post("/api/leads/verify", h.handleVerify)
}

func (h *LeadPaymentHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "leadResponseId"))
	if id == "" {
		respond.Error(w, http.StatusBadRequest, "leadResponseId is required")
		return
	}
	order, err := h.svc.CreateLeadOrder(r.Context(), middleware.TokenFrom(r.Context()), id)
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.Raw(w, http.StatusOK, order)
}

func (h *LeadPaymentHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.LeadResponseID == "" {
		respond.Error(w, http.StatusBadRequest, "payment reference is incomplete")
		return
	}
	out, err := h.svc.VerifyLeadPayment(r.Context(), middleware.TokenFrom(r.Context()), req)
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.Raw(w, http.StatusOK, out)
}
