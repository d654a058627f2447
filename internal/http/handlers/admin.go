package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/middleware"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// AdminHandler serves the operator panel.
type AdminHandler struct {
	svc    *actions.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *actions.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// Register expects r to already require an admin or super-admin token.
func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/users", h.handleUsers)
		r.Get("/vendors", h.handleVendors)

		r.Get("/kyc", h.handleKYC)
		r.Post("/kyc/{id}/approve", h.handleKYCDecision(true))
		r.Post("/kyc/{id}/reject", h.handleKYCDecision(false))

		r.Get("/reviews", h.handleReviews)
		r.Post("/reviews/{id}/approve", h.handleModerate(actions.ReviewApprove))
		r.Post("/reviews/{id}/reject", h.handleModerate(actions.ReviewReject))
		r.Delete("/reviews/{id}", h.handleModerate(actions.ReviewDelete))

		r.Get("/tickets", h.handleTickets)
		r.Post("/tickets/{id}/solve", h.handleSolve)

		r.Get("/notifications", h.handleNotifications)
		r.Post("/notifications", h.handleSendNotification)
	})
}

func token(r *http.Request) string {
	return middleware.TokenFrom(r.Context())
}

func (h *AdminHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), token(r))
	if err != nil {
		if backend.IsAuthError(err) {
			respond.Raw(w, http.StatusUnauthorized, actions.Result{Message: backend.Message(err), ClearSession: true})
			return
		}
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dash)
}

func (h *AdminHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Users(r.Context(), token(r), intQuery(r, "page"), intQuery(r, "limit"))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", page)
}

func (h *AdminHandler) handleVendors(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Vendors(r.Context(), token(r), intQuery(r, "page"), intQuery(r, "limit"))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", page)
}

func (h *AdminHandler) handleKYC(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.KYCSubmissions(r.Context(), token(r), r.URL.Query().Get("status"))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", subs)
}

func (h *AdminHandler) handleKYCDecision(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RejectReviewRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		writeResult(w, h.svc.ReviewKYC(r.Context(), token(r), chi.URLParam(r, "id"), approve, req.Reason))
	}
}

func (h *AdminHandler) handleReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.Reviews(r.Context(), token(r), r.URL.Query().Get("status"))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", reviews)
}

func (h *AdminHandler) handleModerate(action actions.ReviewAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RejectReviewRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		writeResult(w, h.svc.ModerateReview(r.Context(), token(r), chi.URLParam(r, "id"), action, req.Reason))
	}
}

func (h *AdminHandler) handleTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.svc.Tickets(r.Context(), token(r), r.URL.Query().Get("status"))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", tickets)
}

func (h *AdminHandler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req dto.SolveTicketRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.SolveTicket(r.Context(), token(r), chi.URLParam(r, "id"), req))
}

func (h *AdminHandler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Notifications(r.Context(), token(r))
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", list)
}

func (h *AdminHandler) handleSendNotification(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.SendNotification(r.Context(), token(r), req))
}
