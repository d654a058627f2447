package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/middleware"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// CatalogHandler serves the public category listings and their admin CRUD.
type CatalogHandler struct {
	svc    *actions.Service
	logger *zap.Logger
}

func NewCatalogHandler(svc *actions.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, logger: logger}
}

// RegisterPublic attaches the read-only listings.
func (h *CatalogHandler) RegisterPublic(r chi.Router) {
	r.Get("/api/categories", h.handleList)
	r.Get("/api/service-categories", h.handleServiceCategories)
}

// RegisterAdmin attaches category writes; r must already require an admin token.
func (h *CatalogHandler) RegisterAdmin(r chi.Router) {
	r.Post("/api/categories", h.handleCreate)
	r.Put("/api/categories/{id}", h.handleUpdate)
	r.Delete("/api/categories/{id}", h.handleDelete)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", cats)
}

func (h *CatalogHandler) handleServiceCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ServiceCategories(r.Context())
	if err != nil {
		writeFetchError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", cats)
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.CreateCategory(r.Context(), middleware.TokenFrom(r.Context()), req))
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, h.svc.UpdateCategory(r.Context(), middleware.TokenFrom(r.Context()), chi.URLParam(r, "id"), req))
}

func (h *CatalogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.svc.DeleteCategory(r.Context(), middleware.TokenFrom(r.Context()), chi.URLParam(r, "id")))
}
