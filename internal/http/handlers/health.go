package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/vendorhub-be/internal/http/respond"
)

// HealthHandler returns uptime and whether the backend collaborator is configured.
type HealthHandler struct {
	startedAt         time.Time
	backendConfigured bool
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, backendConfigured bool) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, backendConfigured: backendConfigured}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.backendConfigured {
		status = "degraded"
	}
	respond.JSON(w, http.StatusOK, status, map[string]string{
		"status": status,
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
