package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// Authenticator is the part of the backend client that issues tokens.
type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (dto.LoginResponse, error)
}

// AuthHandler forwards login and token refresh to the backend, which owns credentials.
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/refresh", h.handleRefresh)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	out, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.rejected(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", out)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respond.Error(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	out, err := h.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.rejected(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "token refreshed", out)
}

func (h *AuthHandler) rejected(w http.ResponseWriter, err error) {
	if backend.IsAuthError(err) || backend.IsNotFound(err) {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeFetchError(w, h.logger, err)
}
