package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/config"
	"github.com/hongminglow/vendorhub-be/internal/storage/memory"
)

func TestRoutes(t *testing.T) {
	cfg := config.Config{Port: "0", JWTSecret: "s", CORSOrigins: []string{"*"}}
	h := Routes(cfg, backend.New(""), memory.NewStore(), zaptest.NewLogger(t))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/business/b1", http.StatusInternalServerError},
		{http.MethodGet, "/api/vendor/leads", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/dashboard", http.StatusUnauthorized},
		{http.MethodGet, "/api/categories", http.StatusInternalServerError},
		{http.MethodGet, "/api/service-categories", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodPatch, "/health", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "%s %s", tt.method, tt.path)
	}
}
