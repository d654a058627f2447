package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://any.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBearer(t *testing.T) {
	tokens := auth.NewTokenManager("s3cret", "", time.Hour)
	valid, err := tokens.Generate(models.User{ID: "u1", Role: models.RoleVendor})
	require.NoError(t, err)
	expired, err := auth.NewTokenManager("s3cret", "", -time.Hour).Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	var seenToken string
	var seenRole string
	h := Bearer(auth.NewInspector("s3cret", ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenToken = TokenFrom(r.Context())
		claims, _ := ClaimsFrom(r.Context())
		seenRole = claims.Role
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized, body: "token missing"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, body: "token missing"},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized, body: "token invalid"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, body: "token expired"},
		{name: "valid", header: "bearer " + valid, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
	assert.Equal(t, valid, seenToken)
	assert.Equal(t, models.RoleVendor, seenRole)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("s3cret", "", time.Hour)
	inspector := auth.NewInspector("s3cret", "")
	h := Bearer(inspector)(RequireRole(models.RoleAdmin, models.RoleSuperAdmin)(okHandler()))

	for role, want := range map[string]int{
		models.RoleVendor:     http.StatusForbidden,
		models.RoleSuperAdmin: http.StatusTeapot,
		"":                    http.StatusTeapot,
	} {
		token, err := tokens.Generate(models.User{ID: "u", Role: role})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}

func TestLogging(t *testing.T) {
	h := Logging(zaptest.NewLogger(t))(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
