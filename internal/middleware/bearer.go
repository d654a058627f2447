package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	claimsKey
)

// Bearer requires an Authorization: Bearer header and rejects tokens the inspector can tell are unusable.
// The token is forwarded as-is; the backend remains the authority on its validity.
func Bearer(inspector *auth.Inspector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "token missing")
				return
			}
			claims, err := inspector.Inspect(token)
			if err != nil {
				msg := "token invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "token expired"
				}
				respond.Error(w, http.StatusUnauthorized, msg)
				return
			}
			ctx := context.WithValue(r.Context(), tokenKey, token)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose token names a role outside roles. Tokens without a
// role claim pass through.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFrom(r.Context())
			if claims.Role != "" && !contains(roles, claims.Role) {
				respond.Error(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFrom returns the bearer token stored by Bearer.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// ClaimsFrom returns the claims stored by Bearer.
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
