package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hongminglow/vendorhub-be/internal/models"
)

var (
	// ErrTokenExpired means the token's exp claim is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token is malformed or its signature does not verify.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the subset of access-token claims this service reads.
type Claims struct {
	Subject   string
	Role      string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// TokenManager issues signed JWTs in the backend's format. Used for local development and tests.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate issues a signed JWT string for the provided user.
func (t *TokenManager) Generate(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  user.Role,
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	if t.issuer != "" {
		claims["iss"] = t.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Inspector reads bearer tokens. With a secret it verifies them; without one it only decodes
// the claims and checks expiry, leaving verification to the backend.
type Inspector struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewInspector returns an Inspector. secret may be empty.
func NewInspector(secret, issuer string) *Inspector {
	return &Inspector{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verifies reports whether signatures are checked locally.
func (i *Inspector) Verifies() bool {
	return len(i.secret) > 0
}

// Inspect decodes token and returns its claims.
func (i *Inspector) Inspect(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if i.Verifies() {
		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(i.now),
		}
		if i.issuer != "" {
			opts = append(opts, jwt.WithIssuer(i.issuer))
		}
		_, err := jwt.ParseWithClaims(token, mc, func(*jwt.Token) (any, error) {
			return i.secret, nil
		}, opts...)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Claims{}, ErrTokenExpired
			}
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
		return toClaims(mc), nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims := toClaims(mc)
	if !claims.ExpiresAt.IsZero() && !i.now().Before(claims.ExpiresAt) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}

// Expired reports whether token is unreadable or past its expiry.
func (i *Inspector) Expired(token string) bool {
	_, err := i.Inspect(token)
	return err != nil
}

func toClaims(mc jwt.MapClaims) Claims {
	var c Claims
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Role = stringClaim(mc, "role")
	c.Email = stringClaim(mc, "email")
	c.Name = stringClaim(mc, "name")
	if c.Subject == "" {
		// the backend signs its own tokens with "id" instead of "sub"
		c.Subject = stringClaim(mc, "id")
	}
	return c
}

func stringClaim(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}
