package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
	"github.com/hongminglow/vendorhub-be/internal/session"
)

// ErrLoginRequired means there is no usable session; run `vendor-agent login`.
var ErrLoginRequired = errors.New("login required: run `vendor-agent login`")

// Authenticator is the backend's token API.
type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (dto.LoginResponse, error)
}

// Login exchanges credentials for a session and stores it.
func Login(ctx context.Context, api Authenticator, store session.Store, email, password string) (session.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.AuthSession{}, errors.New("email and password are required")
	}
	resp, err := api.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return session.AuthSession{}, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return session.AuthSession{}, errors.New("login: backend returned no access token")
	}
	s := session.AuthSession{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken, User: resp.User}
	if err := store.Save(ctx, s); err != nil {
		return session.AuthSession{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Fresh returns the stored session, refreshing the access token first when it has expired.
// A session that cannot be refreshed is cleared.
func Fresh(ctx context.Context, api Authenticator, store session.Store, inspector *auth.Inspector) (session.AuthSession, error) {
	s, err := store.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return session.AuthSession{}, ErrLoginRequired
	}
	if err != nil {
		return session.AuthSession{}, err
	}
	if s.AccessToken != "" && !inspector.Expired(s.AccessToken) {
		return s, nil
	}
	if s.RefreshToken == "" {
		_ = store.Clear(ctx)
		return session.AuthSession{}, ErrLoginRequired
	}

	resp, err := api.RefreshToken(ctx, s.RefreshToken)
	if err != nil || resp.AccessToken == "" {
		_ = store.Clear(ctx)
		if err != nil {
			return session.AuthSession{}, fmt.Errorf("%w (refresh failed: %v)", ErrLoginRequired, err)
		}
		return session.AuthSession{}, ErrLoginRequired
	}
	s.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.RefreshToken = resp.RefreshToken
	}
	if resp.User.Role != "" {
		s.User = resp.User
	}
	if err := store.Save(ctx, s); err != nil {
		return session.AuthSession{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}
