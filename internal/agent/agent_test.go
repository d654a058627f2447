package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/leads"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
	"github.com/hongminglow/vendorhub-be/internal/session"
)

type mockAuth struct {
	LoginFn   func(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshFn func(ctx context.Context, refreshToken string) (dto.LoginResponse, error)

	refreshCalls []string
}

func (m *mockAuth) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	return m.LoginFn(ctx, req)
}

func (m *mockAuth) RefreshToken(ctx context.Context, refreshToken string) (dto.LoginResponse, error) {
	m.refreshCalls = append(m.refreshCalls, refreshToken)
	return m.RefreshFn(ctx, refreshToken)
}

func vendorUser() models.User {
	return models.User{ID: "v1", Email: "asha@example.com", Role: models.RoleVendor}
}

func token(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.NewTokenManager("agent-secret", "", ttl).Generate(vendorUser())
	require.NoError(t, err)
	return tok
}

func TestLoginStoresSession(t *testing.T) {
	store := session.NewMemoryStore()
	api := &mockAuth{LoginFn: func(_ context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
		assert.Equal(t, "asha@example.com", req.Email)
		return dto.LoginResponse{AccessToken: "at", RefreshToken: "rt", User: vendorUser()}, nil
	}}

	s, err := Login(context.Background(), api, store, "  asha@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, session.Vendor, s.State())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rt", stored.RefreshToken)
}

func TestLoginFailures(t *testing.T) {
	store := session.NewMemoryStore()
	api := &mockAuth{LoginFn: func(context.Context, dto.LoginRequest) (dto.LoginResponse, error) {
		return dto.LoginResponse{}, errors.New("invalid credentials")
	}}

	_, err := Login(context.Background(), api, store, "", "pw")
	assert.Error(t, err)
	_, err = Login(context.Background(), api, store, "a@b.c", "pw")
	assert.ErrorContains(t, err, "invalid credentials")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFresh(t *testing.T) {
	inspector := auth.NewInspector("", "")
	valid := token(t, time.Hour)
	expired := token(t, -time.Minute)
	renewed := token(t, 2*time.Hour)

	tests := []struct {
		name      string
		stored    *session.AuthSession
		refresh   func(context.Context, string) (dto.LoginResponse, error)
		wantErr   error
		wantToken string
		refreshes int
		cleared   bool
		wantEmail string
	}{
		{name: "no session", wantErr: ErrLoginRequired},
		{
			name:      "valid token untouched",
			stored:    &session.AuthSession{AccessToken: valid, RefreshToken: "rt", User: vendorUser()},
			wantToken: valid,
		},
		{
			name:   "expired token refreshed",
			stored: &session.AuthSession{AccessToken: expired, RefreshToken: "rt", User: vendorUser()},
			refresh: func(context.Context, string) (dto.LoginResponse, error) {
				return dto.LoginResponse{AccessToken: renewed}, nil
			},
			wantToken: renewed,
			refreshes: 1,
		},
		{
			name:   "refreshed profile without id replaces user",
			stored: &session.AuthSession{AccessToken: expired, RefreshToken: "rt", User: vendorUser()},
			refresh: func(context.Context, string) (dto.LoginResponse, error) {
				return dto.LoginResponse{
					AccessToken: renewed,
					User:        models.User{Email: "asha.k@example.com", Role: models.RoleVendor},
				}, nil
			},
			wantToken: renewed,
			refreshes: 1,
			wantEmail: "asha.k@example.com",
		},
		{
			name:    "expired without refresh token",
			stored:  &session.AuthSession{AccessToken: expired, User: vendorUser()},
			wantErr: ErrLoginRequired,
			cleared: true,
		},
		{
			name:   "refresh rejected",
			stored: &session.AuthSession{AccessToken: expired, RefreshToken: "rt", User: vendorUser()},
			refresh: func(context.Context, string) (dto.LoginResponse, error) {
				return dto.LoginResponse{}, errors.New("refresh token revoked")
			},
			wantErr:   ErrLoginRequired,
			refreshes: 1,
			cleared:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Save(ctx, *tt.stored))
			}
			api := &mockAuth{RefreshFn: tt.refresh}

			s, err := Fresh(ctx, api, store, inspector)
			assert.Len(t, api.refreshCalls, tt.refreshes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.cleared {
					_, loadErr := store.Load(ctx)
					assert.ErrorIs(t, loadErr, session.ErrNoSession)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, s.AccessToken)
			assert.Equal(t, "rt", s.RefreshToken)
			if tt.wantEmail != "" {
				assert.Equal(t, tt.wantEmail, s.User.Email)
				assert.Empty(t, s.User.ID)
			} else {
				assert.Equal(t, "v1", s.User.ID)
			}
			assert.Equal(t, session.Vendor, s.State())

			stored, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, stored.AccessToken)
		})
	}
}

type stubCommands struct {
	mu        sync.Mutex
	calls     []string
	AcceptErr error
	RejectErr error
}

func (c *stubCommands) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *stubCommands) Accept(context.Context) error { c.record("accept"); return c.AcceptErr }
func (c *stubCommands) Reject() error                { c.record("reject"); return c.RejectErr }
func (c *stubCommands) Dismiss()                     { c.record("dismiss") }

type stubLister struct {
	ListFn func(ctx context.Context, token string) ([]models.LeadOffer, error)
}

func (s stubLister) ListVendorLeads(ctx context.Context, token string) ([]models.LeadOffer, error) {
	return s.ListFn(ctx, token)
}

func newApp(t *testing.T, in io.Reader, out io.Writer) (*App, *stubCommands) {
	t.Helper()
	cmds := &stubCommands{}
	return &App{
		Commands: cmds,
		Leads: stubLister{ListFn: func(context.Context, string) ([]models.LeadOffer, error) {
			return nil, nil
		}},
		Sessions: session.NewMemoryStore(),
		UI:       NewTerminal(out, DefaultTheme),
		In:       in,
		Logger:   zaptest.NewLogger(t),
	}, cmds
}

func TestRunDispatchesCommands(t *testing.T) {
	var out bytes.Buffer
	app, cmds := newApp(t, strings.NewReader("a\n\nR\nd\nwhat\nq\nd\n"), &out)
	cmds.AcceptErr = leads.ErrNoPendingLead

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, []string{"accept", "reject", "dismiss"}, cmds.calls)
	assert.Contains(t, out.String(), leads.ErrNoPendingLead.Error())
	assert.Contains(t, out.String(), "unknown command what")
}

func TestRunEndsOnEOFAndCancel(t *testing.T) {
	app, _ := newApp(t, strings.NewReader("d\n"), io.Discard)
	require.NoError(t, app.Run(context.Background()))

	pr, pw := io.Pipe()
	defer pw.Close()
	app, _ = newApp(t, pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Run(ctx))
}

func TestRunLoginRouteStops(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	app, _ := newApp(t, pr, io.Discard)

	app.UI.Navigate(leads.RouteLogin)
	assert.ErrorIs(t, app.Run(context.Background()), ErrLoginRequired)
}

func TestRunVendorLeadsRouteListsLeads(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	app, _ := newApp(t, pr, &out)
	require.NoError(t, app.Sessions.Save(context.Background(), session.AuthSession{AccessToken: "at", User: vendorUser()}))

	listed := make(chan string, 1)
	app.Leads = stubLister{ListFn: func(_ context.Context, token string) ([]models.LeadOffer, error) {
		listed <- token
		return []models.LeadOffer{{
			Lead:         models.Lead{Keyword: "Kitchen plumbing", Location: "Pune"},
			LeadResponse: models.LeadResponse{Status: models.LeadResponseAccepted},
		}}, nil
	}}
	app.UI.Navigate(leads.RouteVendorLeads)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case tok := <-listed:
		assert.Equal(t, "at", tok)
	case <-time.After(2 * time.Second):
		t.Fatal("leads were not listed")
	}
	_, err := pw.Write([]byte("q\n"))
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "Kitchen plumbing")
}

func TestTerminalNavigateDropsOldest(t *testing.T) {
	ui := NewTerminal(io.Discard, DefaultTheme)
	for _, r := range []string{"/1", "/2", "/3", "/4", "/5"} {
		ui.Navigate(r)
	}
	var got []string
	for len(got) < 4 {
		got = append(got, <-ui.Routes())
	}
	assert.Equal(t, []string{"/2", "/3", "/4", "/5"}, got)
}

func TestTerminalOrderSummary(t *testing.T) {
	var out bytes.Buffer
	NewTerminal(&out, DefaultTheme).Order("AC repair", 4900, "INR")
	assert.Contains(t, out.String(), "AC repair")
	assert.Contains(t, out.String(), "INR 49.00")
}
