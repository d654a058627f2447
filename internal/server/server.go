package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/config"
	"github.com/hongminglow/vendorhub-be/internal/http/handlers"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/middleware"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, api *backend.Client, store storage.VendorStore, logger *zap.Logger) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, api, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Routes builds the router. Public routes come first, then bearer routes, then admin routes.
func Routes(cfg config.Config, api *backend.Client, store storage.VendorStore, logger *zap.Logger) http.Handler {
	svc := actions.NewService(api, store, logger.Named("actions"))
	inspector := auth.NewInspector(cfg.JWTSecret, cfg.JWTIssuer)
	if !inspector.Verifies() {
		logger.Warn("JWT_SECRET not set; bearer tokens are decoded but not verified locally")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handlers.NewHealthHandler(time.Now(), api.Configured()).Register(r)
	handlers.NewAuthHandler(api, logger).Register(r)
	handlers.NewBusinessHandler(api, logger.Named("business")).Register(r)
	catalog := handlers.NewCatalogHandler(svc, logger)
	catalog.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Bearer(inspector))
		handlers.NewVendorHandler(svc, logger).Register(r)
		handlers.NewLeadPaymentHandler(svc, logger).Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
			catalog.RegisterAdmin(r)
			handlers.NewAdminHandler(svc, logger).Register(r)
		})
	})
	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
