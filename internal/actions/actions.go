// Package actions holds the server actions: validate a form, attach the caller's token, forward to the
// backend or the managed database, and report a Result. Actions never return errors; the Fetch helpers do.
package actions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

// Result is the outcome of an action as reported to the page.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    any               `json:"data,omitempty"`
	// ClearSession tells the caller to drop its stored tokens and send the user to /login.
	ClearSession bool `json:"clearSession,omitempty"`
	// Status is the HTTP status that best describes a failure; zero on success.
	Status int `json:"-"`
}

// Invalid reports whether the action stopped at validation.
func (r Result) Invalid() bool {
	return len(r.Errors) > 0
}

// API is the part of the backend client the actions use.
type API interface {
	SubmitKYC(ctx context.Context, token string, req dto.KYCRequest) (models.KYCSubmission, error)
	UpdateKYC(ctx context.Context, token, id string, req dto.KYCRequest) (models.KYCSubmission, error)
	ListKYC(ctx context.Context, token, status string) ([]models.KYCSubmission, error)
	ReviewKYC(ctx context.Context, token, id string, approve bool, reason string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, token string, req dto.CategoryRequest) (models.Category, error)
	UpdateCategory(ctx context.Context, token, id string, req dto.CategoryRequest) (models.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error

	AdminStats(ctx context.Context, token string) (models.AdminStats, error)
	ListUsers(ctx context.Context, token string, page, limit int) (dto.Page[models.User], error)
	ListVendors(ctx context.Context, token string, page, limit int) (dto.Page[models.VendorProfile], error)

	ListReviews(ctx context.Context, token, status string) ([]models.Review, error)
	ApproveReview(ctx context.Context, token, id string) error
	RejectReview(ctx context.Context, token, id, reason string) error
	DeleteReview(ctx context.Context, token, id string) error

	ListTickets(ctx context.Context, token, status string) ([]models.Ticket, error)
	SolveTicket(ctx context.Context, token, id string, req dto.SolveTicketRequest) error

	SendNotification(ctx context.Context, token string, req dto.NotificationRequest) (models.Notification, error)
	ListNotifications(ctx context.Context, token string) ([]models.Notification, error)

	CreateLeadOrder(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error)
	VerifyLeadPayment(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error)
	ListVendorLeads(ctx context.Context, token string) ([]models.LeadOffer, error)
}

var _ API = (*backend.Client)(nil)

// Service runs actions against the backend API and the managed database.
type Service struct {
	api      API
	store    storage.VendorStore
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the collaborators.
func NewService(api API, store storage.VendorStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:      api,
		store:    store,
		validate: newValidator(time.Now),
		logger:   logger,
		now:      time.Now,
	}
}

func ok(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func (s *Service) check(form any) (Result, bool) {
	if err := s.validate.Struct(form); err != nil {
		return invalid(fieldErrors(err)), false
	}
	return Result{}, true
}

func invalid(errs map[string]string) Result {
	return Result{Message: "Please correct the highlighted fields", Errors: errs, Status: http.StatusUnprocessableEntity}
}

func (s *Service) failed(op string, err error) Result {
	s.logger.Warn("action failed", zap.String("action", op), zap.Error(err))
	r := Result{Message: backend.Message(err), Status: http.StatusBadGateway}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		r.Status = apiErr.Status
	}
	if backend.IsAuthError(err) {
		r.ClearSession = true
		r.Status = http.StatusUnauthorized
	}
	return r
}

func (s *Service) storeFailed(op string, err error) Result {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return Result{Message: "vendor not found", Status: http.StatusNotFound}
	case errors.Is(err, storage.ErrInvalidReference):
		return Result{Message: "one or more categories do not exist", Status: http.StatusUnprocessableEntity}
	}
	s.logger.Error("store action failed", zap.String("action", op), zap.Error(err))
	return Result{Message: "something went wrong, please try again", Status: http.StatusInternalServerError}
}
