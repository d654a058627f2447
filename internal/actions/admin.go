package actions

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// ReviewAction is a moderation decision on a review.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
	ReviewDelete  ReviewAction = "delete"
)

func normalizeCategory(req dto.CategoryRequest) dto.CategoryRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" && req.Name != "" {
		req.Slug = strings.Join(strings.Fields(strings.ToLower(req.Name)), "-")
	}
	return req
}

func (s *Service) CreateCategory(ctx context.Context, token string, req dto.CategoryRequest) Result {
	req = normalizeCategory(req)
	if r, valid := s.check(req); !valid {
		return r
	}
	cat, err := s.api.CreateCategory(ctx, token, req)
	if err != nil {
		return s.failed("create category", err)
	}
	return ok("Category created", cat)
}

func (s *Service) UpdateCategory(ctx context.Context, token, id string, req dto.CategoryRequest) Result {
	req = normalizeCategory(req)
	if r, valid := s.check(req); !valid {
		return r
	}
	cat, err := s.api.UpdateCategory(ctx, token, id, req)
	if err != nil {
		return s.failed("update category", err)
	}
	return ok("Category updated", cat)
}

func (s *Service) DeleteCategory(ctx context.Context, token, id string) Result {
	if err := s.api.DeleteCategory(ctx, token, id); err != nil {
		return s.failed("delete category", err)
	}
	return ok("Category deleted", nil)
}

// ReviewKYC approves or rejects a KYC submission. Rejections need a reason.
func (s *Service) ReviewKYC(ctx context.Context, token, id string, approve bool, reason string) Result {
	reason = strings.TrimSpace(reason)
	if !approve && reason == "" {
		return invalid(map[string]string{"reason": "is required"})
	}
	if err := s.api.ReviewKYC(ctx, token, id, approve, reason); err != nil {
		return s.failed("review kyc", err)
	}
	if approve {
		return ok("KYC approved", nil)
	}
	return ok("KYC rejected", nil)
}

func (s *Service) ModerateReview(ctx context.Context, token, id string, action ReviewAction, reason string) Result {
	var err error
	var msg string
	switch action {
	case ReviewApprove:
		msg = "Review approved"
		err = s.api.ApproveReview(ctx, token, id)
	case ReviewReject:
		msg = "Review rejected"
		err = s.api.RejectReview(ctx, token, id, strings.TrimSpace(reason))
	case ReviewDelete:
		msg = "Review deleted"
		err = s.api.DeleteReview(ctx, token, id)
	default:
		return Result{Message: "unknown review action", Status: http.StatusBadRequest}
	}
	if err != nil {
		return s.failed(string(action)+" review", err)
	}
	return ok(msg, nil)
}

func (s *Service) SolveTicket(ctx context.Context, token, id string, req dto.SolveTicketRequest) Result {
	req.Resolution = strings.TrimSpace(req.Resolution)
	if r, valid := s.check(req); !valid {
		return r
	}
	if err := s.api.SolveTicket(ctx, token, id, req); err != nil {
		return s.failed("solve ticket", err)
	}
	return ok("Ticket marked as solved", nil)
}

func (s *Service) SendNotification(ctx context.Context, token string, req dto.NotificationRequest) Result {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if r, valid := s.check(req); !valid {
		return r
	}
	n, err := s.api.SendNotification(ctx, token, req)
	if err != nil {
		return s.failed("send notification", err)
	}
	return ok("Notification sent", n)
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *Service) Users(ctx context.Context, token string, page, limit int) (dto.Page[models.User], error) {
	return s.api.ListUsers(ctx, token, page, limit)
}

func (s *Service) Vendors(ctx context.Context, token string, page, limit int) (dto.Page[models.VendorProfile], error) {
	return s.api.ListVendors(ctx, token, page, limit)
}

func (s *Service) KYCSubmissions(ctx context.Context, token, status string) ([]models.KYCSubmission, error) {
	return s.api.ListKYC(ctx, token, status)
}

func (s *Service) Reviews(ctx context.Context, token, status string) ([]models.Review, error) {
	return s.api.ListReviews(ctx, token, status)
}

func (s *Service) Tickets(ctx context.Context, token, status string) ([]models.Ticket, error) {
	return s.api.ListTickets(ctx, token, status)
}

func (s *Service) Notifications(ctx context.Context, token string) ([]models.Notification, error) {
	return s.api.ListNotifications(ctx, token)
}

// Dashboard is the operator landing page.
type Dashboard struct {
	Stats          *models.AdminStats     `json:"stats,omitempty"`
	PendingKYC     []models.KYCSubmission `json:"pendingKyc"`
	OpenTickets    []models.Ticket        `json:"openTickets"`
	PendingReviews []models.Review        `json:"pendingReviews"`
	// Errors holds the message of each section that could not be loaded.
	Errors map[string]string `json:"errors,omitempty"`
}

// Dashboard loads every section concurrently. A failing section is reported in Errors;
// an authentication failure aborts the whole page.
func (s *Service) Dashboard(ctx context.Context, token string) (Dashboard, error) {
	var (
		mu   sync.Mutex
		dash = Dashboard{
			PendingKYC:     []models.KYCSubmission{},
			OpenTickets:    []models.Ticket{},
			PendingReviews: []models.Review{},
		}
	)
	record := func(section string, err error) error {
		if backend.IsAuthError(err) {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		if dash.Errors == nil {
			dash.Errors = make(map[string]string)
		}
		dash.Errors[section] = backend.Message(err)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.api.AdminStats(gctx, token)
		if err != nil {
			return record("stats", err)
		}
		mu.Lock()
		dash.Stats = &stats
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		subs, err := s.api.ListKYC(gctx, token, models.KYCPending)
		if err != nil {
			return record("pendingKyc", err)
		}
		mu.Lock()
		dash.PendingKYC = subs
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		tickets, err := s.api.ListTickets(gctx, token, "open")
		if err != nil {
			return record("openTickets", err)
		}
		mu.Lock()
		dash.OpenTickets = tickets
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		reviews, err := s.api.ListReviews(gctx, token, "pending")
		if err != nil {
			return record("pendingReviews", err)
		}
		mu.Lock()
		dash.PendingReviews = reviews
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}
