package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func statusQuery(status string) url.Values {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	return q
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.Do(ctx, http.MethodPost, "/auth/login", "", req, &out)
	return out, err
}

// RefreshToken trades a refresh token for a new session.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.Do(ctx, http.MethodPost, "/auth/refresh-token", "", dto.RefreshRequest{RefreshToken: refreshToken}, &out)
	return out, err
}

// GetBusiness fetches a business record by id.
func (c *Client) GetBusiness(ctx context.Context, id string) (dto.Business, error) {
	var out dto.Envelope[dto.Business]
	err := c.Do(ctx, http.MethodGet, "/business/"+url.PathEscape(id), "", nil, &out)
	return out.Data, err
}

// GetVendorProfile fetches the full vendor listing owned by userID.
func (c *Client) GetVendorProfile(ctx context.Context, userID string) (models.VendorProfile, error) {
	var out dto.Envelope[models.VendorProfile]
	err := c.Do(ctx, http.MethodGet, "/vendor/profile/"+url.PathEscape(userID), "", nil, &out)
	return out.Data, err
}

func (c *Client) SubmitKYC(ctx context.Context, token string, req dto.KYCRequest) (models.KYCSubmission, error) {
	var out dto.Envelope[models.KYCSubmission]
	err := c.Do(ctx, http.MethodPost, "/vendor/kyc", token, req, &out)
	return out.Data, err
}

func (c *Client) UpdateKYC(ctx context.Context, token, id string, req dto.KYCRequest) (models.KYCSubmission, error) {
	var out dto.Envelope[models.KYCSubmission]
	err := c.Do(ctx, http.MethodPut, "/vendor/kyc/"+url.PathEscape(id), token, req, &out)
	return out.Data, err
}

func (c *Client) ListKYC(ctx context.Context, token, status string) ([]models.KYCSubmission, error) {
	var out dto.Envelope[[]models.KYCSubmission]
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/kyc", statusQuery(status)), token, nil, &out)
	return out.Data, err
}

// ReviewKYC approves or rejects a submission.
func (c *Client) ReviewKYC(ctx context.Context, token, id string, approve bool, reason string) error {
	req := dto.KYCReviewRequest{Status: models.KYCRejected, Reason: reason}
	if approve {
		req = dto.KYCReviewRequest{Status: models.KYCApproved}
	}
	return c.Do(ctx, http.MethodPatch, "/admin/kyc/"+url.PathEscape(id)+"/status", token, req, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out dto.Envelope[[]models.Category]
	err := c.Do(ctx, http.MethodGet, "/categories", "", nil, &out)
	return out.Data, err
}

func (c *Client) CreateCategory(ctx context.Context, token string, req dto.CategoryRequest) (models.Category, error) {
	var out dto.Envelope[models.Category]
	err := c.Do(ctx, http.MethodPost, "/categories", token, req, &out)
	return out.Data, err
}

func (c *Client) UpdateCategory(ctx context.Context, token, id string, req dto.CategoryRequest) (models.Category, error) {
	var out dto.Envelope[models.Category]
	err := c.Do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), token, req, &out)
	return out.Data, err
}

func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.Do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) AdminStats(ctx context.Context, token string) (models.AdminStats, error) {
	var out dto.Envelope[models.AdminStats]
	err := c.Do(ctx, http.MethodGet, "/admin/stats", token, nil, &out)
	return out.Data, err
}

func (c *Client) ListUsers(ctx context.Context, token string, page, limit int) (dto.Page[models.User], error) {
	var out dto.Envelope[dto.Page[models.User]]
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/users", pageQuery(page, limit)), token, nil, &out)
	return out.Data, err
}

func (c *Client) ListVendors(ctx context.Context, token string, page, limit int) (dto.Page[models.VendorProfile], error) {
	var out dto.Envelope[dto.Page[models.VendorProfile]]
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/vendors", pageQuery(page, limit)), token, nil, &out)
	return out.Data, err
}

func (c *Client) ListReviews(ctx context.Context, token, status string) ([]models.Review, error) {
	var out dto.Envelope[[]models.Review]
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/reviews", statusQuery(status)), token, nil, &out)
	return out.Data, err
}

func (c *Client) ApproveReview(ctx context.Context, token, id string) error {
	return c.Do(ctx, http.MethodPatch, "/admin/reviews/"+url.PathEscape(id)+"/approve", token, nil, nil)
}

func (c *Client) RejectReview(ctx context.Context, token, id, reason string) error {
	return c.Do(ctx, http.MethodPatch, "/admin/reviews/"+url.PathEscape(id)+"/reject", token, dto.RejectReviewRequest{Reason: reason}, nil)
}

func (c *Client) DeleteReview(ctx context.Context, token, id string) error {
	return c.Do(ctx, http.MethodDelete, "/admin/reviews/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) ListTickets(ctx context.Context, token, status string) ([]models.Ticket, error) {
	var out dto.Envelope[[]models.Ticket]
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/tickets", statusQuery(status)), token, nil, &out)
	return out.Data, err
}

func (c *Client) SolveTicket(ctx context.Context, token, id string, req dto.SolveTicketRequest) error {
	return c.Do(ctx, http.MethodPatch, "/admin/tickets/"+url.PathEscape(id)+"/solve", token, req, nil)
}

func (c *Client) SendNotification(ctx context.Context, token string, req dto.NotificationRequest) (models.Notification, error) {
	var out dto.Envelope[models.Notification]
	err := c.Do(ctx, http.MethodPost, "/admin/notifications", token, req, &out)
	return out.Data, err
}

func (c *Client) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	var out dto.Envelope[[]models.Notification]
	err := c.Do(ctx, http.MethodGet, "/admin/notifications", token, nil, &out)
	return out.Data, err
}

// CreateLeadOrder asks the backend to open a payment order for accepting a lead; the backend picks amount and currency.
func (c *Client) CreateLeadOrder(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error) {
	var out dto.LeadOrder
	err := c.Do(ctx, http.MethodPost, "/leads/payment/create-order", token, dto.CreateOrderRequest{LeadResponseID: leadResponseID}, &out)
	return out, err
}

// VerifyLeadPayment submits the checkout result for signature verification.
func (c *Client) VerifyLeadPayment(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error) {
	var out dto.VerifyPaymentResponse
	err := c.Do(ctx, http.MethodPost, "/leads/payment/verify", token, req, &out)
	return out, err
}

// ListVendorLeads returns the leads the calling vendor has accepted.
func (c *Client) ListVendorLeads(ctx context.Context, token string) ([]models.LeadOffer, error) {
	var out dto.Envelope[[]models.LeadOffer]
	err := c.Do(ctx, http.MethodGet, "/vendor/leads", token, nil, &out)
	return out.Data, err
}
