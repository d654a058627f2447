package actions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

func normalizeKYC(req dto.KYCRequest) dto.KYCRequest {
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.AadharNumber = strings.ReplaceAll(strings.TrimSpace(req.AadharNumber), " ", "")
	req.GSTNumber = strings.ToUpper(strings.TrimSpace(req.GSTNumber))
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.Pincode = strings.TrimSpace(req.Pincode)
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	return req
}

// SubmitKYC forwards a verification submission and mirrors the documents into vendor_kyc.
func (s *Service) SubmitKYC(ctx context.Context, token, vendorID string, req dto.KYCRequest) Result {
	req = normalizeKYC(req)
	if r, valid := s.check(req); !valid {
		return r
	}
	sub, err := s.api.SubmitKYC(ctx, token, req)
	if err != nil {
		return s.failed("submit kyc", err)
	}
	s.mirrorKYC(ctx, vendorID, req)
	return ok("KYC submitted for review", sub)
}

// UpdateKYC resubmits a previously rejected or pending submission.
func (s *Service) UpdateKYC(ctx context.Context, token, vendorID, id string, req dto.KYCRequest) Result {
	req = normalizeKYC(req)
	if r, valid := s.check(req); !valid {
		return r
	}
	sub, err := s.api.UpdateKYC(ctx, token, id, req)
	if err != nil {
		return s.failed("update kyc", err)
	}
	s.mirrorKYC(ctx, vendorID, req)
	return ok("KYC updated", sub)
}

// mirrorKYC is best effort: the backend already holds the submission.
func (s *Service) mirrorKYC(ctx context.Context, vendorID string, req dto.KYCRequest) {
	if vendorID == "" {
		return
	}
	_, err := s.store.SaveVendorKYC(ctx, models.VendorKYC{
		VendorID:     vendorID,
		AadharNumber: req.AadharNumber,
		GSTNumber:    req.GSTNumber,
		Pincode:      req.Pincode,
		VideoURL:     req.VideoURL,
		Status:       models.KYCPending,
	})
	if err != nil {
		s.logger.Warn("mirror kyc", zap.String("vendor_id", vendorID), zap.Error(err))
	}
}

// KYCStatus reads the vendor's verification record from the managed database.
func (s *Service) KYCStatus(ctx context.Context, vendorID string) (models.VendorKYC, error) {
	return s.store.GetVendorKYC(ctx, vendorID)
}

// UpdateBusinessDetails saves employee count, turnover and establishment year.
func (s *Service) UpdateBusinessDetails(ctx context.Context, vendorID string, req dto.BusinessDetailsRequest) Result {
	if r, valid := s.check(req); !valid {
		return r
	}
	saved, err := s.store.UpdateBusinessDetails(ctx, models.BusinessDetails{
		VendorID:            vendorID,
		NumberOfEmployees:   req.NumberOfEmployees,
		YearlyTurnover:      req.YearlyTurnover,
		YearOfEstablishment: req.YearOfEstablishment,
	})
	if err != nil {
		return s.storeFailed("update business details", err)
	}
	return ok("Business details updated", saved)
}

func (s *Service) BusinessDetails(ctx context.Context, vendorID string) (models.BusinessDetails, error) {
	return s.store.GetBusinessDetails(ctx, vendorID)
}

// SetVendorCategories replaces the service categories a vendor is listed under.
func (s *Service) SetVendorCategories(ctx context.Context, vendorID string, req dto.VendorCategoriesRequest) Result {
	if r, valid := s.check(req); !valid {
		return r
	}
	if err := s.store.SetVendorCategories(ctx, vendorID, req.CategoryIDs); err != nil {
		return s.storeFailed("set vendor categories", err)
	}
	cats, err := s.store.ListVendorCategories(ctx, vendorID)
	if err != nil {
		return s.storeFailed("list vendor categories", err)
	}
	return ok("Categories updated", cats)
}

func (s *Service) VendorCategories(ctx context.Context, vendorID string) ([]models.ServiceCategory, error) {
	return s.store.ListVendorCategories(ctx, vendorID)
}

func (s *Service) ServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.store.ListServiceCategories(ctx)
}

func (s *Service) VendorLeads(ctx context.Context, token string) ([]models.LeadOffer, error) {
	return s.api.ListVendorLeads(ctx, token)
}

func (s *Service) CreateLeadOrder(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error) {
	return s.api.CreateLeadOrder(ctx, token, leadResponseID)
}

func (s *Service) VerifyLeadPayment(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error) {
	return s.api.VerifyLeadPayment(ctx, token, req)
}
