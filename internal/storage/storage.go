package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/vendorhub-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidReference indicates a write pointed at a row that does not exist (e.g. an unknown category id).
var ErrInvalidReference = errors.New("invalid reference")

// VendorStore covers the vendor fields kept in the managed database instead of the REST backend.
type VendorStore interface {
	GetBusinessDetails(ctx context.Context, vendorID string) (models.BusinessDetails, error)
	UpdateBusinessDetails(ctx context.Context, details models.BusinessDetails) (models.BusinessDetails, error)

	ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListVendorCategories(ctx context.Context, vendorID string) ([]models.ServiceCategory, error)
	// SetVendorCategories replaces the vendor's category set in one step.
	SetVendorCategories(ctx context.Context, vendorID string, categoryIDs []int64) error

	GetVendorKYC(ctx context.Context, vendorID string) (models.VendorKYC, error)
	SaveVendorKYC(ctx context.Context, kyc models.VendorKYC) (models.VendorKYC, error)
}
