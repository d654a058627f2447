// Package memory is an in-process VendorStore for tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

var _ storage.VendorStore = (*Store)(nil)

type Store struct {
	mu               sync.RWMutex
	details          map[string]models.BusinessDetails
	categories       map[int64]models.ServiceCategory
	vendorCategories map[string][]int64
	kyc              map[string]models.VendorKYC
	now              func() time.Time
}

// NewStore returns an empty store seeded with the given service categories.
func NewStore(categories ...models.ServiceCategory) *Store {
	s := &Store{
		details:          make(map[string]models.BusinessDetails),
		categories:       make(map[int64]models.ServiceCategory),
		vendorCategories: make(map[string][]int64),
		kyc:              make(map[string]models.VendorKYC),
		now:              time.Now,
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	return s
}

func (s *Store) GetBusinessDetails(_ context.Context, vendorID string) (models.BusinessDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[vendorID]
	if !ok {
		return models.BusinessDetails{}, storage.ErrNotFound
	}
	return d, nil
}

func (s *Store) UpdateBusinessDetails(_ context.Context, details models.BusinessDetails) (models.BusinessDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	details.UpdatedAt = s.now()
	s.details[details.VendorID] = details
	return details, nil
}

func (s *Store) ListServiceCategories(_ context.Context) ([]models.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ServiceCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListVendorCategories(_ context.Context, vendorID string) ([]models.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.vendorCategories[vendorID]
	out := make([]models.ServiceCategory, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.categories[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SetVendorCategories(_ context.Context, vendorID string, categoryIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{}, len(categoryIDs))
	ids := make([]int64, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := s.categories[id]; !ok {
			return storage.ErrInvalidReference
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	s.vendorCategories[vendorID] = ids
	return nil
}

func (s *Store) GetVendorKYC(_ context.Context, vendorID string) (models.VendorKYC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kyc[vendorID]
	if !ok {
		return models.VendorKYC{}, storage.ErrNotFound
	}
	return k, nil
}

func (s *Store) SaveVendorKYC(_ context.Context, kyc models.VendorKYC) (models.VendorKYC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if existing, ok := s.kyc[kyc.VendorID]; ok {
		kyc.ID = existing.ID
		kyc.SubmittedAt = existing.SubmittedAt
	} else {
		kyc.ID = uuid.New()
		kyc.SubmittedAt = now
	}
	if kyc.Status == "" {
		kyc.Status = models.KYCPending
	}
	kyc.UpdatedAt = now
	s.kyc[kyc.VendorID] = kyc
	return kyc, nil
}
