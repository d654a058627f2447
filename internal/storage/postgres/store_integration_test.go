package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

// TestStoreIntegration runs against a disposable Postgres named by DATABASE_URL.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewVendorStore(ctx, dbURL, true)
	require.NoError(t, err)
	defer store.Close()

	var vendorID string
	require.NoError(t, store.pool.QueryRow(ctx, `INSERT INTO vendors DEFAULT VALUES RETURNING id::text`).Scan(&vendorID))
	defer func() { _, _ = store.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, vendorID) }()

	var catID int64
	require.NoError(t, store.pool.QueryRow(ctx,
		`INSERT INTO service_categories (name, slug) VALUES ('Itest Plumbing', 'itest-plumbing')
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name RETURNING id`).Scan(&catID))

	details, err := store.UpdateBusinessDetails(ctx, models.BusinessDetails{
		VendorID: vendorID, NumberOfEmployees: "11-50", YearlyTurnover: "10L-50L", YearOfEstablishment: 2015,
	})
	require.NoError(t, err)
	assert.Equal(t, "11-50", details.NumberOfEmployees)

	require.NoError(t, store.SetVendorCategories(ctx, vendorID, []int64{catID}))
	cats, err := store.ListVendorCategories(ctx, vendorID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.ErrorIs(t, store.SetVendorCategories(ctx, vendorID, []int64{-1}), storage.ErrInvalidReference)

	first, err := store.SaveVendorKYC(ctx, models.VendorKYC{VendorID: vendorID, AadharNumber: "123412341234", GSTNumber: "22AAAAA0000A1Z5", Pincode: "560001"})
	require.NoError(t, err)
	second, err := store.SaveVendorKYC(ctx, models.VendorKYC{VendorID: vendorID, AadharNumber: "123412341234", GSTNumber: "22AAAAA0000A1Z5", Pincode: "560002"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "560002", second.Pincode)
}
