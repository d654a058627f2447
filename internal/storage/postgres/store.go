package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

// Ensure Store satisfies the storage.VendorStore interface at compile time.
var _ storage.VendorStore = (*Store)(nil)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store provides Postgres-backed persistence for the vendor tables of the managed database.
type Store struct {
	pool *pgxpool.Pool
}

// NewVendorStore connects to databaseURL. With migrate set it creates the tables for a local database;
// against the managed instance the schema is owned elsewhere and migrate stays off.
func NewVendorStore(ctx context.Context, databaseURL string, migrate bool) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if migrate {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT UNIQUE,
			number_of_employees TEXT,
			yearly_turnover TEXT,
			year_of_establishment INTEGER,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS service_categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			slug TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS vendor_categories (
			vendor_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			category_id BIGINT NOT NULL REFERENCES service_categories(id),
			PRIMARY KEY (vendor_id, category_id)
		);`,
		`CREATE TABLE IF NOT EXISTS vendor_kyc (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			vendor_id UUID UNIQUE NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			aadhar_number TEXT NOT NULL,
			gst_number TEXT NOT NULL,
			pincode TEXT NOT NULL,
			video_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS vendor_kyc_status_idx ON vendor_kyc (status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// GetBusinessDetails reads the business profile fields of a vendor.
func (s *Store) GetBusinessDetails(ctx context.Context, vendorID string) (models.BusinessDetails, error) {
	const query = `
	SELECT id::text, COALESCE(number_of_employees, ''), COALESCE(yearly_turnover, ''),
		COALESCE(year_of_establishment, 0), updated_at
	FROM vendors
	WHERE id = $1;
	`
	return scanDetails(s.pool.QueryRow(ctx, query, vendorID))
}

// UpdateBusinessDetails overwrites the business profile fields of an existing vendor row.
func (s *Store) UpdateBusinessDetails(ctx context.Context, d models.BusinessDetails) (models.BusinessDetails, error) {
	const query = `
	UPDATE vendors
	SET number_of_employees = $2, yearly_turnover = $3, year_of_establishment = $4, updated_at = NOW()
	WHERE id = $1
	RETURNING id::text, COALESCE(number_of_employees, ''), COALESCE(yearly_turnover, ''),
		COALESCE(year_of_establishment, 0), updated_at;
	`
	return scanDetails(s.pool.QueryRow(ctx, query, d.VendorID, d.NumberOfEmployees, d.YearlyTurnover, d.YearOfEstablishment))
}

// ListServiceCategories returns every service category ordered by name.
func (s *Store) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug FROM service_categories ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return collectCategories(rows)
}

// ListVendorCategories returns the categories a vendor is listed under.
func (s *Store) ListVendorCategories(ctx context.Context, vendorID string) ([]models.ServiceCategory, error) {
	const query = `
	SELECT c.id, c.name, c.slug
	FROM vendor_categories vc
	JOIN service_categories c ON c.id = vc.category_id
	WHERE vc.vendor_id = $1
	ORDER BY c.name;
	`
	rows, err := s.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vendor categories: %w", err)
	}
	return collectCategories(rows)
}

// SetVendorCategories replaces the vendor's categories inside one transaction.
func (s *Store) SetVendorCategories(ctx context.Context, vendorID string, categoryIDs []int64) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM vendor_categories WHERE vendor_id = $1;`, vendorID); err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO vendor_categories (vendor_id, category_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING;`, vendorID, categoryIDs)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return storage.ErrInvalidReference
		}
		return fmt.Errorf("set vendor categories: %w", err)
	}
	return nil
}

// GetVendorKYC reads the verification record of a vendor.
func (s *Store) GetVendorKYC(ctx context.Context, vendorID string) (models.VendorKYC, error) {
	const query = `
	SELECT id, vendor_id::text, aadhar_number, gst_number, pincode, COALESCE(video_url, ''), status, submitted_at, updated_at
	FROM vendor_kyc
	WHERE vendor_id = $1;
	`
	return scanKYC(s.pool.QueryRow(ctx, query, vendorID))
}

// SaveVendorKYC inserts or replaces the verification record of a vendor, keeping its id and submission time.
func (s *Store) SaveVendorKYC(ctx context.Context, k models.VendorKYC) (models.VendorKYC, error) {
	if k.Status == "" {
		k.Status = models.KYCPending
	}
	const query = `
	INSERT INTO vendor_kyc (vendor_id, aadhar_number, gst_number, pincode, video_url, status)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	ON CONFLICT (vendor_id) DO UPDATE SET
		aadhar_number = EXCLUDED.aadhar_number,
		gst_number = EXCLUDED.gst_number,
		pincode = EXCLUDED.pincode,
		video_url = EXCLUDED.video_url,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING id, vendor_id::text, aadhar_number, gst_number, pincode, COALESCE(video_url, ''), status, submitted_at, updated_at;
	`
	saved, err := scanKYC(s.pool.QueryRow(ctx, query, k.VendorID, k.AadharNumber, k.GSTNumber, k.Pincode, k.VideoURL, k.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				return models.VendorKYC{}, storage.ErrInvalidReference
			case pgUniqueViolation:
				return models.VendorKYC{}, storage.ErrAlreadyExists
			}
		}
		return models.VendorKYC{}, err
	}
	return saved, nil
}

func scanDetails(row pgx.Row) (models.BusinessDetails, error) {
	var d models.BusinessDetails
	if err := row.Scan(&d.VendorID, &d.NumberOfEmployees, &d.YearlyTurnover, &d.YearOfEstablishment, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BusinessDetails{}, storage.ErrNotFound
		}
		return models.BusinessDetails{}, err
	}
	return d, nil
}

func scanKYC(row pgx.Row) (models.VendorKYC, error) {
	var k models.VendorKYC
	if err := row.Scan(&k.ID, &k.VendorID, &k.AadharNumber, &k.GSTNumber, &k.Pincode, &k.VideoURL, &k.Status, &k.SubmittedAt, &k.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VendorKYC{}, storage.ErrNotFound
		}
		return models.VendorKYC{}, err
	}
	return k, nil
}

func collectCategories(rows pgx.Rows) ([]models.ServiceCategory, error) {
	defer rows.Close()
	out := make([]models.ServiceCategory, 0, 16)
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
