package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/storefront-insights/internal/entity"
)

// BrandsRepository describes persistence operations for brands and their insights.
type BrandsRepository interface {
	UpsertInsights(ctx context.Context, websiteURL string, insights json.RawMessage) (uuid.UUID, error)
	ListBrands(ctx context.Context) ([]entity.Brand, error)
	GetInsights(ctx context.Context, brandID uuid.UUID) (json.RawMessage, error)
}

var (
	// ErrBrandNotFound indicates there is no brand with the given id.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrInsightsNotFound indicates the brand exists but has no stored insights.
	ErrInsightsNotFound = errors.New("brand insights not found")
)

type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGXBrandsRepository implements BrandsRepository using pgx.
type PGXBrandsRepository struct {
	pool pgxPool
}

// NewPGXBrandsRepository wires a pgx backed repository.
func NewPGXBrandsRepository(pool *pgxpool.Pool) *PGXBrandsRepository {
	return &PGXBrandsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// UpsertInsights stores insights for websiteURL, creating the brand on first
// sight and replacing any previous insights. It returns the brand id.
func (r *PGXBrandsRepository) UpsertInsights(ctx context.Context, websiteURL string, insights json.RawMessage) (uuid.UUID, error) {
	websiteURL = strings.TrimSpace(websiteURL)
	if websiteURL == "" {
		return uuid.Nil, fmt.Errorf("website url is required")
	}
	if len(insights) == 0 || !json.Valid(insights) {
		return uuid.Nil, fmt.Errorf("insights payload is not valid json")
	}

	query := `
		WITH brand AS (
			INSERT INTO brands (website_url)
			VALUES ($1)
			ON CONFLICT (website_url) DO UPDATE SET website_url = EXCLUDED.website_url
			RETURNING id
		)
		INSERT INTO brand_insights (brand_id, insights_json, updated_at)
		SELECT id, $2::jsonb, NOW() FROM brand
		ON CONFLICT (brand_id) DO UPDATE SET
			insights_json = EXCLUDED.insights_json,
			updated_at = NOW()
		RETURNING brand_id
	`

	var brandID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, websiteURL, []byte(insights)).Scan(&brandID); err != nil {
		return uuid.Nil, fmt.Errorf("upsert brand insights: %w", err)
	}
	return brandID, nil
}

// ListBrands returns every stored brand, oldest first.
func (r *PGXBrandsRepository) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, website_url, created_at FROM brands ORDER BY created_at, website_url`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := make([]entity.Brand, 0)
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.WebsiteURL, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return brands, nil
}

// GetInsights returns the stored insights blob for brandID.
func (r *PGXBrandsRepository) GetInsights(ctx context.Context, brandID uuid.UUID) (json.RawMessage, error) {
	query := `
		SELECT b.id, bi.insights_json
		FROM brands b
		LEFT JOIN brand_insights bi ON bi.brand_id = b.id
		WHERE b.id = $1
	`

	var (
		id  uuid.UUID
		raw []byte
	)
	err := r.pool.QueryRow(ctx, query, brandID).Scan(&id, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("fetch brand insights: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrInsightsNotFound
	}
	return json.RawMessage(raw), nil
}
