package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/repository"
)

// Extractor runs the storefront resolvers. Extract requires a product feed;
// Collect does not.
type Extractor interface {
	Extract(ctx context.Context, baseURL string) (entity.BrandInsights, error)
	Collect(ctx context.Context, baseURL string) (entity.BrandInsights, error)
}

// InsightsService extracts storefront insights and keeps the latest result per site.
type InsightsService struct {
	extractor Extractor
	repo      repository.BrandsRepository
}

// NewInsightsService creates a new instance of InsightsService. repo may be nil
// to skip persistence.
func NewInsightsService(extractor Extractor, repo repository.BrandsRepository) *InsightsService {
	return &InsightsService{extractor: extractor, repo: repo}
}

// FetchInsights extracts the insights for websiteURL and stores them. A storage
// failure is logged and does not fail the request.
func (s *InsightsService) FetchInsights(ctx context.Context, websiteURL string) (entity.BrandInsights, error) {
	site, err := NormalizeSiteURL(websiteURL)
	if err != nil {
		return entity.BrandInsights{}, err
	}

	insights, err := s.extractor.Extract(ctx, site)
	if err != nil {
		return entity.BrandInsights{}, err
	}
	s.persist(ctx, site, insights)
	return insights, nil
}

func (s *InsightsService) persist(ctx context.Context, site string, insights entity.BrandInsights) {
	if s.repo == nil {
		return
	}
	logger := zerolog.Ctx(ctx)
	blob, err := json.Marshal(insights)
	if err != nil {
		logger.Error().Err(err).Str("website_url", site).Msg("failed to encode insights")
		return
	}
	brandID, err := s.repo.UpsertInsights(ctx, site, blob)
	if err != nil {
		logger.Error().Err(err).Str("website_url", site).Msg("failed to store insights")
		return
	}
	logger.Debug().Str("brand_id", brandID.String()).Str("website_url", site).Msg("insights stored")
}

// ListBrands returns every stored site.
func (s *InsightsService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return s.repo.ListBrands(ctx)
}

// GetInsights returns the stored insights for a brand as raw JSON.
func (s *InsightsService) GetInsights(ctx context.Context, brandID uuid.UUID) (json.RawMessage, error) {
	return s.repo.GetInsights(ctx, brandID)
}
