package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/scraper"
)

const (
	competitorPrompt    = "List 5 direct competitor Shopify store URLs for the brand at %s. Return only the URLs, one per line."
	competitorMaxTokens = 256
)

var (
	// ErrNoCompetitorInsights is returned when no competitor could be extracted.
	ErrNoCompetitorInsights = errors.New("no competitor insights found")
	// ErrCompetitorDiscovery is returned when the language model cannot be asked for competitors.
	ErrCompetitorDiscovery = errors.New("competitor discovery failed")

	competitorURLPattern = regexp.MustCompile(`https?://[\w.-]+`)
)

// CompetitorService asks a language model for competing storefronts and
// extracts each of them.
type CompetitorService struct {
	model     scraper.LanguageModel
	extractor Extractor
}

// NewCompetitorService creates a new instance of CompetitorService. A nil model
// makes every call fail with ErrCompetitorDiscovery.
func NewCompetitorService(model scraper.LanguageModel, extractor Extractor) *CompetitorService {
	return &CompetitorService{model: model, extractor: extractor}
}

// FetchCompetitors returns the insights of every competitor that could be
// extracted. Competitors are processed one at a time and failures are skipped.
func (s *CompetitorService) FetchCompetitors(ctx context.Context, websiteURL string) ([]entity.BrandInsights, error) {
	site, err := NormalizeSiteURL(websiteURL)
	if err != nil {
		return nil, err
	}
	if s.model == nil {
		return nil, fmt.Errorf("%w: language model not configured", ErrCompetitorDiscovery)
	}

	logger := zerolog.Ctx(ctx)
	reply, err := s.model.Complete(ctx, "competitors", fmt.Sprintf(competitorPrompt, site), competitorMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompetitorDiscovery, err)
	}
	urls := ExtractURLs(reply)
	logger.Info().Str("website_url", site).Strs("competitors", urls).Msg("competitors discovered")

	results := make([]entity.BrandInsights, 0, len(urls))
	for _, competitor := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		insights, err := s.extractor.Collect(ctx, competitor)
		if err != nil {
			logger.Warn().Err(err).Str("competitor", competitor).Msg("competitor extraction failed")
			continue
		}
		logger.Debug().Str("competitor", competitor).Dur("elapsed", time.Since(start)).Msg("competitor extracted")
		results = append(results, insights)
	}
	if len(results) == 0 {
		return nil, ErrNoCompetitorInsights
	}
	return results, nil
}

// ExtractURLs returns every http(s) origin mentioned in text, in order.
func ExtractURLs(text string) []string {
	return competitorURLPattern.FindAllString(text, -1)
}
