package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/dto"
	"github.com/octobees/storefront-insights/internal/scraper"
	"github.com/octobees/storefront-insights/internal/service"
)

// InsightsHandler exposes the extraction endpoints.
type InsightsHandler struct {
	insights    *service.InsightsService
	competitors *service.CompetitorService
}

// NewInsightsHandler creates a new handler instance.
func NewInsightsHandler(insights *service.InsightsService, competitors *service.CompetitorService) *InsightsHandler {
	return &InsightsHandler{insights: insights, competitors: competitors}
}

// FetchInsights handles POST /fetch-insights requests.
func (h *InsightsHandler) FetchInsights(c echo.Context) error {
	websiteURL, err := bindWebsiteURL(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	insights, err := h.insights.FetchInsights(ctx, websiteURL)
	switch {
	case err == nil:
		return Success(c, http.StatusOK, "insights extracted", insights)
	case errors.Is(err, scraper.ErrInvalidBaseURL):
		return Error(c, http.StatusBadRequest, "invalid website_url")
	case errors.Is(err, scraper.ErrNoProducts):
		return Error(c, http.StatusUnauthorized, "website not found or no products available")
	default:
		zerolog.Ctx(ctx).Error().Err(err).Str("website_url", websiteURL).Msg("insights extraction failed")
		return Error(c, http.StatusInternalServerError, "failed to extract insights")
	}
}

// FetchCompetitors handles POST /fetch-competitors requests.
func (h *InsightsHandler) FetchCompetitors(c echo.Context) error {
	websiteURL, err := bindWebsiteURL(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	results, err := h.competitors.FetchCompetitors(ctx, websiteURL)
	switch {
	case err == nil:
		return Success(c, http.StatusOK, "competitor insights extracted", results)
	case errors.Is(err, scraper.ErrInvalidBaseURL):
		return Error(c, http.StatusBadRequest, "invalid website_url")
	case errors.Is(err, service.ErrNoCompetitorInsights):
		return Error(c, http.StatusNotFound, "no competitor insights found")
	case errors.Is(err, service.ErrCompetitorDiscovery):
		zerolog.Ctx(ctx).Warn().Err(err).Str("website_url", websiteURL).Msg("competitor discovery failed")
		return Error(c, http.StatusBadGateway, "competitor analysis failed")
	default:
		zerolog.Ctx(ctx).Error().Err(err).Str("website_url", websiteURL).Msg("competitor analysis failed")
		return Error(c, http.StatusInternalServerError, "competitor analysis failed")
	}
}

func bindWebsiteURL(c echo.Context) (string, error) {
	var req dto.InsightsRequest
	if err := c.Bind(&req); err != nil {
		return "", errors.New("invalid payload")
	}
	websiteURL := strings.TrimSpace(req.WebsiteURL)
	if websiteURL == "" {
		return "", errors.New("website_url is required")
	}
	return websiteURL, nil
}
