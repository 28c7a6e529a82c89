package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/storefront-insights/internal/config"
	"github.com/octobees/storefront-insights/internal/handler"
	"github.com/octobees/storefront-insights/internal/metrics"
	middlewarepkg "github.com/octobees/storefront-insights/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Insights *handler.InsightsHandler
	Brands   *handler.BrandsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Both extraction endpoints draw from one bucket.
	limiter := middlewarepkg.ExtractionRateLimiter(cfg.RateLimitInsights)
	e.POST("/fetch-insights", handlers.Insights.FetchInsights, limiter)
	e.POST("/fetch-competitors", handlers.Insights.FetchCompetitors, limiter)

	if handlers.Brands != nil {
		e.GET("/brands", handlers.Brands.List)
		e.GET("/brands/:id/insights", handlers.Brands.Insights)
	}
}
