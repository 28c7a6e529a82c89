package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/storefront-insights/internal/repository"
	"github.com/octobees/storefront-insights/internal/service"
)

// BrandsHandler exposes stored brands and their insights.
type BrandsHandler struct {
	service *service.InsightsService
}

// NewBrandsHandler creates a new handler instance.
func NewBrandsHandler(service *service.InsightsService) *BrandsHandler {
	return &BrandsHandler{service: service}
}

// List handles GET /brands requests.
func (h *BrandsHandler) List(c echo.Context) error {
	brands, err := h.service.ListBrands(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list brands")
	}
	return Success(c, http.StatusOK, "", brands)
}

// Insights handles GET /brands/:id/insights requests.
func (h *BrandsHandler) Insights(c echo.Context) error {
	brandID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid brand id")
	}

	raw, err := h.service.GetInsights(c.Request().Context(), brandID)
	switch {
	case err == nil:
		return Success(c, http.StatusOK, "", raw)
	case errors.Is(err, repository.ErrBrandNotFound):
		return Error(c, http.StatusNotFound, "brand not found")
	case errors.Is(err, repository.ErrInsightsNotFound):
		return Error(c, http.StatusNotFound, "no insights found for this brand")
	default:
		return Error(c, http.StatusInternalServerError, "failed to load brand insights")
	}
}
