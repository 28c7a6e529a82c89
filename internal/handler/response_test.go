package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/middleware"
)

func TestSuccessWrapsInsights(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/fetch-insights", nil), rec)

	data := entity.BrandInsights{SocialHandles: map[string]string{"instagram": "https://instagram.com/shop"}}
	if err := Success(c, 0, "insights extracted", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		APIResponse
		Data entity.BrandInsights `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" || payload.Message != "insights extracted" || payload.RequestID != "" {
		t.Fatalf("unexpected envelope: %+v", payload.APIResponse)
	}
	if payload.Data.SocialHandles["instagram"] != "https://instagram.com/shop" {
		t.Fatalf("unexpected data: %+v", payload.Data)
	}
}

func TestErrorCarriesRequestID(t *testing.T) {
	e := echo.New()
	e.Use(middleware.RequestID())
	e.POST("/fetch-insights", func(c echo.Context) error {
		return Error(c, 0, "failed to extract insights")
	})

	req := httptest.NewRequest(http.MethodPost, "/fetch-insights", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected default status 500, got %d", rec.Code)
	}
	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "error" || payload.Message != "failed to extract insights" || payload.RequestID != "req-42" {
		t.Fatalf("unexpected response: %+v", payload)
	}
}

func TestErrorWithoutRequestID(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/brands", nil), rec)

	if err := Error(c, http.StatusNotFound, "brand not found"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := payload["request_id"]; ok {
		t.Fatalf("expected request_id to be omitted, got %v", payload)
	}
}
