package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/repository"
	"github.com/octobees/storefront-insights/internal/scraper"
	"github.com/octobees/storefront-insights/internal/service"
)

type extractorStub struct {
	insights entity.BrandInsights
	err      error
}

func (e *extractorStub) Extract(ctx context.Context, baseURL string) (entity.BrandInsights, error) {
	return e.insights, e.err
}

func (e *extractorStub) Collect(ctx context.Context, baseURL string) (entity.BrandInsights, error) {
	return e.insights, e.err
}

type modelStub struct {
	reply string
	err   error
}

func (m *modelStub) Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error) {
	return m.reply, m.err
}

type brandsRepoStub struct {
	brands   []entity.Brand
	insights map[uuid.UUID]json.RawMessage
	stored   map[string]json.RawMessage
	err      error
}

func (r *brandsRepoStub) UpsertInsights(ctx context.Context, websiteURL string, insights json.RawMessage) (uuid.UUID, error) {
	if r.stored == nil {
		r.stored = map[string]json.RawMessage{}
	}
	r.stored[websiteURL] = insights
	return uuid.New(), nil
}

func (r *brandsRepoStub) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return r.brands, r.err
}

func (r *brandsRepoStub) GetInsights(ctx context.Context, brandID uuid.UUID) (json.RawMessage, error) {
	if r.err != nil {
		return nil, r.err
	}
	raw, ok := r.insights[brandID]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}
	if raw == nil {
		return nil, repository.ErrInsightsNotFound
	}
	return raw, nil
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func newInsightsHandler(extractor service.Extractor, model scraper.LanguageModel, repo repository.BrandsRepository) *InsightsHandler {
	return NewInsightsHandler(
		service.NewInsightsService(extractor, repo),
		service.NewCompetitorService(model, extractor),
	)
}

func TestInsightsHandler_FetchInsights(t *testing.T) {
	insights := entity.BrandInsights{
		ProductCatalog: []entity.Product{{Title: "Tote", URL: "https://shop.example/products/tote"}},
		SocialHandles:  map[string]string{"instagram": "https://instagram.com/shop"},
	}
	repo := &brandsRepoStub{}
	h := newInsightsHandler(&extractorStub{insights: insights}, nil, repo)

	rec := postJSON(t, h.FetchInsights, "/fetch-insights", `{"website_url":"https://shop.example/"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Status string               `json:"status"`
		Data   entity.BrandInsights `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" || len(payload.Data.ProductCatalog) != 1 {
		t.Fatalf("unexpected response: %+v", payload)
	}
	if _, ok := repo.stored["https://shop.example"]; !ok {
		t.Fatalf("expected insights persisted under normalized url, got %v", repo.stored)
	}
}

func TestInsightsHandler_FetchInsightsErrors(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		extractor *extractorStub
		want      int
	}{
		{"invalid payload", `{`, &extractorStub{}, http.StatusBadRequest},
		{"missing url", `{"website_url":"  "}`, &extractorStub{}, http.StatusBadRequest},
		{"bad scheme", `{"website_url":"ftp://shop.example"}`, &extractorStub{}, http.StatusBadRequest},
		{"no products", `{"website_url":"https://shop.example"}`, &extractorStub{err: scraper.ErrNoProducts}, http.StatusUnauthorized},
		{"unexpected", `{"website_url":"https://shop.example"}`, &extractorStub{err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newInsightsHandler(tc.extractor, nil, nil)
			rec := postJSON(t, h.FetchInsights, "/fetch-insights", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"status":"error"`) {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestInsightsHandler_FetchCompetitors(t *testing.T) {
	insights := entity.BrandInsights{ProductCatalog: []entity.Product{}}
	h := newInsightsHandler(&extractorStub{insights: insights}, &modelStub{reply: "https://a.com\nhttps://b.com"}, nil)

	rec := postJSON(t, h.FetchCompetitors, "/fetch-competitors", `{"website_url":"https://shop.example"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data []entity.BrandInsights `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("expected two competitors, got %d", len(payload.Data))
	}
}

func TestInsightsHandler_FetchCompetitorsErrors(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		model     scraper.LanguageModel
		extractor *extractorStub
		want      int
	}{
		{"missing url", `{}`, &modelStub{}, &extractorStub{}, http.StatusBadRequest},
		{"none extracted", `{"website_url":"https://shop.example"}`, &modelStub{reply: "https://a.com"}, &extractorStub{err: errors.New("down")}, http.StatusNotFound},
		{"model failure", `{"website_url":"https://shop.example"}`, &modelStub{err: errors.New("quota")}, &extractorStub{}, http.StatusBadGateway},
		{"model missing", `{"website_url":"https://shop.example"}`, nil, &extractorStub{}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newInsightsHandler(tc.extractor, tc.model, nil)
			rec := postJSON(t, h.FetchCompetitors, "/fetch-competitors", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}
