// Package scraper extracts brand insights from storefront pages. Every
// resolver degrades to an empty or absent value instead of failing; only an
// empty product feed is reported to the caller.
package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/metrics"
)

const defaultPhoneRegion = "IN"

var (
	// ErrNoProducts is returned when the storefront exposes no product feed.
	ErrNoProducts = errors.New("website not found or no products available")
	// ErrInvalidBaseURL is returned when the storefront URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid website url")
)

// DefaultEmailSuffixBlocklist lists domains produced by image filenames such as
// "logo@2.0.1.png" that look like addresses.
var DefaultEmailSuffixBlocklist = []string{"6.8.6", "1.8.2", "2.0.1", "0.2.6"}

// LanguageModel completes a prompt. Implementations must honour maxTokens and
// answer deterministically.
type LanguageModel interface {
	Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error)
}

// Scraper runs the extraction resolvers against a storefront.
type Scraper struct {
	fetcher       PageFetcher
	model         LanguageModel
	phoneRegion   string
	emailSuffixes []string
}

// Option configures optional dependencies.
type Option func(*Scraper)

// WithLanguageModel enables the language-model fallbacks.
func WithLanguageModel(model LanguageModel) Option {
	return func(s *Scraper) {
		s.model = model
	}
}

// WithPhoneRegion sets the region used for numbers written without a country code.
func WithPhoneRegion(region string) Option {
	return func(s *Scraper) {
		if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
			s.phoneRegion = region
		}
	}
}

// WithEmailSuffixBlocklist replaces the false-positive email domain list.
func WithEmailSuffixBlocklist(suffixes []string) Option {
	return func(s *Scraper) {
		if suffixes != nil {
			s.emailSuffixes = suffixes
		}
	}
}

// New builds a scraper around fetcher.
func New(fetcher PageFetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:       fetcher,
		phoneRegion:   defaultPhoneRegion,
		emailSuffixes: DefaultEmailSuffixBlocklist,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract builds the insights for the storefront at baseURL. It fails with
// ErrNoProducts when the product feed is empty, before any other page is fetched.
func (s *Scraper) Extract(ctx context.Context, baseURL string) (entity.BrandInsights, error) {
	base, err := checkBase(baseURL)
	if err != nil {
		return entity.BrandInsights{}, err
	}
	products := s.ProductFeed(ctx, base)
	if len(products) == 0 {
		metrics.RecordExtraction("no_products")
		return entity.BrandInsights{}, ErrNoProducts
	}
	insights := s.collect(ctx, base, products)
	metrics.RecordExtraction("ok")
	return insights, nil
}

// Collect builds the insights without requiring a product feed.
func (s *Scraper) Collect(ctx context.Context, baseURL string) (entity.BrandInsights, error) {
	base, err := checkBase(baseURL)
	if err != nil {
		return entity.BrandInsights{}, err
	}
	insights := s.collect(ctx, base, s.ProductFeed(ctx, base))
	metrics.RecordExtraction("ok")
	return insights, nil
}

func (s *Scraper) collect(ctx context.Context, base string, products []entity.Product) entity.BrandInsights {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	insights := entity.BrandInsights{
		ProductCatalog: products,
		HeroProducts:   s.HeroProducts(ctx, base),
		PrivacyPolicy:  s.Policy(ctx, base, PolicyPrivacy),
		RefundPolicy:   s.Policy(ctx, base, PolicyRefund),
		FAQs:           s.FAQs(ctx, base),
		SocialHandles:  s.SocialHandles(ctx, base),
		ContactDetails: s.Contact(ctx, base),
		About:          s.About(ctx, base),
		ImportantLinks: s.ImportantLinks(ctx, base),
	}

	logger.Info().
		Str("website_url", base).
		Int("products", len(insights.ProductCatalog)).
		Int("hero_products", len(insights.HeroProducts)).
		Int("faqs", len(insights.FAQs)).
		Dur("elapsed", time.Since(start)).
		Msg("storefront extracted")
	return insights
}

func checkBase(raw string) (string, error) {
	base := normalizeBase(raw)
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidBaseURL
	}
	return base, nil
}

// homeDocument fetches and parses the storefront root. Each resolver calls it
// independently so resolvers stay order-free.
func (s *Scraper) homeDocument(ctx context.Context, base string) (*goquery.Document, bool) {
	return s.document(ctx, base)
}

func (s *Scraper) document(ctx context.Context, pageURL string) (*goquery.Document, bool) {
	body, ok := s.fetcher.Fetch(ctx, pageURL)
	if !ok {
		return nil, false
	}
	return parseHTML(body)
}
