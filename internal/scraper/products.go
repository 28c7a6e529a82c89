package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/metrics"
)

const productFeedPath = "/products.json"

type productFeed struct {
	Products []feedProduct `json:"products"`
}

type feedProduct struct {
	Title    string        `json:"title"`
	Handle   string        `json:"handle"`
	Variants []feedVariant `json:"variants"`
	Images   []feedImage   `json:"images"`
}

type feedVariant struct {
	Price feedPrice `json:"price"`
}

type feedImage struct {
	Src string `json:"src"`
}

// feedPrice accepts both "19.99" and 19.99.
type feedPrice struct {
	value *float64
}

func (p *feedPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		p.value = &v
	}
	return nil
}

// ProductFeed reads the storefront's JSON product feed. Any failure yields an
// empty catalog; there is no HTML fallback.
func (s *Scraper) ProductFeed(ctx context.Context, base string) []entity.Product {
	defer metrics.ObserveResolver("product_feed", time.Now())

	products := []entity.Product{}
	body, ok := s.fetcher.Fetch(ctx, base+productFeedPath)
	if !ok {
		return products
	}
	var feed productFeed
	if err := json.Unmarshal([]byte(body), &feed); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("website_url", base).Msg("product feed is not json")
		return products
	}
	for _, record := range feed.Products {
		products = append(products, record.toProduct(base))
	}
	return products
}

func (r feedProduct) toProduct(base string) entity.Product {
	product := entity.Product{
		Title: r.Title,
		URL:   base + "/products/" + r.Handle,
	}
	if len(r.Variants) > 0 {
		product.Price = r.Variants[0].Price.value
	}
	if len(r.Images) > 0 && r.Images[0].Src != "" {
		src := r.Images[0].Src
		product.Image = &src
	}
	return product
}

// HeroProducts collects homepage links that point at product pages.
func (s *Scraper) HeroProducts(ctx context.Context, base string) []entity.Product {
	defer metrics.ObserveResolver("hero_products", time.Now())

	products := []entity.Product{}
	doc, ok := s.homeDocument(ctx, base)
	if !ok {
		return products
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/products/") {
			return
		}
		title := inlineText(a)
		if title == "" {
			return
		}
		productURL := resolveURL(base, href)
		if _, dup := seen[productURL]; dup {
			return
		}
		seen[productURL] = struct{}{}

		product := entity.Product{Title: title, URL: productURL}
		if src, ok := a.Find("img").First().Attr("src"); ok {
			product.Image = &src
		}
		products = append(products, product)
	})
	return products
}
