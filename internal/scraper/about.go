package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/storefront-insights/internal/metrics"
)

var aboutPaths = []string{
	"/pages/about", "/about", "/about-us", "/pages/about-us",
	"/pages/our-story", "/our-story", "/pages/brand-story", "/brand-story",
}

// About returns the storefront's about text, falling back to a model-written
// summary of the homepage.
func (s *Scraper) About(ctx context.Context, base string) *string {
	defer metrics.ObserveResolver("about", time.Now())

	var home *goquery.Document
	body, found := s.probeAbout(ctx, base)
	if !found {
		if doc, ok := s.homeDocument(ctx, base); ok {
			home = doc
			doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href, _ := a.Attr("href")
				if !containsAny(strings.ToLower(href), "about", "story") {
					return true
				}
				body, found = s.fetcher.Fetch(ctx, resolveURL(base, href))
				return false
			})
		}
	}
	if found {
		if text, ok := mainContentText(body, pageMinChars); ok {
			text = strings.TrimSpace(text)
			return &text
		}
	}

	if home == nil {
		doc, ok := s.homeDocument(ctx, base)
		if !ok {
			return nil
		}
		home = doc
	}
	if summary, ok := s.aboutFromModel(ctx, blockText(home.Selection)); ok {
		return &summary
	}
	return nil
}

func (s *Scraper) probeAbout(ctx context.Context, base string) (string, bool) {
	for _, path := range aboutPaths {
		body, ok := s.fetcher.Fetch(ctx, base+path)
		if ok && containsAny(strings.ToLower(body), "about", "story") {
			return body, true
		}
	}
	return "", false
}
