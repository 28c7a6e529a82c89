package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/storefront-insights/internal/metrics"
)

type keyedPattern struct {
	key      string
	patterns []string
}

var socialPlatforms = []keyedPattern{
	{"instagram", []string{"instagram.com"}},
	{"facebook", []string{"facebook.com"}},
	{"tiktok", []string{"tiktok.com"}},
	{"twitter", []string{"twitter.com"}},
	{"youtube", []string{"youtube.com"}},
	{"pinterest", []string{"pinterest.com"}},
	{"linkedin", []string{"linkedin.com"}},
	{"snapchat", []string{"snapchat.com"}},
	{"whatsapp", []string{"wa.me"}},
	{"telegram", []string{"t.me"}},
}

var linkCategories = []keyedPattern{
	{"order_tracking", []string{"track", "tracking", "order status"}},
	{"contact_us", []string{"contact"}},
	{"blog", []string{"blog"}},
	{"support", []string{"support", "help"}},
	{"returns", []string{"return", "refund", "exchange"}},
	{"policy", []string{"policy"}},
	{"faq", []string{"faq", "questions"}},
}

// SocialHandles maps each platform to the last homepage link pointing at it.
func (s *Scraper) SocialHandles(ctx context.Context, base string) map[string]string {
	defer metrics.ObserveResolver("social_handles", time.Now())

	handles := map[string]string{}
	doc, ok := s.homeDocument(ctx, base)
	if !ok {
		return handles
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		for _, platform := range socialPlatforms {
			if containsAny(href, platform.patterns...) {
				handles[platform.key] = href
			}
		}
	})
	return handles
}

// ImportantLinks maps navigation categories to the first homepage link whose
// text or href mentions them.
func (s *Scraper) ImportantLinks(ctx context.Context, base string) map[string]string {
	defer metrics.ObserveResolver("important_links", time.Now())

	links := map[string]string{}
	doc, ok := s.homeDocument(ctx, base)
	if !ok {
		return links
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.ToLower(inlineText(a))
		lowerHref := strings.ToLower(href)
		for _, category := range linkCategories {
			if _, filled := links[category.key]; filled {
				continue
			}
			if containsAny(text, category.patterns...) || containsAny(lowerHref, category.patterns...) {
				links[category.key] = resolveURL(base, href)
			}
		}
	})
	return links
}
