package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/metrics"
)

// PolicyKind names a storefront policy page.
type PolicyKind string

const (
	PolicyPrivacy PolicyKind = "privacy"
	PolicyRefund  PolicyKind = "refund"
)

const (
	pageMinChars    = 100
	snippetMinChars = 50
)

var policyPaths = map[PolicyKind][]string{
	PolicyPrivacy: {"/policies/privacy-policy", "/pages/privacy-policy", "/privacy-policy"},
	PolicyRefund: {
		"/policies/refund-policy", "/pages/refund-policy", "/refund-policy",
		"/policies/return-policy", "/pages/return-policy", "/return-policy",
	},
}

var policyKeywords = map[PolicyKind][]string{
	PolicyPrivacy: {"privacy"},
	PolicyRefund:  {"refund", "return", "exchange"},
}

// Policy locates the policy text of the given kind. It tries well-known paths,
// then homepage links, then (refund only) homepage snippets, and returns nil
// when none of them produce enough text.
func (s *Scraper) Policy(ctx context.Context, base string, kind PolicyKind) *string {
	defer metrics.ObserveResolver(string(kind)+"_policy", time.Now())
	logger := zerolog.Ctx(ctx).With().Str("policy", string(kind)).Logger()

	for _, path := range policyPaths[kind] {
		if text, ok := s.pageText(ctx, base+path); ok {
			return &text
		}
	}

	doc, ok := s.homeDocument(ctx, base)
	if !ok {
		return nil
	}

	keywords := policyKeywords[kind]
	var found *string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !containsAny(strings.ToLower(href), keywords...) {
			return true
		}
		if text, ok := s.pageText(ctx, resolveURL(base, href)); ok {
			found = &text
			return false
		}
		return true
	})
	if found != nil {
		logger.Debug().Msg("policy found through homepage link")
		return found
	}

	if kind != PolicyRefund {
		return nil
	}
	if text, ok := refundSnippet(doc, keywords); ok {
		logger.Debug().Msg("policy taken from homepage snippet")
		return &text
	}
	return nil
}

// pageText fetches pageURL and returns its main-content text when it passes
// the quality gate.
func (s *Scraper) pageText(ctx context.Context, pageURL string) (string, bool) {
	body, ok := s.fetcher.Fetch(ctx, pageURL)
	if !ok {
		return "", false
	}
	return mainContentText(body, pageMinChars)
}

func refundSnippet(doc *goquery.Document, keywords []string) (string, bool) {
	blocks := doc.Find("section, div, p")
	for _, kw := range keywords {
		var text string
		blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(inlineText(block)), kw) {
				return true
			}
			if candidate := blockText(block); charCount(candidate) > snippetMinChars {
				text = candidate
				return false
			}
			return true
		})
		if text != "" {
			return text, true
		}
	}
	return "", false
}
