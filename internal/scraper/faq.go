package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/metrics"
)

var faqPaths = []string{
	"/pages/faq", "/pages/faqs", "/faq", "/faqs",
	"/pages/help", "/help", "/pages/support", "/support",
	"/pages/customer-service", "/customer-service", "/pages/questions", "/questions",
}

// headingSelector matches the elements FAQ pages use for questions.
const headingSelector = "h2, h3, h4, b, strong"

// faqHeuristic pulls question and answer pairs out of a parsed FAQ page.
type faqHeuristic func(doc *goquery.Document) []entity.FAQ

// faqHeuristics run in this order; their output is concatenated before dedupe.
var faqHeuristics = []faqHeuristic{
	classedFAQs,
	detailsFAQs,
	headingFAQs,
	boldListItemFAQs,
}

// FAQs locates the storefront FAQ page and parses its question and answer
// pairs, asking the language model when no structure matches.
func (s *Scraper) FAQs(ctx context.Context, base string) []entity.FAQ {
	defer metrics.ObserveResolver("faq", time.Now())

	body, ok := s.locateFAQPage(ctx, base)
	if !ok {
		return []entity.FAQ{}
	}
	doc, ok := parseHTML(body)
	if !ok {
		return []entity.FAQ{}
	}

	var faqs []entity.FAQ
	for _, heuristic := range faqHeuristics {
		faqs = append(faqs, heuristic(doc)...)
	}
	faqs = dedupeFAQs(faqs)
	if len(faqs) > 0 {
		return faqs
	}

	zerolog.Ctx(ctx).Debug().Str("website_url", base).Msg("no structured faqs, asking language model")
	return s.faqsFromModel(ctx, blockText(doc.Selection))
}

// locateFAQPage returns the body of the first page that looks like an FAQ.
// Well-known paths are probed first, then every homepage link not yet tried.
func (s *Scraper) locateFAQPage(ctx context.Context, base string) (string, bool) {
	checked := make(map[string]struct{}, len(faqPaths))
	for _, path := range faqPaths {
		pageURL := base + path
		checked[pageURL] = struct{}{}
		if body, ok := s.fetcher.Fetch(ctx, pageURL); ok && looksLikeFAQ(body) {
			return body, true
		}
	}

	doc, ok := s.homeDocument(ctx, base)
	if !ok {
		return "", false
	}
	var candidates []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link := resolveURL(base, href)
		if !isHTTPURL(link) {
			return
		}
		if _, done := checked[link]; done {
			return
		}
		checked[link] = struct{}{}
		candidates = append(candidates, link)
	})

	for _, link := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if body, ok := s.fetcher.Fetch(ctx, link); ok && looksLikeFAQ(body) {
			return body, true
		}
	}
	return "", false
}

func looksLikeFAQ(body string) bool {
	return containsAny(strings.ToLower(body), "faq", "question")
}

// classedFAQs pairs a heading with a paragraph inside .faq and .faq-item blocks.
func classedFAQs(doc *goquery.Document) []entity.FAQ {
	var out []entity.FAQ
	doc.Find(".faq, .faq-item").Each(func(_ int, item *goquery.Selection) {
		q := item.Find("h2, h3, h4, strong, b").First()
		a := item.Find("p").First()
		if q.Length() == 0 || a.Length() == 0 {
			return
		}
		out = append(out, entity.FAQ{Question: inlineText(q), Answer: inlineText(a)})
	})
	return out
}

// detailsFAQs reads <details> disclosures; the summary is the question and the
// rest of the element is the answer.
func detailsFAQs(doc *goquery.Document) []entity.FAQ {
	var out []entity.FAQ
	doc.Find("details").Each(func(_ int, details *goquery.Selection) {
		summary := details.Find("summary").First()
		if summary.Length() == 0 {
			return
		}
		body := details.Clone()
		body.Find("summary").First().Remove()
		out = append(out, entity.FAQ{Question: inlineText(summary), Answer: strings.TrimSpace(blockText(body))})
	})
	return out
}

// headingFAQs pairs each heading with the next sibling paragraph and, separately,
// with the next sibling list.
func headingFAQs(doc *goquery.Document) []entity.FAQ {
	var out []entity.FAQ
	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		question := inlineText(heading)
		if p := heading.NextAllFiltered("p").First(); p.Length() > 0 {
			out = append(out, entity.FAQ{Question: question, Answer: inlineText(p)})
		}
		if list := heading.NextAllFiltered("ul, ol").First(); list.Length() > 0 {
			var items []string
			list.Find("li").Each(func(_ int, li *goquery.Selection) {
				items = append(items, inlineText(li))
			})
			out = append(out, entity.FAQ{Question: question, Answer: strings.Join(items, "\n")})
		}
	})
	return out
}

// boldListItemFAQs treats the bold part of a list item as the question.
func boldListItemFAQs(doc *goquery.Document) []entity.FAQ {
	var out []entity.FAQ
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		bold := li.Find("strong, b").First()
		if bold.Length() == 0 {
			return
		}
		question := inlineText(bold)
		answer := inlineText(li)
		if question != "" {
			answer = strings.ReplaceAll(answer, question, "")
		}
		if answer = strings.TrimSpace(answer); answer == "" {
			return
		}
		out = append(out, entity.FAQ{Question: question, Answer: answer})
	})
	return out
}

// dedupeFAQs keeps the first occurrence of every exact pair and drops pairs
// with an empty side.
func dedupeFAQs(faqs []entity.FAQ) []entity.FAQ {
	out := make([]entity.FAQ, 0, len(faqs))
	seen := make(map[entity.FAQ]struct{}, len(faqs))
	for _, faq := range faqs {
		if faq.Question == "" || faq.Answer == "" {
			continue
		}
		if _, dup := seen[faq]; dup {
			continue
		}
		seen[faq] = struct{}{}
		out = append(out, faq)
	}
	return out
}
