package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector matches markup whose text is never user-facing copy.
const noiseSelector = "script, style, noscript, svg, meta, head, title, link"

func parseHTML(markup string) (*goquery.Document, bool) {
	if strings.TrimSpace(markup) == "" {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// textLines returns every non-blank text node under sel, trimmed, in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if line := strings.TrimSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// blockText joins text nodes with newlines so block elements stay separated.
func blockText(sel *goquery.Selection) string {
	return strings.Join(textLines(sel), "\n")
}

// inlineText returns the element text with whitespace runs collapsed.
func inlineText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// mainContent picks the region most likely to hold the page body.
func mainContent(doc *goquery.Document) *goquery.Selection {
	if main := doc.Find("main").First(); main.Length() > 0 {
		return main
	}
	if main := doc.Find("#MainContent").First(); main.Length() > 0 {
		return main
	}
	return doc.Selection
}

// mainContentText extracts main-content text and applies the quality gate.
func mainContentText(markup string, minChars int) (string, bool) {
	doc, ok := parseHTML(markup)
	if !ok {
		return "", false
	}
	text := blockText(mainContent(doc))
	if charCount(text) <= minChars {
		return "", false
	}
	return text, true
}

// strippedText returns the page text after removing non-content markup.
func strippedText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()
	return blockText(doc.Selection)
}

func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
