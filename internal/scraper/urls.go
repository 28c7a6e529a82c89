package scraper

import (
	"net/url"
	"strings"
)

// normalizeBase trims surrounding whitespace and trailing slashes.
func normalizeBase(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// resolveURL turns an href into an absolute URL. Hrefs that already carry a
// scheme pass through; relative hrefs are joined to base with exactly one slash.
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			return u.Scheme + ":" + href
		}
		return "https:" + href
	}
	if hasScheme(href) {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}

func hasScheme(href string) bool {
	if strings.HasPrefix(strings.ToLower(href), "http") {
		return true
	}
	u, err := url.Parse(href)
	return err == nil && u.Scheme != ""
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
