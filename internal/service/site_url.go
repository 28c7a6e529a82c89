package service

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/octobees/storefront-insights/internal/scraper"
)

var idnaProfile = idna.Lookup

// NormalizeSiteURL reduces a storefront URL to scheme, ASCII host and path so
// the same site always maps to the same brand. A missing scheme means https.
func NormalizeSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: website_url is required", scraper.ErrInvalidBaseURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", scraper.ErrInvalidBaseURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", scraper.ErrInvalidBaseURL, u.Scheme)
	}

	host := strings.Trim(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%w: missing host", scraper.ErrInvalidBaseURL)
	}
	asciiHost, err := idnaProfile.ToASCII(host)
	if err != nil || asciiHost == "" {
		return "", fmt.Errorf("%w: invalid host %q", scraper.ErrInvalidBaseURL, host)
	}
	if port := u.Port(); port != "" {
		asciiHost += ":" + port
	}

	return scheme + "://" + asciiHost + strings.TrimRight(u.EscapedPath(), "/"), nil
}
