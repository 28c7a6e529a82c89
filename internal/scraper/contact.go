package scraper

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
	"github.com/octobees/storefront-insights/internal/metrics"
)

const maxContacts = 5

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	// phoneCandidatePattern finds digit runs that may be phone numbers; the
	// phonenumbers parser decides which ones are.
	phoneCandidatePattern = regexp.MustCompile(`\+?\(?\d[\d \t().-]{5,}\d`)
	contactLinkKeywords   = []string{"contact", "support", "customer-service"}
)

// IsRealEmail reports whether email looks like a mailbox rather than an
// artifact such as an image filename, using the default suffix blocklist.
func IsRealEmail(email string) bool {
	return isRealEmail(email, DefaultEmailSuffixBlocklist)
}

func isRealEmail(email string, suffixes []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	label, _, _ := strings.Cut(email[at+1:], ".")
	if strings.IndexFunc(label, unicode.IsDigit) >= 0 {
		return false
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(email, "@"+suffix) {
			return false
		}
	}
	return true
}

// Contact gathers emails and phone numbers from the homepage and the first
// contact-like page it links to.
func (s *Scraper) Contact(ctx context.Context, base string) entity.ContactDetails {
	defer metrics.ObserveResolver("contact", time.Now())

	emails := newOrderedSet()
	phones := newOrderedSet()
	details := entity.ContactDetails{}

	var homeText string
	if doc, ok := s.homeDocument(ctx, base); ok {
		homeText = strippedText(doc)
		s.collectContacts(homeText, emails, phones)

		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if containsAny(strings.ToLower(href), contactLinkKeywords...) {
				page := resolveURL(base, href)
				details.ContactPage = &page
				return false
			}
			return true
		})
	}

	var contactText string
	if details.ContactPage != nil {
		if doc, ok := s.document(ctx, *details.ContactPage); ok {
			contactText = strippedText(doc)
			s.collectContacts(contactText, emails, phones)
		}
	}

	details.Emails = emails.first(maxContacts)
	details.Phones = phones.first(maxContacts)
	if len(details.Emails) > 0 || len(details.Phones) > 0 {
		return details
	}

	text := contactText
	if text == "" {
		text = homeText
	}
	if text == "" {
		return details
	}
	zerolog.Ctx(ctx).Debug().Str("website_url", base).Msg("no contacts found, asking language model")
	details.Emails, details.Phones = s.contactsFromModel(ctx, text)
	return details
}

func (s *Scraper) collectContacts(text string, emails, phones *orderedSet) {
	for _, email := range emailPattern.FindAllString(text, -1) {
		if isRealEmail(email, s.emailSuffixes) {
			emails.add(email)
		}
	}
	for _, phone := range findPhones(text, s.phoneRegion) {
		phones.add(phone)
	}
}

// findPhones returns the valid numbers in text formatted as E.164.
func findPhones(text, region string) []string {
	var out []string
	for _, candidate := range phoneCandidatePattern.FindAllString(text, -1) {
		if phone, ok := parsePhone(candidate, region); ok {
			out = append(out, phone)
		}
	}
	return out
}

// parsePhone validates candidate, dropping trailing groups until a valid
// number remains. The candidate pattern also swallows digits that follow a
// number, such as "(9am" or a year.
func parsePhone(candidate, region string) (string, bool) {
	for candidate != "" {
		number, err := phonenumbers.Parse(candidate, region)
		if err == nil && phonenumbers.IsValidNumber(number) {
			return phonenumbers.Format(number, phonenumbers.E164), true
		}
		cut := strings.LastIndexAny(candidate, " \t(")
		if cut <= 0 {
			return "", false
		}
		candidate = strings.TrimRight(candidate[:cut], " \t().-")
	}
	return "", false
}

// orderedSet keeps distinct values in insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (o *orderedSet) add(v string) {
	if _, ok := o.seen[v]; ok {
		return
	}
	o.seen[v] = struct{}{}
	o.items = append(o.items, v)
}

func (o *orderedSet) first(n int) []string {
	if len(o.items) < n {
		n = len(o.items)
	}
	out := make([]string, n)
	copy(out, o.items[:n])
	return out
}
