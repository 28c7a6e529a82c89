package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRealEmail(t *testing.T) {
	cases := map[string]bool{
		"jane@example.com":       true,
		"orders@shop.co.in":      true,
		"foo@2.6.8.6":            false,
		"logo@2x.png":            false,
		"icon@6.8.6":             false,
		"support@mail2.brand.io": false,
		"not-an-email":           false,
	}
	for email, want := range cases {
		assert.Equal(t, want, IsRealEmail(email), email)
	}
}

func TestIsRealEmailUsesConfiguredSuffixes(t *testing.T) {
	assert.True(t, isRealEmail("hello@brand.store", nil))
	assert.False(t, isRealEmail("hello@brand.store", []string{"brand.store"}))
}

func TestContactMergesHomepageAndContactPage(t *testing.T) {
	home := `<html><head><title>hidden@head.example</title></head><body>
		<script>var x = "script@code.example";</script>
		<p>Write to hello@brand.example</p>
		<img src="logo@2x.png">
		<p>Call (201) 555-0123</p>
		<a href="/pages/Contact">Contact</a>
	</body></html>`
	contact := `<html><body><main>
		<p>Support: support@brand.example</p>
		<p>Sales: hello@brand.example</p>
		<p>Phone: +1 201-555-0123</p>
		<p>Fax: +1 201-555-0199</p>
	</main></body></html>`
	f := newStubFetcher(map[string]string{
		testBase:                    home,
		testBase + "/pages/Contact": contact,
	})
	s := New(f, WithPhoneRegion("us"))

	details := s.Contact(context.Background(), testBase)
	assert.Equal(t, []string{"hello@brand.example", "support@brand.example"}, details.Emails)
	assert.Equal(t, []string{"+12015550123", "+12015550199"}, details.Phones)
	require.NotNil(t, details.ContactPage)
	assert.Equal(t, testBase+"/pages/Contact", *details.ContactPage)
}

func TestContactDefaultRegionPhones(t *testing.T) {
	home := `<html><body>
		<p>Call +91 98765 43210</p>
		<p>Mobile 098765 43210</p>
		<p>Landline 022 2345 6789</p>
		<p>WhatsApp: +91 98765 43211 (9am-6pm)</p>
		<p>Phone +91 98765 43212 2024</p>
	</body></html>`
	s := New(newStubFetcher(map[string]string{testBase: home}))

	details := s.Contact(context.Background(), testBase)
	assert.Equal(t, []string{"+919876543210", "+912223456789", "+919876543211", "+919876543212"}, details.Phones)
}

func TestFindPhonesTrimsTrailingGroups(t *testing.T) {
	cases := map[string][]string{
		"WhatsApp: +91 98765 43210 (9am-6pm)": {"+919876543210"},
		"Phone +91 98765 43210 2024":          {"+919876543210"},
		"Order 12345":                         nil,
	}
	for text, want := range cases {
		assert.Equal(t, want, findPhones(text, "IN"), text)
	}
}

func TestContactCapsAtFive(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&b, "<p>person%d@brand.example</p><p>+1 201-555-01%02d</p>", i, i)
	}
	b.WriteString("</body></html>")
	s := New(newStubFetcher(map[string]string{testBase: b.String()}))

	details := s.Contact(context.Background(), testBase)
	require.Len(t, details.Emails, 5)
	require.Len(t, details.Phones, 5)
	assert.Equal(t, "person1@brand.example", details.Emails[0])
	assert.Equal(t, "+12015550101", details.Phones[0])
	assert.Nil(t, details.ContactPage)
}

func TestContactFallsBackToModel(t *testing.T) {
	home := `<html><body><a href="https://shop.example/support">Help</a></body></html>`
	page := `<html><body><p>Reach our team through the form below.</p></body></html>`
	model := &stubModel{reply: `{"emails":["a@x.io","b@x.io","c@x.io","d@x.io","e@x.io","f@x.io"],"phones":[" ","+911234567890"]}`}
	s := New(newStubFetcher(map[string]string{testBase: home, testBase + "/support": page}), WithLanguageModel(model))

	details := s.Contact(context.Background(), testBase)
	assert.Len(t, details.Emails, 5)
	assert.Equal(t, []string{"+911234567890"}, details.Phones)
	require.Len(t, model.calls, 1)
	assert.Equal(t, "contact", model.calls[0].purpose)
	assert.Contains(t, model.calls[0].prompt, "Reach our team")
}

func TestContactWithoutPages(t *testing.T) {
	model := &stubModel{reply: `{"emails":["ghost@x.io"]}`}
	details := New(newStubFetcher(nil), WithLanguageModel(model)).Contact(context.Background(), testBase)
	assert.NotNil(t, details.Emails)
	assert.NotNil(t, details.Phones)
	assert.Empty(t, details.Emails)
	assert.Nil(t, details.ContactPage)
	assert.Empty(t, model.calls)
}

func TestOrderedSet(t *testing.T) {
	set := newOrderedSet()
	for _, v := range []string{"b", "a", "b", "c"} {
		set.add(v)
	}
	assert.Equal(t, []string{"b", "a", "c"}, set.first(5))
	assert.Equal(t, []string{"b", "a"}, set.first(2))
}
