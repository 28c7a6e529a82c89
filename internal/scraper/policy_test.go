package scraper

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refundBody = strings.TrimSpace(strings.Repeat("Refunds are accepted within 30 days. ", 5))

func TestPolicyRefundPathStopsAtFirstHit(t *testing.T) {
	f := newStubFetcher(map[string]string{
		testBase + "/policies/refund-policy": "<html><body><nav>Menu</nav><main><p>" + refundBody + "</p></main></body></html>",
	})
	s := New(f)

	text := s.Policy(context.Background(), testBase, PolicyRefund)
	require.NotNil(t, text)
	assert.Equal(t, refundBody, *text)
	assert.Equal(t, []string{testBase + "/policies/refund-policy"}, f.calls)
}

func TestPolicyUsesMainContentFallbacks(t *testing.T) {
	body := "<html><body><div id=\"MainContent\"><h1>Privacy</h1><p>" + strings.Repeat("We keep your data safe. ", 6) + "</p></div><footer>Footer</footer></body></html>"
	s := New(newStubFetcher(map[string]string{testBase + "/pages/privacy-policy": body}))

	text := s.Policy(context.Background(), testBase, PolicyPrivacy)
	require.NotNil(t, text)
	assert.True(t, strings.HasPrefix(*text, "Privacy\nWe keep your data safe."))
	assert.NotContains(t, *text, "Footer")
}

func TestPolicyFollowsHomepageLink(t *testing.T) {
	home := `<html><body><a href="/pages/Privacy-Notice">Privacy</a></body></html>`
	notice := "<main>" + strings.Repeat("Personal information is handled carefully. ", 4) + "</main>"
	f := newStubFetcher(map[string]string{
		testBase:                           home,
		testBase + "/pages/Privacy-Notice": notice,
	})

	text := New(f).Policy(context.Background(), testBase, PolicyPrivacy)
	require.NotNil(t, text)
	assert.Contains(t, *text, "Personal information")
}

func TestPolicyRefundSnippet(t *testing.T) {
	home := `<html><body>
		<section><h2>Welcome</h2></section>
		<p>Not happy? Our return window is thirty days from delivery for all items.</p>
	</body></html>`
	s := New(newStubFetcher(map[string]string{testBase: home}))

	text := s.Policy(context.Background(), testBase, PolicyRefund)
	require.NotNil(t, text)
	assert.Equal(t, "Not happy? Our return window is thirty days from delivery for all items.", *text)

	assert.Nil(t, s.Policy(context.Background(), testBase, PolicyPrivacy))
}

func TestPolicyAbsentWhenEveryTierFails(t *testing.T) {
	f := newStubFetcher(map[string]string{
		testBase:                              `<html><body><a href="/collections">Shop</a></body></html>`,
		testBase + "/policies/privacy-policy": "<main>too short</main>",
	})
	s := New(f)

	assert.Nil(t, s.Policy(context.Background(), testBase, PolicyPrivacy))
	assert.Nil(t, s.Policy(context.Background(), testBase, PolicyRefund))
	assert.Nil(t, New(newStubFetcher(nil)).Policy(context.Background(), testBase, PolicyRefund))
}
