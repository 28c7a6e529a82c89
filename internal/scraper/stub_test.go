package scraper

import (
	"context"
	"errors"
	"sync"
)

const testBase = "https://shop.example"

// stubFetcher serves canned pages keyed by absolute URL.
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newStubFetcher(pages map[string]string) *stubFetcher {
	return &stubFetcher{pages: pages}
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	return body, ok
}

func (f *stubFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

type modelCall struct {
	purpose   string
	prompt    string
	maxTokens int
}

// stubModel answers every completion with a fixed reply.
type stubModel struct {
	reply string
	err   error
	calls []modelCall
}

func (m *stubModel) Complete(_ context.Context, purpose, prompt string, maxTokens int) (string, error) {
	m.calls = append(m.calls, modelCall{purpose: purpose, prompt: prompt, maxTokens: maxTokens})
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

var errModelDown = errors.New("model unavailable")
