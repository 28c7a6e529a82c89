package scraper

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/entity"
)

const (
	faqPrompt = "Extract all FAQ question and answer pairs from the following text. " +
		"Return as a JSON array of objects with 'question' and 'answer'. Text:\n"
	contactPrompt = "Extract all email addresses and phone numbers from the following text. " +
		"Return them as a JSON object with 'emails' and 'phones' fields. Text:\n"
	aboutPrompt = "Summarize the following text as a concise brand description suitable for an 'About Us' section. " +
		"Return only the summary text.\nText:\n"

	faqMaxTokens     = 512
	contactMaxTokens = 256
	aboutMaxTokens   = 256
)

// complete asks the language model and reports false on any failure, including
// a scraper built without one.
func (s *Scraper) complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, bool) {
	if s.model == nil {
		return "", false
	}
	out, err := s.model.Complete(ctx, purpose, prompt, maxTokens)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("purpose", purpose).Msg("language model fallback failed")
		return "", false
	}
	return out, true
}

func (s *Scraper) faqsFromModel(ctx context.Context, text string) []entity.FAQ {
	faqs := []entity.FAQ{}
	if strings.TrimSpace(text) == "" {
		return faqs
	}
	out, ok := s.complete(ctx, "faq", faqPrompt+text, faqMaxTokens)
	if !ok {
		return faqs
	}
	var decoded []entity.FAQ
	if err := json.Unmarshal([]byte(StripCodeFence(out)), &decoded); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("faq completion is not a json array")
		return faqs
	}
	for _, faq := range decoded {
		if faq.Question != "" && faq.Answer != "" {
			faqs = append(faqs, faq)
		}
	}
	return faqs
}

func (s *Scraper) contactsFromModel(ctx context.Context, text string) ([]string, []string) {
	emails, phones := []string{}, []string{}
	out, ok := s.complete(ctx, "contact", contactPrompt+text, contactMaxTokens)
	if !ok {
		return emails, phones
	}
	var decoded struct {
		Emails []string `json:"emails"`
		Phones []string `json:"phones"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(out)), &decoded); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("contact completion is not a json object")
		return emails, phones
	}
	return capNonBlank(decoded.Emails, maxContacts), capNonBlank(decoded.Phones, maxContacts)
}

func (s *Scraper) aboutFromModel(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	out, ok := s.complete(ctx, "about", aboutPrompt+text, aboutMaxTokens)
	if !ok {
		return "", false
	}
	out = strings.TrimSpace(out)
	return out, out != ""
}

// StripCodeFence unwraps a completion wrapped in a Markdown code fence.
func StripCodeFence(out string) string {
	out = strings.TrimSpace(out)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	if nl := strings.IndexByte(out, '\n'); nl >= 0 {
		out = out[nl+1:]
	} else {
		out = strings.TrimPrefix(out, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(out), "```"))
}

func capNonBlank(values []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, v := range values {
		if len(out) == limit {
			break
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
