// Package llm wraps the chat-completion API used for extraction fallbacks and
// competitor discovery.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/octobees/storefront-insights/internal/cache"
	"github.com/octobees/storefront-insights/internal/config"
	"github.com/octobees/storefront-insights/internal/metrics"
)

const defaultModel = openai.GPT3Dot5Turbo

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("language model not configured")
	// ErrEmptyCompletion is returned when the model answers without choices.
	ErrEmptyCompletion = errors.New("language model returned no choices")
)

// Cache stores completions between requests.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, completion string) error
}

// Model sends single-message prompts to a chat model with temperature 0.
type Model struct {
	client Client
	model  string
	cache  Cache
}

// Option configures optional dependencies.
type Option func(*Model)

// WithCache enables completion caching.
func WithCache(c Cache) Option {
	return func(m *Model) {
		m.cache = c
	}
}

// WithClient overrides the OpenAI client.
func WithClient(c Client) Option {
	return func(m *Model) {
		if c != nil {
			m.client = c
		}
	}
}

// NewModel builds a model from configuration. It fails with ErrNotConfigured
// when the API key is empty.
func NewModel(cfg config.LLMConfig, opts ...Option) (*Model, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	transportCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transportCfg.BaseURL = cfg.BaseURL
	}

	m := &Model{
		client: &OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)},
		model:  cfg.Model,
	}
	if m.model == "" {
		m.model = defaultModel
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name returns the chat model identifier.
func (m *Model) Name() string {
	return m.model
}

// Complete returns the model's answer to prompt. purpose labels metrics only.
func (m *Model) Complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error) {
	logger := zerolog.Ctx(ctx)
	key := cache.KeyFrom(m.model, prompt)
	if m.cache != nil {
		if out, ok := m.cache.Get(ctx, key); ok {
			metrics.RecordLLM(purpose, "cache_hit")
			return out, nil
		}
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
		// zero is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		metrics.RecordLLM(purpose, "error")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordLLM(purpose, "empty")
		return "", ErrEmptyCompletion
	}
	out := resp.Choices[0].Message.Content
	metrics.RecordLLM(purpose, "ok")

	if m.cache != nil {
		if err := m.cache.Set(ctx, key, out); err != nil {
			logger.Warn().Err(err).Str("purpose", purpose).Msg("failed to cache completion")
		}
	}
	return out, nil
}
