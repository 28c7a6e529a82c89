package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; StorefrontInsights/1.0; +https://github.com/octobees/storefront-insights)"

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// LLMConfig carries the language-model settings handed to the llm package.
type LLMConfig struct {
	APIKey   string
	Model    string
	BaseURL  string
	CacheTTL time.Duration
}

// ScraperConfig tunes page fetching and contact extraction.
type ScraperConfig struct {
	FetchTimeout         time.Duration
	UserAgent            string
	PhoneRegion          string
	EmailSuffixBlocklist []string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL       string
	Port              string
	MigrateOnStart    bool
	RedisURL          string
	LogLevel          string
	LogFormat         string
	RateLimitInsights RateLimitConfig
	LLM               LLMConfig
	Scraper           ScraperConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "8080"),
		MigrateOnStart: parseBool(getEnv("MIGRATE_ON_START", "true"), true),
		RedisURL:       os.Getenv("REDIS_URL"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LLM: LLMConfig{
			APIKey:   os.Getenv("OPENAI_API_KEY"),
			Model:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL:  os.Getenv("OPENAI_BASE_URL"),
			CacheTTL: parseDuration(getEnv("LLM_CACHE_TTL", "24h"), 24*time.Hour),
		},
		Scraper: ScraperConfig{
			FetchTimeout:         parseDuration(getEnv("FETCH_TIMEOUT", "10s"), 10*time.Second),
			UserAgent:            getEnv("USER_AGENT", defaultUserAgent),
			PhoneRegion:          strings.ToUpper(getEnv("PHONE_REGION", "IN")),
			EmailSuffixBlocklist: parseList(getEnv("EMAIL_SUFFIX_BLOCKLIST", "6.8.6,1.8.2,2.0.1,0.2.6")),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_INSIGHTS", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_INSIGHTS value: %w", err)
	}
	cfg.RateLimitInsights = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return b
}

// parseList splits a comma separated value, dropping blank entries.
func parseList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
